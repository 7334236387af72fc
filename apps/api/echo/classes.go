package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/projectklase/comunika/core/class"
)

type classApi struct {
	repo class.Repository
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, repo class.Repository) {
	api := classApi{repo: repo}

	cg := g.Group("/classes", jwt)
	cg.POST("/validate", api.validate)
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
}

func (api *classApi) validate(ctx echo.Context) error {
	var draft class.Draft
	if err := ctx.Bind(&draft); err != nil {
		return errors.Wrap(err, "binding to Draft")
	}
	return ctx.JSON(http.StatusOK, class.ValidateDraft(draft))
}

func (api *classApi) create(ctx echo.Context) error {
	return api.write(ctx, "")
}

func (api *classApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.repo.GetClassByID(ctx.Request().Context(), id); err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding class by ID")
	}
	return api.write(ctx, id)
}

func (api *classApi) write(ctx echo.Context, id string) error {
	var draft class.Draft
	if err := ctx.Bind(&draft); err != nil {
		return errors.Wrap(err, "binding to Draft")
	}
	draft.ID = id

	res := class.ValidateDraft(draft)
	if !res.Valid {
		return ctx.JSON(http.StatusBadRequest, res)
	}

	var err error
	if id == "" {
		res.Class, err = api.repo.CreateClass(ctx.Request().Context(), res.Class)
		if err != nil {
			return errors.Wrap(err, "creating class")
		}
		return ctx.JSON(http.StatusCreated, res)
	}
	res.Class, err = api.repo.UpdateClass(ctx.Request().Context(), res.Class)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *classApi) query(ctx echo.Context) error {
	classes, err := api.repo.QueryAllClasses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []class.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	cls, err := api.repo.GetClassByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding class by ID")
	}
	return ctx.JSON(http.StatusOK, cls)
}
