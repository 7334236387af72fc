package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/projectklase/comunika/core/post"
)

type postApi struct {
	repo post.Repository
}

func registerPostAPI(g *echo.Group, jwt echo.MiddlewareFunc, repo post.Repository) {
	api := postApi{repo: repo}

	pg := g.Group("/posts", jwt)
	pg.POST("/validate", api.validate)
	pg.POST("", api.create)
	pg.GET("", api.query)
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
}

func (api *postApi) validate(ctx echo.Context) error {
	var draft post.Draft
	if err := ctx.Bind(&draft); err != nil {
		return errors.Wrap(err, "binding to Draft")
	}
	return ctx.JSON(http.StatusOK, post.ValidateDraft(draft))
}

func (api *postApi) create(ctx echo.Context) error {
	return api.write(ctx, "")
}

func (api *postApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.repo.GetPostByID(ctx.Request().Context(), id); err != nil {
		if errors.Cause(err) == post.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding post by ID")
	}
	return api.write(ctx, id)
}

func (api *postApi) write(ctx echo.Context, id string) error {
	var draft post.Draft
	if err := ctx.Bind(&draft); err != nil {
		return errors.Wrap(err, "binding to Draft")
	}
	draft.ID = id

	res := post.ValidateDraft(draft)
	if !res.Valid {
		return ctx.JSON(http.StatusBadRequest, res)
	}

	var err error
	if id == "" {
		res.Post, err = api.repo.CreatePost(ctx.Request().Context(), res.Post)
		if err != nil {
			return errors.Wrap(err, "creating post")
		}
		return ctx.JSON(http.StatusCreated, res)
	}
	res.Post, err = api.repo.UpdatePost(ctx.Request().Context(), res.Post)
	if err != nil {
		return errors.Wrap(err, "updating post")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *postApi) query(ctx echo.Context) error {
	posts, err := api.repo.QueryAllPosts(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying posts")
	}
	if posts == nil {
		posts = []post.Post{}
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *postApi) retrieve(ctx echo.Context) error {
	p, err := api.repo.GetPostByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == post.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding post by ID")
	}
	return ctx.JSON(http.StatusOK, p)
}
