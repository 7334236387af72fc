package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/projectklase/comunika/core/hygiene"
)

type hygieneApi struct {
	svc *hygiene.Service
}

func registerHygieneAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *hygiene.Service) {
	api := hygieneApi{svc: svc}

	hg := g.Group("/admin/hygiene", jwt, adminMiddleware())
	hg.POST("", api.run)
	hg.GET("/latest", api.latest)
}

func (api *hygieneApi) run(ctx echo.Context) error {
	report := api.svc.Run(ctx.Request().Context())
	return ctx.JSON(http.StatusOK, report)
}

func (api *hygieneApi) latest(ctx echo.Context) error {
	report, err := api.svc.LastReport(ctx.Request().Context())
	if err != nil {
		if errors.Cause(err) == hygiene.ErrNoReport {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding latest report")
	}
	return ctx.JSON(http.StatusOK, report)
}
