package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimuhub/elimu/core/progress"
)

type progressApi struct {
	svc  *progress.Service
	deps ServerDeps
}

func registerProgressAPI(e *echo.Echo, auth echo.MiddlewareFunc, deps ServerDeps) {
	api := progressApi{svc: deps.ProgSvc, deps: deps}

	// progress is owned by the caller; records are always keyed by the
	// authenticated account, never by a client-supplied user ID
	e.POST("/progress", api.save, auth)
	e.GET("/progress", api.query, auth)
}

// Handlers

func (api *progressApi) save(ctx echo.Context) error {
	var data progress.SaveProgress
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveProgress")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	acct, err := getContextAccount(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Save(ctx.Request().Context(), acct.ID, data.WeekID, data.Completed)
	if err != nil {
		return errors.Wrap(err, "saving progress")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "progress": rec})
}

func (api *progressApi) query(ctx echo.Context) error {
	acct, err := getContextAccount(ctx)
	if err != nil {
		return err
	}
	records, err := api.svc.Query(ctx.Request().Context(), acct.ID)
	if err != nil {
		return errors.Wrap(err, "querying progress")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"progress": records})
}
