package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimuhub/elimu/core/week"
)

type weekApi struct {
	svc  *week.Service
	deps ServerDeps
}

func registerWeekAPI(e *echo.Echo, auth, admin echo.MiddlewareFunc, deps ServerDeps) {
	api := weekApi{svc: deps.WeekSvc, deps: deps}

	// The listing is deliberately unfiltered; student-facing callers filter
	// on `published` themselves while admin views need the full list.
	e.GET("/weeks/:subjectId", api.queryBySubject)

	e.POST("/admin/weeks", api.create, auth, admin)
	e.PUT("/admin/weeks/:id", api.update, auth, admin)
	e.DELETE("/admin/weeks/:id", api.destroy, auth, admin)
}

// Handlers

func (api *weekApi) create(ctx echo.Context) error {
	var data week.NewWeek
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewWeek")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	wk, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating week")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "week": wk})
}

func (api *weekApi) update(ctx echo.Context) error {
	var data week.UpdateWeek
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateWeek")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	wk, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == week.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating week")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "week": wk})
}

func (api *weekApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == week.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting week")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

func (api *weekApi) queryBySubject(ctx echo.Context) error {
	weeks, err := api.svc.QueryBySubject(ctx.Request().Context(), ctx.Param("subjectId"))
	if err != nil {
		return errors.Wrap(err, "querying weeks")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"weeks": weeks})
}
