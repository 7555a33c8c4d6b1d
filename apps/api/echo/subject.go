package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimuhub/elimu/core/subject"
)

type subjectApi struct {
	svc  *subject.Service
	deps ServerDeps
}

func registerSubjectAPI(e *echo.Echo, auth, admin echo.MiddlewareFunc, deps ServerDeps) {
	api := subjectApi{svc: deps.SubjectSvc, deps: deps}

	e.GET("/subjects", api.query)
	e.POST("/admin/subjects", api.create, auth, admin)
	e.DELETE("/admin/subjects/:id", api.destroy, auth, admin)
}

// Handlers

func (api *subjectApi) create(ctx echo.Context) error {
	var data subject.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	sub, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "subject": sub})
}

func (api *subjectApi) query(ctx echo.Context) error {
	subjects, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"subjects": subjects})
}

func (api *subjectApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == subject.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}
