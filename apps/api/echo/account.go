package echoapi

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimuhub/elimu/core"
	"github.com/elimuhub/elimu/core/identity"
	"github.com/elimuhub/elimu/core/user"
)

type accountApi struct {
	deps ServerDeps
}

func registerAccountAPI(e *echo.Echo, auth echo.MiddlewareFunc, deps ServerDeps) {
	api := accountApi{deps: deps}

	e.POST("/signup", api.signUp)
	e.POST("/admin/signup", api.adminSignUp)
	e.POST("/signin", api.signIn)
	e.GET("/user", api.currentUser, auth)
}

// Handlers

func (api *accountApi) signUp(ctx echo.Context) error {
	var data SignUpRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignUpRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}
	return api.createAccount(ctx, data, user.RoleStudent)
}

func (api *accountApi) adminSignUp(ctx echo.Context) error {
	var data AdminSignUpRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AdminSignUpRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	secret := api.deps.Conf.AdminSignupSecret
	if secret == "" || subtle.ConstantTimeCompare([]byte(data.AdminSecret), []byte(secret)) != 1 {
		return errHttpForbidden
	}
	return api.createAccount(ctx, data.SignUpRequest, user.RoleAdmin)
}

func (api *accountApi) createAccount(ctx echo.Context, data SignUpRequest, role string) error {
	rctx := ctx.Request().Context()

	acct, err := api.deps.Provider.SignUp(rctx, data.Email, data.Password, data.Name)
	if err != nil {
		if errors.Cause(err) == identity.ErrEmailTaken {
			return core.NewValidationError(nil, core.FieldError{Field: "email", Error: err.Error()})
		}
		return errors.Wrap(err, "creating account")
	}

	prof, err := api.deps.ProfileSvc.Create(rctx, acct.ID, acct.Email, acct.Name, role)
	if err != nil {
		return errors.Wrap(err, "creating profile")
	}

	api.sendWelcomeEmail(prof)
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "user": prof})
}

func (api *accountApi) signIn(ctx echo.Context) error {
	var data SignInRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignInRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	token, err := api.deps.Provider.Authenticate(rctx, data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == identity.ErrInvalidCredentials {
			return core.NewValidationError(errors.New("invalid credentials"))
		}
		return errors.Wrap(err, "authenticating")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "token": token})
}

func (api *accountApi) currentUser(ctx echo.Context) error {
	prof, err := getContextProfile(ctx, api.deps.ProfileSvc)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"user": prof})
}

// sendWelcomeEmail fires and forgets; signup never blocks on mail delivery.
func (api *accountApi) sendWelcomeEmail(prof user.Profile) {
	api.deps.MailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: prof.Name, Address: prof.Email}},
		Subject: "Welcome!",
		TextContent: fmt.Sprintf(
			"Hi %s,\n\nYour account is ready. Sign in at %s to get started.\n",
			prof.Name, api.deps.Conf.FrontendBaseURL,
		),
	})
}

type (
	SignUpRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
		Name     string `json:"name" validate:"required"`
	}

	AdminSignUpRequest struct {
		SignUpRequest
		AdminSecret string `json:"adminSecret" validate:"required"`
	}

	SignInRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
)

func (sr *SignUpRequest) Validate(validate *validator.Validate) error {
	sr.Email = core.CleanString(sr.Email, true /* lower */)
	sr.Name = core.CleanString(sr.Name)
	return validate.Struct(sr)
}

func (ar *AdminSignUpRequest) Validate(validate *validator.Validate) error {
	ar.Email = core.CleanString(ar.Email, true /* lower */)
	ar.Name = core.CleanString(ar.Name)
	return validate.Struct(ar)
}

func (lr *SignInRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
