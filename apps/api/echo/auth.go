package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimuhub/elimu/core/identity"
	"github.com/elimuhub/elimu/core/user"
)

const (
	contextAccountKey = "account"
	contextProfileKey = "profile"
)

// authRequired verifies the bearer token against the identity provider on
// every call (no local session cache) and stashes the resolved account in the
// request context.
func authRequired(provider identity.Provider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, ok := bearerToken(ctx.Request())
			if !ok {
				return errUnauthorized
			}
			acct, err := provider.Verify(ctx.Request().Context(), token)
			if err != nil {
				if errors.Cause(err) == identity.ErrInvalidToken {
					return errUnauthorized
				}
				return errors.Wrap(err, "verifying token")
			}
			ctx.Set(contextAccountKey, acct)
			return next(ctx)
		}
	}
}

// adminRequired checks the caller's profile role; it layers on authRequired.
// A non-admin caller gets 403, never anything more specific.
func adminRequired(profileSvc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			acct, err := getContextAccount(ctx)
			if err != nil {
				return err
			}
			if err := profileSvc.RequireRole(ctx.Request().Context(), acct.ID, user.RoleAdmin); err != nil {
				if errors.Cause(err) == user.ErrForbidden {
					return errHttpForbidden
				}
				return errors.Wrap(err, "checking role")
			}
			return next(ctx)
		}
	}
}

func bearerToken(req *http.Request) (string, bool) {
	header := req.Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func getContextAccount(ctx echo.Context) (identity.Account, error) {
	if acct, ok := ctx.Get(contextAccountKey).(identity.Account); ok {
		return acct, nil
	}
	return identity.Account{}, errUnauthorized
}

// getContextProfile resolves and caches the caller's profile.
func getContextProfile(ctx echo.Context, svc *user.Service) (user.Profile, error) {
	if prof, ok := ctx.Get(contextProfileKey).(user.Profile); ok {
		return prof, nil
	}
	acct, err := getContextAccount(ctx)
	if err != nil {
		return user.Profile{}, err
	}
	prof, err := svc.GetByID(ctx.Request().Context(), acct.ID)
	if err != nil {
		return user.Profile{}, errors.Wrap(err, "finding profile by ID")
	}
	ctx.Set(contextProfileKey, prof)
	return prof, nil
}
