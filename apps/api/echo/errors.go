package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimuhub/elimu/core"
	"github.com/elimuhub/elimu/core/user"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid authorization token")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how
// to handle our errors. Every error body is {"error": <message or field-map>}.
// signalShutdown is called to gracefully shut the Server down whenever a
// core shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			if prof, ok := ctx.Get(contextProfileKey).(user.Profile); ok {
				logger.Error(msg, errors.Wrap(err, msg), prof)
			} else {
				logger.Error(msg, errors.Wrap(err, msg))
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, echo.Map{"error": message})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
