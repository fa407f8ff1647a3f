package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/task_service/internal/observability"
	"github.com/Skotchmaster/task_service/internal/transport"
)

// ErrorHandler renders every error as {message}. Server errors also carry
// the internal cause in error and are reported to Sentry.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = echo.NewHTTPError(http.StatusInternalServerError, "server error").SetInternal(err)
	}

	body := transport.ErrorResponse{Message: fmt.Sprint(he.Message)}
	if he.Code >= http.StatusInternalServerError {
		cause := he.Internal
		if cause == nil {
			cause = err
		}
		if he.Internal != nil {
			body.Error = he.Internal.Error()
		}
		observability.CaptureRequestError(c.Request(), c.Path(), he.Code, cause)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(he.Code)
	} else {
		werr = c.JSON(he.Code, body)
	}
	if werr != nil {
		c.Logger().Error(werr)
	}
}
