package authz

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/task_service/internal/domain"
	"github.com/Skotchmaster/task_service/pkg/logging"
)

// Require gates a route on a valid bearer token whose user has a role in
// allowed. On success the identity is placed in the request context.
func (a *Authorizer) Require(allowed domain.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id, err := a.Authorize(req.Context(), req.Header.Get(echo.HeaderAuthorization), allowed)
			if err != nil {
				return HTTPError(err)
			}

			ctx := IntoContext(req.Context(), id)
			ctx = logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", id.ID))
			c.SetRequest(req.WithContext(ctx))
			c.Set(CtxUserID, id.ID)
			c.Set(CtxRole, id.Role)

			return next(c)
		}
	}
}

// HTTPError maps an Authorize error to the response sent to the client.
func HTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return echo.NewHTTPError(http.StatusUnauthorized, "access denied: token not provided")
	case errors.Is(err, ErrInvalidCredential):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or unknown token")
	case errors.Is(err, ErrExpiredCredential):
		return echo.NewHTTPError(http.StatusUnauthorized, "token has expired")
	case errors.Is(err, ErrUnknownSubject):
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
	case errors.Is(err, ErrInsufficientRole):
		return echo.NewHTTPError(http.StatusForbidden, "access denied: insufficient permissions")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "error verifying token").SetInternal(err)
	}
}
