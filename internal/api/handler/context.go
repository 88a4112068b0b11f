package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/signaltracker/tracker-api/internal/core/authz"
	"github.com/signaltracker/tracker-api/internal/core/domain"
)

// ctxCaller extracts the identity injected by the Auth middleware and
// fast-fails before any service call: a positive uid and a known role prove
// the middleware ran and the token carried a usable identity.
func ctxCaller(c echo.Context) (authz.Caller, error) {
	uid, _ := c.Get("uid").(int64)
	role, _ := c.Get("role").(string)

	if uid <= 0 || !domain.ValidRole(role) {
		return authz.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return authz.Caller{UserID: uid, Role: role}, nil
}
