package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusconnect/alumni-api/internal/api/middleware"
	"github.com/campusconnect/alumni-api/internal/core/domain"
)

// ctxIdentity extracts the caller identity injected by the Auth middleware.
// Its presence proves the middleware ran; absence means the route was wired
// without auth and the request must not proceed.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, ok := c.Get(middleware.IdentityKey).(*domain.Identity)
	if !ok || identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return identity, nil
}
