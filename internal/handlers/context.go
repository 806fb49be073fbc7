package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/openrelief/portal/backend/internal/middleware"
)

// getUserIDFromContext returns the authenticated user's ID, or 0 when the
// request carries no valid claims.
func getUserIDFromContext(c echo.Context) uint {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return 0
	}
	return claims.UserID
}
