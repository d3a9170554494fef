package middleware

import (
	"net/http"

	"residora/internal/common"
	"residora/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireAdmin rejects callers whose JWT role is not admin. Must run after
// JWTMiddleware.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetRoleFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing caller identity")
			}
			if role != models.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}
