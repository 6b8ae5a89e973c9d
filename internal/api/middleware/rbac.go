package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
)

// RequireRole allows the request only when the authenticated identity holds one
// of roles. It must run after Authenticate.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return domain.ErrTokenMissing
			}
			for _, role := range roles {
				if claims.HasRole(role) {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
