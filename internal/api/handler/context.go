package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/dannykhan02/Lenny-media-backend/internal/api/middleware"
	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
)

// identity returns the claims injected by the Authenticate middleware. A
// missing identity on a gated route means the middleware did not run, which
// is reported as an unauthenticated request.
func identity(c echo.Context) (*domain.Claims, error) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil || claims.Subject == "" {
		return nil, domain.ErrTokenMissing
	}
	return claims, nil
}

func requestMeta(c echo.Context) domain.RequestMeta {
	return domain.RequestMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
