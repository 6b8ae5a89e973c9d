package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dannykhan02/Lenny-media-backend/internal/api/metrics"
	"github.com/dannykhan02/Lenny-media-backend/internal/api/session"
	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
	"github.com/dannykhan02/Lenny-media-backend/internal/core/ports"
)

const claimsKey = "auth.claims"

// ClaimsFrom returns the claims stored by Authenticate or OptionalAuth, or nil.
func ClaimsFrom(c echo.Context) *domain.Claims {
	claims, _ := c.Get(claimsKey).(*domain.Claims)
	return claims
}

// SetClaims stores claims on the request context.
func SetClaims(c echo.Context, claims *domain.Claims) {
	c.Set(claimsKey, claims)
}

// Authenticate extracts and verifies the session token, rejects revoked tokens
// and injects the claims into the context. revocations may be nil.
func Authenticate(verifier ports.TokenVerifier, transport *session.Transport, revocations ports.RevocationStore, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := resolve(c, verifier, transport, revocations, log)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(resultLabel(err)).Inc()
				return err
			}
			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			SetClaims(c, claims)
			return next(c)
		}
	}
}

// OptionalAuth behaves like Authenticate but lets the request through without
// claims when the token is absent or unusable.
func OptionalAuth(verifier ports.TokenVerifier, transport *session.Transport, revocations ports.RevocationStore, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := resolve(c, verifier, transport, revocations, log); err == nil {
				SetClaims(c, claims)
			}
			return next(c)
		}
	}
}

func resolve(c echo.Context, verifier ports.TokenVerifier, transport *session.Transport, revocations ports.RevocationStore, log zerolog.Logger) (*domain.Claims, error) {
	raw, err := transport.Extract(c.Request())
	if err != nil {
		return nil, err
	}

	claims, err := verifier.Verify(raw)
	if err != nil {
		return nil, err
	}

	if revocations != nil && claims.TokenID != "" {
		revoked, err := revocations.IsRevoked(c.Request().Context(), claims.TokenID)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("user_id", claims.Subject).Msg("revocation check failed, accepting token")
		case revoked:
			return nil, domain.ErrTokenRevoked
		}
	}
	return claims, nil
}

func resultLabel(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "error"
}
