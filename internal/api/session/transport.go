// Package session carries access tokens between the API and its clients: an
// HTTP-only cookie for browsers and the Authorization header for everything
// else.
package session

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
)

const (
	DefaultCookieName = "access_token"
	bearerScheme      = "bearer"
)

// Transport attaches, clears and extracts the session token.
type Transport struct {
	CookieName string
	Path       string
	Domain     string
	Secure     bool
	SameSite   http.SameSite
	TTL        time.Duration
}

// New returns a Transport with defaults filled in for empty fields.
func New(cookieName, path, domain string, secure bool, sameSite http.SameSite, ttl time.Duration) *Transport {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if path == "" {
		path = "/"
	}
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}
	return &Transport{
		CookieName: cookieName,
		Path:       path,
		Domain:     domain,
		Secure:     secure,
		SameSite:   sameSite,
		TTL:        ttl,
	}
}

// ParseSameSite maps "lax", "strict" and "none" (any case) to the cookie mode.
func ParseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("unknown SameSite mode %q", s)
	}
}

// Attach sets the session cookie on the response.
func (t *Transport) Attach(c echo.Context, token string, expiresAt time.Time) {
	maxAge := int(t.TTL.Seconds())
	if maxAge <= 0 {
		maxAge = int(time.Until(expiresAt).Seconds())
	}
	c.SetCookie(&http.Cookie{
		Name:     t.CookieName,
		Value:    token,
		Path:     t.Path,
		Domain:   t.Domain,
		Expires:  expiresAt,
		MaxAge:   maxAge,
		Secure:   t.Secure,
		HttpOnly: true,
		SameSite: t.SameSite,
	})
}

// Clear expires the session cookie. Safe to call without an active session.
func (t *Transport) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     t.CookieName,
		Value:    "",
		Path:     t.Path,
		Domain:   t.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   t.Secure,
		HttpOnly: true,
		SameSite: t.SameSite,
	})
}

// Extract returns the raw token from the request, preferring the cookie over
// the Authorization header.
func (t *Transport) Extract(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(t.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	header := strings.TrimSpace(r.Header.Get(echo.HeaderAuthorization))
	if header == "" {
		return "", domain.ErrTokenMissing
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", domain.ErrTokenMalformed
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrTokenMalformed
	}
	return token, nil
}
