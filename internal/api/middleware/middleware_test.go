package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dannykhan02/Lenny-media-backend/internal/api/session"
	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
	"github.com/dannykhan02/Lenny-media-backend/internal/infrastructure/security"
)

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevocations) Revoke(context.Context, string, time.Time) error { return nil }

func (s *stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return s.revoked[id], s.err
}

func newTokens(t *testing.T) *security.JWTManager {
	t.Helper()
	m, err := security.NewJWTManager("middleware-secret", "studio-test", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

func issue(t *testing.T, m *security.JWTManager, role domain.Role) domain.IssuedToken {
	t.Helper()
	tok, err := m.Issue(&domain.User{ID: "u-1", Email: "a@b.co", Role: role})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

func newTransport() *session.Transport {
	return session.New("sid", "/", "", false, http.SameSiteLaxMode, time.Hour)
}

func run(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (*domain.Claims, bool, error) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())

	var seen *domain.Claims
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		seen = ClaimsFrom(c)
		return c.NoContent(http.StatusOK)
	})(c)
	return seen, called, err
}

func TestAuthenticate_BearerToken(t *testing.T) {
	tokens := newTokens(t)
	tok := issue(t, tokens, domain.RolePhotographer)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Value)

	claims, called, err := run(t, Authenticate(tokens, newTransport(), nil, zerolog.Nop()), req)
	if err != nil || !called {
		t.Fatalf("expected pass-through, got err=%v called=%v", err, called)
	}
	if claims.Subject != "u-1" || claims.Role != domain.RolePhotographer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthenticate_Cookie(t *testing.T) {
	tokens := newTokens(t)
	tok := issue(t, tokens, domain.RoleStaff)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: tok.Value})

	claims, _, err := run(t, Authenticate(tokens, newTransport(), nil, zerolog.Nop()), req)
	if err != nil || claims == nil || claims.TokenID != tok.ID {
		t.Fatalf("expected cookie session, got %+v %v", claims, err)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	tokens := newTokens(t)
	other, _ := security.NewJWTManager("other-secret", "studio-test", time.Hour)
	foreign := issue(t, other, domain.RoleAdmin)

	expiredMgr, _ := security.NewJWTManager("middleware-secret", "studio-test", time.Hour,
		security.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
	expired := issue(t, expiredMgr, domain.RoleAdmin)

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing", "", domain.ErrTokenMissing},
		{"wrong scheme", "Basic abc", domain.ErrTokenMalformed},
		{"garbage", "Bearer not-a-token", domain.ErrTokenMalformed},
		{"foreign signature", "Bearer " + foreign.Value, domain.ErrTokenInvalidSignature},
		{"expired", "Bearer " + expired.Value, domain.ErrTokenExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			_, called, err := run(t, Authenticate(tokens, newTransport(), nil, zerolog.Nop()), req)
			if called {
				t.Fatalf("next must not run")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthenticate_Revoked(t *testing.T) {
	tokens := newTokens(t)
	tok := issue(t, tokens, domain.RoleAdmin)
	revocations := &stubRevocations{revoked: map[string]bool{tok.ID: true}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Value)

	_, called, err := run(t, Authenticate(tokens, newTransport(), revocations, zerolog.Nop()), req)
	if called || !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestAuthenticate_RevocationStoreDownFailsOpen(t *testing.T) {
	tokens := newTokens(t)
	tok := issue(t, tokens, domain.RoleAdmin)
	revocations := &stubRevocations{err: errors.New("redis down")}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Value)

	_, called, err := run(t, Authenticate(tokens, newTransport(), revocations, zerolog.Nop()), req)
	if err != nil || !called {
		t.Fatalf("expected pass-through, got %v", err)
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := newTokens(t)
	mw := OptionalAuth(tokens, newTransport(), nil, zerolog.Nop())

	claims, called, err := run(t, mw, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	if err != nil || !called || claims != nil {
		t.Fatalf("anonymous request should pass without claims: %+v %v", claims, err)
	}

	tok := issue(t, tokens, domain.RoleStaff)
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Value)
	claims, _, err = run(t, mw, req)
	if err != nil || claims == nil || claims.TokenID != tok.ID {
		t.Fatalf("expected claims for valid token: %+v %v", claims, err)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name   string
		claims *domain.Claims
		roles  []domain.Role
		want   error
	}{
		{"admin allowed", &domain.Claims{Role: domain.RoleAdmin}, []domain.Role{domain.RoleAdmin}, nil},
		{"case insensitive", &domain.Claims{Role: "ADMIN"}, []domain.Role{domain.RoleAdmin}, nil},
		{"any of", &domain.Claims{Role: domain.RolePhotographer}, []domain.Role{domain.RoleAdmin, domain.RolePhotographer}, nil},
		{"staff forbidden", &domain.Claims{Role: domain.RoleStaff}, []domain.Role{domain.RoleAdmin}, domain.ErrForbidden},
		{"no identity", nil, []domain.Role{domain.RoleAdmin}, domain.ErrTokenMissing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/users", nil), httptest.NewRecorder())
			if tc.claims != nil {
				SetClaims(c, tc.claims)
			}

			called := false
			err := RequireRole(tc.roles...)(func(c echo.Context) error {
				called = true
				return nil
			})(c)

			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if called != (tc.want == nil) {
				t.Fatalf("next called=%v, expected %v", called, tc.want == nil)
			}
		})
	}
}

func TestMetrics_RendersErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/missing", nil), rec)

	err := Metrics()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})(c)
	if err != nil {
		t.Fatalf("expected error to be handled, got %v", err)
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
}
