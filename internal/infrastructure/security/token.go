package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	defaultIssuer   = "studio-api"
)

// tokenClaims is the JWT payload: subject is the user id.
type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 access tokens. Tokens are stateless;
// early invalidation is handled by a separate revocation store.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a JWTManager.
type Option func(*JWTManager)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(m *JWTManager) { m.now = now }
}

// NewJWTManager returns a manager signing with secret. A non-positive ttl
// falls back to DefaultTokenTTL.
func NewJWTManager(secret, issuer string, ttl time.Duration, opts ...Option) (*JWTManager, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = defaultIssuer
	}
	m := &JWTManager{
		secret: []byte(trimmed),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// TTL is the lifetime given to every issued token.
func (m *JWTManager) TTL() time.Duration { return m.ttl }

// Issue signs a token carrying the user's id, email and role.
func (m *JWTManager) Issue(user *domain.User) (domain.IssuedToken, error) {
	if user == nil || user.ID == "" {
		return domain.IssuedToken{}, errors.New("invalid user for token generation")
	}

	now := m.now().UTC()
	expiry := now.Add(m.ttl)
	jti := uuid.NewString()

	claims := tokenClaims{
		Email: user.Email,
		Role:  user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return domain.IssuedToken{}, err
	}
	return domain.IssuedToken{Value: signed, ID: jti, ExpiresAt: expiry}, nil
}

// Verify parses and validates raw. Expired tokens return
// domain.ErrTokenExpired, a bad signature or algorithm returns
// domain.ErrTokenInvalidSignature and anything else structurally wrong
// returns domain.ErrTokenMalformed.
func (m *JWTManager) Verify(raw string) (*domain.Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.ErrTokenMissing
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	var claims tokenClaims
	token, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}
	if !token.Valid {
		return nil, domain.ErrTokenMalformed
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil || claims.Role == "" || claims.Subject == "" {
		return nil, domain.ErrTokenMalformed
	}

	out := &domain.Claims{
		TokenID: claims.ID,
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    role,
		Issuer:  claims.Issuer,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenInvalidSignature
	default:
		return domain.ErrTokenMalformed
	}
}
