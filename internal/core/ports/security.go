package ports

import (
	"context"
	"time"

	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
)

// PasswordHasher hashes and verifies stored credentials.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenIssuer signs access tokens for a user.
type TokenIssuer interface {
	Issue(user *domain.User) (domain.IssuedToken, error)
}

// TokenVerifier validates a raw token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}

// TokenManager both issues and verifies tokens.
type TokenManager interface {
	TokenIssuer
	TokenVerifier
}

// RevocationStore is the denylist of tokens invalidated before expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// LoginThrottle limits repeated failed logins per account key.
type LoginThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// AuditSink accepts audit events for asynchronous persistence.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}
