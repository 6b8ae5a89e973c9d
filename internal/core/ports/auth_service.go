package ports

import (
	"context"

	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
)

// LoginInput carries credentials plus the caller's request metadata.
type LoginInput struct {
	Email    string
	Password string
	Meta     domain.RequestMeta
}

// RegisterInput carries a new account. Role is optional and defaults to staff.
type RegisterInput struct {
	Email     string
	Password  string
	FullName  string
	Role      string
	Phone     string
	AvatarURL string
	Meta      domain.RequestMeta
}

// BootstrapInput carries the first administrator account.
type BootstrapInput struct {
	Email    string
	Password string
	FullName string
	Meta     domain.RequestMeta
}

// AuthResult is returned by operations that start a session.
type AuthResult struct {
	Token domain.IssuedToken
	User  *domain.User
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, claims *domain.Claims, meta domain.RequestMeta) error
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	BootstrapFirstAdmin(ctx context.Context, in BootstrapInput) (*AuthResult, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate, meta domain.RequestMeta) (*domain.User, error)
	ListUsers(ctx context.Context, identity *domain.Claims) ([]*domain.User, error)
	CheckAdminExists(ctx context.Context) (bool, error)
	SetUserActive(ctx context.Context, identity *domain.Claims, userID string, active bool, meta domain.RequestMeta) (*domain.User, error)
	ListAuditEvents(ctx context.Context, identity *domain.Claims, limit int) ([]*domain.AuditEvent, error)
}
