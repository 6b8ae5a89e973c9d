package ports

import (
	"context"

	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
)

// UserRepository is the credential store. Lookups that miss return
// domain.ErrUserNotFound; a duplicate email on insert returns
// domain.ErrEmailAlreadyExists.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	ExistsWithRole(ctx context.Context, role domain.Role) (bool, error)
	List(ctx context.Context) ([]*domain.User, error)

	// CreateFirstAdmin inserts user only if no admin has been bootstrapped
	// before, atomically. Returns domain.ErrAdminAlreadyExists otherwise.
	CreateFirstAdmin(ctx context.Context, user *domain.User) (*domain.User, error)
}

// AuditRepository persists and reads the auth audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	Recent(ctx context.Context, limit int) ([]*domain.AuditEvent, error)
}
