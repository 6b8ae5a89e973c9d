package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dannykhan02/Lenny-media-backend/internal/api/metrics"
	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
	"github.com/dannykhan02/Lenny-media-backend/internal/core/ports"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200

	// maxPasswordBytes is the bcrypt input limit.
	maxPasswordBytes = 72
)

// AuthDeps groups the collaborators of AuthService. Revocations, Throttle,
// AuditSink and Audit are optional; a nil value disables that feature.
type AuthDeps struct {
	Users       ports.UserRepository
	Hasher      ports.PasswordHasher
	Tokens      ports.TokenIssuer
	Revocations ports.RevocationStore
	Throttle    ports.LoginThrottle
	AuditSink   ports.AuditSink
	Audit       ports.AuditRepository
}

// AuthService implements login, logout, registration, first-admin bootstrap
// and profile management.
type AuthService struct {
	users       ports.UserRepository
	hasher      ports.PasswordHasher
	tokens      ports.TokenIssuer
	revocations ports.RevocationStore
	throttle    ports.LoginThrottle
	sink        ports.AuditSink
	audit       ports.AuditRepository
	logger      zerolog.Logger
	now         func() time.Time

	// dummyHash is compared against when the email is unknown so that a miss
	// costs the same as a wrong password.
	dummyHash string
}

func NewAuthService(deps AuthDeps, logger zerolog.Logger) *AuthService {
	s := &AuthService{
		users:       deps.Users,
		hasher:      deps.Hasher,
		tokens:      deps.Tokens,
		revocations: deps.Revocations,
		throttle:    deps.Throttle,
		sink:        deps.AuditSink,
		audit:       deps.Audit,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
	if h, err := deps.Hasher.Hash(uuid.NewString()); err == nil {
		s.dummyHash = h
	}
	return s
}

// Login verifies credentials and starts a session. Unknown email and wrong
// password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrMissingLogin
	}

	if !s.allowAttempt(ctx, email) {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		s.record(domain.AuditEvent{Action: domain.AuditLoginFailed, Email: email, Outcome: domain.OutcomeFailure, Reason: "throttled"}, in.Meta)
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(in.Password, s.dummyHash)
			s.loginFailed(ctx, email, "", "user_not_found", in.Meta)
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.loginFailed(ctx, email, user.ID, "invalid_password", in.Meta)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("deactivated").Inc()
		s.record(domain.AuditEvent{Action: domain.AuditLoginFailed, UserID: user.ID, Email: email, Outcome: domain.OutcomeFailure, Reason: "deactivated"}, in.Meta)
		return nil, domain.ErrAccountDeactivated
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	now := s.now()
	user.LastLogin = &now
	user.UpdatedAt = now
	if updated, err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	} else {
		user = updated
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.logger.Warn().Err(err).Str("email", email).Msg("failed to reset login throttle")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(domain.AuditEvent{Action: domain.AuditLogin, UserID: user.ID, Email: email, Outcome: domain.OutcomeSuccess}, in.Meta)
	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user logged in")

	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) allowAttempt(ctx context.Context, email string) bool {
	if s.throttle == nil {
		return true
	}
	ok, err := s.throttle.Allow(ctx, email)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("login throttle check failed, allowing attempt")
		return true
	}
	return ok
}

func (s *AuthService) loginFailed(ctx context.Context, email, userID, reason string, meta domain.RequestMeta) {
	metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	if s.throttle != nil {
		if err := s.throttle.Fail(ctx, email); err != nil {
			s.logger.Warn().Err(err).Str("email", email).Msg("failed to record login failure")
		}
	}
	s.record(domain.AuditEvent{Action: domain.AuditLoginFailed, UserID: userID, Email: email, Outcome: domain.OutcomeFailure, Reason: reason}, meta)
	s.logger.Info().Str("email", email).Str("reason", reason).Msg("login rejected")
}

// Logout revokes the presented token when there is one. It always succeeds.
func (s *AuthService) Logout(ctx context.Context, claims *domain.Claims, meta domain.RequestMeta) error {
	if claims == nil {
		return nil
	}
	if s.revocations != nil && claims.TokenID != "" {
		if err := s.revocations.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
			s.logger.Warn().Err(err).Str("user_id", claims.Subject).Msg("token revocation failed")
		} else {
			metrics.TokensRevokedTotal.Inc()
		}
	}
	s.record(domain.AuditEvent{Action: domain.AuditLogout, UserID: claims.Subject, Email: claims.Email, Outcome: domain.OutcomeSuccess}, meta)
	return nil
}

// Register creates a new account. It does not start a session.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := s.newUser(ctx, in.Email, in.Password, in.FullName, in.Role)
	if err != nil {
		s.registrationFailed("register", err)
		return nil, err
	}
	user.Phone = strings.TrimSpace(in.Phone)
	user.AvatarURL = strings.TrimSpace(in.AvatarURL)

	created, err := s.users.Create(ctx, user)
	if err != nil {
		s.registrationFailed("register", err)
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("register", "success").Inc()
	s.record(domain.AuditEvent{Action: domain.AuditRegister, UserID: created.ID, Email: created.Email, Outcome: domain.OutcomeSuccess}, in.Meta)
	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role.String()).Msg("user registered")
	return created, nil
}

// BootstrapFirstAdmin creates the first administrator and starts its session.
// It is refused once any admin exists.
func (s *AuthService) BootstrapFirstAdmin(ctx context.Context, in ports.BootstrapInput) (*ports.AuthResult, error) {
	exists, err := s.users.ExistsWithRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}
	if exists {
		s.registrationFailed("bootstrap_admin", domain.ErrAdminAlreadyExists)
		return nil, domain.ErrAdminAlreadyExists
	}

	user, err := s.newUser(ctx, in.Email, in.Password, in.FullName, domain.RoleAdmin.String())
	if err != nil {
		s.registrationFailed("bootstrap_admin", err)
		return nil, err
	}
	user.LastLogin = &user.CreatedAt

	created, err := s.users.CreateFirstAdmin(ctx, user)
	if err != nil {
		s.registrationFailed("bootstrap_admin", err)
		return nil, err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return nil, fmt.Errorf("bootstrap admin: issue token: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("bootstrap_admin", "success").Inc()
	s.record(domain.AuditEvent{Action: domain.AuditBootstrapAdmin, UserID: created.ID, Email: created.Email, Outcome: domain.OutcomeSuccess}, in.Meta)
	s.logger.Info().Str("user_id", created.ID).Msg("first admin bootstrapped")
	return &ports.AuthResult{Token: token, User: created}, nil
}

// newUser validates the shared registration fields and builds an active user
// with a hashed password. Checks run cheapest first so bcrypt only runs for
// an otherwise acceptable account.
func (s *AuthService) newUser(ctx context.Context, email, password, fullName, rawRole string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)
	if email == "" || password == "" || fullName == "" {
		return nil, domain.ErrMissingFields
	}
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if len(password) > maxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailAlreadyExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("check email: %w", err)
	}

	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	return &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *AuthService) registrationFailed(kind string, err error) {
	result := "error"
	var de *domain.Error
	if errors.As(err, &de) {
		result = de.Code
	}
	metrics.RegistrationsTotal.WithLabelValues(kind, result).Inc()
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile applies the set fields of update to the user's profile.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate, meta domain.RequestMeta) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.Empty() {
		return user, nil
	}

	update.Apply(user, s.now())
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditEvent{Action: domain.AuditProfileUpdate, UserID: updated.ID, Email: updated.Email, Outcome: domain.OutcomeSuccess}, meta)
	return updated, nil
}

// ListUsers returns every account. Admin only.
func (s *AuthService) ListUsers(ctx context.Context, identity *domain.Claims) ([]*domain.User, error) {
	if !identity.HasRole(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return s.users.List(ctx)
}

func (s *AuthService) CheckAdminExists(ctx context.Context) (bool, error) {
	return s.users.ExistsWithRole(ctx, domain.RoleAdmin)
}

// SetUserActive activates or deactivates an account. Admin only; an admin
// cannot deactivate their own account.
func (s *AuthService) SetUserActive(ctx context.Context, identity *domain.Claims, userID string, active bool, meta domain.RequestMeta) (*domain.User, error) {
	if !identity.HasRole(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if !active && identity.Subject == userID {
		return nil, domain.ErrSelfDeactivation
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsActive == active {
		return user, nil
	}

	user.IsActive = active
	user.UpdatedAt = s.now()
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	reason := "activated"
	if !active {
		reason = "deactivated"
	}
	s.record(domain.AuditEvent{Action: domain.AuditUserStatusChange, UserID: updated.ID, Email: updated.Email, Outcome: domain.OutcomeSuccess, Reason: reason}, meta)
	s.logger.Info().Str("user_id", updated.ID).Str("by", identity.Subject).Bool("active", active).Msg("user status changed")
	return updated, nil
}

// ListAuditEvents returns the newest audit events. Admin only.
func (s *AuthService) ListAuditEvents(ctx context.Context, identity *domain.Claims, limit int) ([]*domain.AuditEvent, error) {
	if !identity.HasRole(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if s.audit == nil {
		return []*domain.AuditEvent{}, nil
	}
	switch {
	case limit <= 0:
		limit = defaultAuditLimit
	case limit > maxAuditLimit:
		limit = maxAuditLimit
	}
	return s.audit.Recent(ctx, limit)
}

func (s *AuthService) record(event domain.AuditEvent, meta domain.RequestMeta) {
	if s.sink == nil {
		return
	}
	event.ID = uuid.NewString()
	event.CreatedAt = s.now()
	event.IP = meta.IP
	event.UserAgent = meta.UserAgent
	s.sink.Enqueue(event)
}
