package domain

// Kind classifies a domain error for transport mapping.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindConflict
	KindNotFound
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Error is a user-facing failure: a stable code plus a readable message.
// Sentinels are compared by identity with errors.Is.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Validation
var (
	ErrMissingFields    = newError(KindValidation, "missing_fields", "email, password and full name are required")
	ErrMissingLogin     = newError(KindValidation, "missing_fields", "email and password are required")
	ErrInvalidEmail     = newError(KindValidation, "invalid_email", "invalid email address")
	ErrInvalidRole      = newError(KindValidation, "invalid_role", "invalid role specified, must be one of: admin, photographer, staff")
	ErrSelfDeactivation = newError(KindValidation, "self_deactivation", "administrators cannot deactivate their own account")
	ErrPasswordTooLong  = newError(KindValidation, "password_too_long", "password must be at most 72 bytes")
)

// Authentication
var (
	ErrInvalidCredentials    = newError(KindAuthentication, "invalid_credentials", "invalid email or password")
	ErrTokenMissing          = newError(KindAuthentication, "token_missing", "missing authentication token")
	ErrTokenExpired          = newError(KindAuthentication, "token_expired", "token has expired")
	ErrTokenInvalidSignature = newError(KindAuthentication, "token_invalid", "token signature is invalid")
	ErrTokenMalformed        = newError(KindAuthentication, "token_malformed", "token is malformed")
	ErrTokenRevoked          = newError(KindAuthentication, "token_revoked", "token has been revoked")
)

// Authorization
var (
	ErrForbidden          = newError(KindAuthorization, "forbidden", "forbidden: access denied")
	ErrAccountDeactivated = newError(KindAuthorization, "account_deactivated", "account is deactivated")
)

// Conflict
var (
	ErrEmailAlreadyExists = newError(KindConflict, "email_already_registered", "email already registered")
	ErrAdminAlreadyExists = newError(KindConflict, "admin_already_exists", "admin already exists")
)

// Not found / rate limiting
var (
	ErrUserNotFound    = newError(KindNotFound, "user_not_found", "user not found")
	ErrTooManyAttempts = newError(KindRateLimited, "too_many_attempts", "too many login attempts, try again later")
)
