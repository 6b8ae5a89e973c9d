package domain

import (
	"strings"
	"time"
)

// Role is an access-control tier. Its canonical form is lowercase.
type Role string

const (
	RoleAdmin        Role = "admin"
	RolePhotographer Role = "photographer"
	RoleStaff        Role = "staff"
)

var roles = []Role{RoleAdmin, RolePhotographer, RoleStaff}

// Roles returns every defined role in declaration order.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// ParseRole resolves s to a Role case-insensitively. An empty string resolves
// to RoleStaff.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleStaff, nil
	}
	for _, r := range roles {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

// Is reports whether r and other name the same role, ignoring case.
// Every role comparison goes through here.
func (r Role) Is(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	for _, known := range roles {
		if r.Is(known) {
			return true
		}
	}
	return false
}

func (r Role) String() string { return strings.ToLower(string(r)) }

// User models a studio account (admin, photographer or staff member).
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Phone        string     `json:"phone,omitempty"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PublicUser is the outward projection returned on login.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
	IsActive  bool   `json:"is_active"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		FullName:  u.FullName,
		Phone:     u.Phone,
		AvatarURL: u.AvatarURL,
		IsActive:  u.IsActive,
	}
}

// ProfileUpdate carries the self-service profile fields. Nil leaves a field untouched.
type ProfileUpdate struct {
	FullName  *string
	Phone     *string
	AvatarURL *string
}

// Empty reports whether the update touches nothing.
func (p ProfileUpdate) Empty() bool {
	return p.FullName == nil && p.Phone == nil && p.AvatarURL == nil
}

// Apply copies the set fields onto u and refreshes UpdatedAt.
func (p ProfileUpdate) Apply(u *User, now time.Time) {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	u.UpdatedAt = now
}
