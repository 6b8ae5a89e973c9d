package domain

import "time"

// Claims are the verified facts carried by an access token.
type Claims struct {
	TokenID   string    `json:"jti"`
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Issuer    string    `json:"iss,omitempty"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// HasRole reports whether the claims carry role, ignoring case.
func (c *Claims) HasRole(role Role) bool {
	return c != nil && c.Role.Is(role)
}

// IssuedToken is a freshly signed token and its identifying metadata.
type IssuedToken struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}
