package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of authorization roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// ParseRole converts a stored role string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleOwner:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether the role is one of the known values
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Provider is the authentication method a user signed up with.
type Provider string

const (
	ProviderEmail  Provider = "email"
	ProviderGoogle Provider = "google"
)

// ParseProvider converts a stored provider string into a Provider
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderEmail, ProviderGoogle:
		return Provider(s), nil
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// User represents an identity record. Exactly one of PasswordHash and
// GoogleID is populated, determined by Provider.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	Role         Role      `json:"role" db:"role"`
	Provider     Provider  `json:"provider" db:"provider"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	GoogleID     *string   `json:"-" db:"google_id"`
	PictureURL   *string   `json:"picture_url" db:"picture_url"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// OAuthProfile is the ephemeral identity returned by the external provider,
// used once to create or refresh a User.
type OAuthProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
