package domain

import "time"

// TokenKind discriminates access tokens from refresh tokens. A token issued
// as one kind must never be accepted where the other is required.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims represents the decoded payload of a signed token
type TokenClaims struct {
	UserID string    `json:"user_id"`
	Role   Role      `json:"role,omitempty"` // access tokens only
	Kind   TokenKind `json:"kind"`
	Iat    int64     `json:"iat"`
	Exp    int64     `json:"exp"`
}

// IsExpired checks if the token is expired
func (tc TokenClaims) IsExpired() bool {
	return time.Now().Unix() > tc.Exp
}

// TokenPair represents the access and refresh tokens returned after a
// successful login. Tokens are never persisted; validity is derived from
// signature and expiry alone.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
