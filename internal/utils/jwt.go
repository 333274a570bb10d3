package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gustoapp/auth-service/internal/domain"
)

// JWTManager issues and validates signed, self-contained tokens.
// Tokens carry subject, kind, issued-at, and expiry; access tokens
// additionally embed the role so request handling needs no directory lookup.
type JWTManager struct {
	secret             []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, accessTokenExpiry, refreshTokenExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:             []byte(secret),
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// GenerateAccessToken generates a new access token embedding the user's role
func (j *JWTManager) GenerateAccessToken(userID string, role domain.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"type": string(domain.TokenKindAccess),
		"iat":  now.Unix(),
		"exp":  now.Add(j.accessTokenExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken generates a new refresh token
func (j *JWTManager) GenerateRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"type": string(domain.TokenKindRefresh),
		"iat":  now.Unix(),
		"exp":  now.Add(j.refreshTokenExpiry).Unix(),
		"jti":  uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// DecodeToken verifies the signature, expiry, and kind of a token and
// returns its claims. Every failure mode collapses into
// domain.ErrInvalidToken so callers cannot distinguish which check failed.
func (j *JWTManager) DecodeToken(tokenString string, expectedKind domain.TokenKind) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	kind, ok := claims["type"].(string)
	if !ok || domain.TokenKind(kind) != expectedKind {
		return nil, domain.ErrInvalidToken
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, domain.ErrInvalidToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	tokenClaims := &domain.TokenClaims{
		UserID: userID,
		Kind:   domain.TokenKind(kind),
		Iat:    int64(iat),
		Exp:    int64(exp),
	}

	if expectedKind == domain.TokenKindAccess {
		roleStr, ok := claims["role"].(string)
		if !ok {
			return nil, domain.ErrInvalidToken
		}
		role, err := domain.ParseRole(roleStr)
		if err != nil {
			return nil, domain.ErrInvalidToken
		}
		tokenClaims.Role = role
	}

	if tokenClaims.IsExpired() {
		return nil, domain.ErrInvalidToken
	}

	return tokenClaims, nil
}

// GetAccessTokenExpiry returns the access token expiry duration in seconds
func (j *JWTManager) GetAccessTokenExpiry() int {
	return int(j.accessTokenExpiry.Seconds())
}
