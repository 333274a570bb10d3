package service

import (
	"fmt"

	"github.com/gustoapp/auth-service/internal/domain"
)

// AuthResult contains the authenticated user and the token pair issued for
// the session. The access token expiry is much shorter than the refresh
// token expiry.
type AuthResult struct {
	User   *domain.User
	Tokens domain.TokenPair
}

// issueTokenPair generates one access token and one refresh token for the user
func (s *authService) issueTokenPair(user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResult{
		User: user,
		Tokens: domain.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    s.jwtManager.GetAccessTokenExpiry(),
		},
	}, nil
}
