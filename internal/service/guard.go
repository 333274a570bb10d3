package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/gustoapp/auth-service/internal/domain"
	"github.com/gustoapp/auth-service/internal/repository"
	"github.com/gustoapp/auth-service/internal/utils"
)

// AccessGuard authenticates bearer tokens and enforces role checks
type AccessGuard struct {
	jwtManager *utils.JWTManager
	userRepo   repository.UserRepository
}

// NewAccessGuard creates a new access guard
func NewAccessGuard(jwtManager *utils.JWTManager, userRepo repository.UserRepository) *AccessGuard {
	return &AccessGuard{
		jwtManager: jwtManager,
		userRepo:   userRepo,
	}
}

// Authenticate decodes a bearer token as an access token and loads the live
// user record. A missing user fails; an inactive one does not — the active
// check is left to the operations that need it.
func (g *AccessGuard) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := g.jwtManager.DecodeToken(tokenString, domain.TokenKindAccess)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := g.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// RequireRole checks that the user's role is one of the allowed roles
func (g *AccessGuard) RequireRole(user *domain.User, allowed ...domain.Role) error {
	if slices.Contains(allowed, user.Role) {
		return nil
	}
	return fmt.Errorf("role %s: %w", user.Role, domain.ErrForbidden)
}
