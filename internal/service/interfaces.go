package service

import (
	"context"

	"github.com/gustoapp/auth-service/internal/domain"
	"github.com/gustoapp/auth-service/internal/dto"
)

// AuthService defines the authentication use cases
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error)
	LoginWithGoogle(ctx context.Context, code string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}
