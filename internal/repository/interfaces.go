package repository

import (
	"context"

	"github.com/gustoapp/auth-service/internal/domain"
)

// UserRepository defines persistence for identity records. Records are never
// hard-deleted here; deactivation flips the active flag.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, displayName string, pictureURL *string) error
	SetActive(ctx context.Context, userID string, active bool) error
}
