package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gustoapp/auth-service/internal/domain"
	"github.com/gustoapp/auth-service/internal/dto"
	"github.com/gustoapp/auth-service/internal/oauth"
	"github.com/gustoapp/auth-service/internal/repository"
	"github.com/gustoapp/auth-service/internal/utils"
	"github.com/gustoapp/auth-service/pkg/observability"
	"go.uber.org/zap"
)

// authService implements AuthService interface
type authService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	exchanger  oauth.Exchanger
	bcryptCost int
	metrics    *observability.AuthMetrics
	logger     *zap.Logger
}

// NewAuthService creates a new auth service. metrics may be nil.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	exchanger oauth.Exchanger,
	bcryptCost int,
	metrics *observability.AuthMetrics,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		exchanger:  exchanger,
		bcryptCost: bcryptCost,
		metrics:    metrics,
		logger:     logger,
	}
}

// Register creates a new password-backed user. Registration and login are
// separate steps; no tokens are issued here.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrValidationFailed)
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, fmt.Errorf("%w: password must be between %d and %d characters",
			domain.ErrValidationFailed, utils.PasswordMinLength, utils.PasswordMaxLength)
	}
	if !utils.ValidateDisplayName(req.DisplayName) {
		return nil, fmt.Errorf("%w: display name must be at least 2 characters", domain.ErrValidationFailed)
	}

	email := utils.SanitizeEmail(req.Email)

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("user with email %s: %w", email, domain.ErrAlreadyExists)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		DisplayName:  req.DisplayName,
		Role:         domain.RoleUser,
		Provider:     domain.ProviderEmail,
		PasswordHash: &passwordHash,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Concurrent registration with the same email
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, fmt.Errorf("user with email %s: %w", email, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.UserRegistered(ctx)

	return user, nil
}

// Login authenticates a user by email and password. Unknown email, an
// OAuth-only account, and a wrong password all yield the same generic
// failure so callers cannot probe which accounts exist.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Provider != domain.ProviderEmail || user.PasswordHash == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrInactiveAccount
	}

	result, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}
	s.metrics.UserLoggedIn(ctx, "password")

	return result, nil
}

// LoginWithGoogle exchanges an authorization code for the user's Google
// profile, then signs the matching user in. A first-time sign-in is an
// implicit registration; a repeat sign-in refreshes the provider-supplied
// profile fields.
func (s *authService) LoginWithGoogle(ctx context.Context, code string) (*AuthResult, error) {
	profile, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		// The wrapped cause stays in the log; callers only see the generic failure
		s.logger.Warn("oauth exchange failed", zap.Error(err))
		return nil, err
	}

	user, err := s.userRepo.GetByGoogleID(ctx, profile.ID)
	switch {
	case err == nil:
		if err := s.refreshProfile(ctx, user, profile); err != nil {
			return nil, err
		}
	case errors.Is(err, repository.ErrNotFound):
		user, err = s.resolveByEmail(ctx, profile)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to get user by google id: %w", err)
	}

	if !user.IsActive {
		return nil, domain.ErrInactiveAccount
	}

	result, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}
	s.metrics.UserLoggedIn(ctx, "google")

	return result, nil
}

// resolveByEmail handles a Google sign-in whose external id is unknown:
// an email hit on a password account is a takeover attempt and is rejected,
// an email hit on a google account is reused, a miss creates the user.
func (s *authService) resolveByEmail(ctx context.Context, profile *domain.OAuthProfile) (*domain.User, error) {
	email := utils.SanitizeEmail(profile.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		if user.Provider == domain.ProviderEmail {
			return nil, fmt.Errorf("email %s: %w", email, domain.ErrProviderMismatch)
		}
		if err := s.refreshProfile(ctx, user, profile); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	googleID := profile.ID
	user = &domain.User{
		Email:       email,
		DisplayName: profile.Name,
		Role:        domain.RoleUser,
		Provider:    domain.ProviderGoogle,
		GoogleID:    &googleID,
		IsActive:    true,
	}
	if profile.Picture != "" {
		picture := profile.Picture
		user.PictureURL = &picture
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// refreshProfile applies the provider-supplied display name and picture to
// an existing user. Last-writer-wins; this is an idempotent value update.
func (s *authService) refreshProfile(ctx context.Context, user *domain.User, profile *domain.OAuthProfile) error {
	var pictureURL *string
	if profile.Picture != "" {
		picture := profile.Picture
		pictureURL = &picture
	}

	if err := s.userRepo.UpdateProfile(ctx, user.ID, profile.Name, pictureURL); err != nil {
		return fmt.Errorf("failed to refresh profile: %w", err)
	}

	user.DisplayName = profile.Name
	user.PictureURL = pictureURL
	return nil
}

// Refresh mints a new access token from a valid refresh token. The user is
// reloaded so the new access token carries the current role, which may have
// changed since the refresh token was issued. Refresh tokens are not rotated.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtManager.DecodeToken(refreshToken, domain.TokenKindRefresh)
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	s.metrics.TokenRefreshed(ctx)

	return accessToken, nil
}

// GetUser gets user information
func (s *authService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
