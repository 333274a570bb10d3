package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gustoapp/auth-service/internal/domain"
	"github.com/gustoapp/auth-service/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository for service tests
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	if user.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		user.ID = id.String()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, userID, displayName string, pictureURL *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.DisplayName = displayName
	u.PictureURL = pictureURL
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, userID string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = active
	u.UpdatedAt = time.Now()
	return nil
}

// setRole mutates a stored user's role directly, standing in for an external
// role change between token issuance and refresh
func (f *fakeUserRepo) setRole(userID string, role domain.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.Role = role
	}
}

func (f *fakeUserRepo) delete(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, userID)
}

// fakeExchanger maps one-time authorization codes to provider profiles
type fakeExchanger struct {
	mu       sync.Mutex
	profiles map[string]*domain.OAuthProfile
	used     map[string]bool
}

func newFakeExchanger() *fakeExchanger {
	return &fakeExchanger{
		profiles: make(map[string]*domain.OAuthProfile),
		used:     make(map[string]bool),
	}
}

func (f *fakeExchanger) addCode(code string, profile *domain.OAuthProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[code] = profile
}

func (f *fakeExchanger) AuthCodeURL(state string) string {
	return "https://provider.example.com/o/oauth2/auth?state=" + state
}

func (f *fakeExchanger) Exchange(_ context.Context, code string) (*domain.OAuthProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Authorization codes are single-use by provider contract
	if f.used[code] {
		return nil, fmt.Errorf("%w: code already redeemed", domain.ErrOAuthExchangeFailed)
	}
	profile, ok := f.profiles[code]
	if !ok {
		return nil, fmt.Errorf("%w: unknown code", domain.ErrOAuthExchangeFailed)
	}
	f.used[code] = true
	return profile, nil
}
