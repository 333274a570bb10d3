package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gustoapp/auth-service/internal/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Exchanger performs the OAuth2 authorization-code flow against an external
// identity provider.
type Exchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.OAuthProfile, error)
}

// Config holds the provider settings for the Google exchanger. AuthURL,
// TokenURL and UserInfoURL default to Google's endpoints and exist so tests
// can point at a fake provider.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Timeout      time.Duration
}

// GoogleExchanger implements Exchanger for Google's OAuth2 endpoints
type GoogleExchanger struct {
	config      *oauth2.Config
	userInfoURL string
	timeout     time.Duration
}

// NewGoogleExchanger creates a new Google OAuth exchanger
func NewGoogleExchanger(cfg Config) *GoogleExchanger {
	endpoint := google.Endpoint
	if cfg.AuthURL != "" && cfg.TokenURL != "" {
		endpoint = oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.TokenURL,
		}
	}

	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = defaultUserInfoURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &GoogleExchanger{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
		timeout:     timeout,
	}
}

// AuthCodeURL builds the provider's consent URL. Pure, no network calls.
func (g *GoogleExchanger) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// Exchange trades a one-time authorization code for the user's profile: one
// call to exchange the code for a provider token, one call to fetch the
// profile with it. Both calls share a single timeout. Every failure mode
// collapses into domain.ErrOAuthExchangeFailed; the underlying cause is kept
// in the wrapped message for logging only.
func (g *GoogleExchanger) Exchange(ctx context.Context, code string) (*domain.OAuthProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", domain.ErrOAuthExchangeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo request: %v", domain.ErrOAuthExchangeFailed, err)
	}

	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo fetch: %v", domain.ErrOAuthExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo returned status %d", domain.ErrOAuthExchangeFailed, resp.StatusCode)
	}

	var profile domain.OAuthProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: malformed profile response: %v", domain.ErrOAuthExchangeFailed, err)
	}

	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: profile is missing id or email", domain.ErrOAuthExchangeFailed)
	}

	return &profile, nil
}
