package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gustoapp/auth-service/internal/domain"
	"github.com/gustoapp/auth-service/internal/dto"
)

func (s *Suite) TestRegister_Success() {
	var user dto.UserResponse
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Email:       "test@example.com",
		Password:    "Password123",
		DisplayName: "Test User",
	}, &user)

	s.Equal(http.StatusCreated, resp.StatusCode)
	s.NotEmpty(user.ID)
	s.Equal("test@example.com", user.Email)
	s.Equal("Test User", user.DisplayName)
	s.Equal("user", user.Role)
	s.Equal("email", user.Provider)
	s.True(user.IsActive)
}

func (s *Suite) TestRegister_NoPasswordHashInResponse() {
	payload, _ := json.Marshal(dto.RegisterRequest{
		Email:       "test@example.com",
		Password:    "Password123",
		DisplayName: "Test User",
	})

	resp, err := http.Post(s.App.BaseURL+"/api/v1/auth/register", "application/json", bytes.NewBuffer(payload))
	s.Require().NoError(err)
	defer resp.Body.Close()

	var raw map[string]interface{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&raw))
	s.NotContains(raw, "password_hash")
	s.NotContains(raw, "access_token", "registration must not issue tokens")
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.registerUser("duplicate@example.com", "Password123", "First")

	var errResp dto.ErrorResponse
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Email:       "duplicate@example.com",
		Password:    "Password123",
		DisplayName: "Second",
	}, &errResp)

	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("Conflict", errResp.Error)
}

func (s *Suite) TestRegister_ValidationFailures() {
	cases := []dto.RegisterRequest{
		{Email: "invalid-email", Password: "Password123", DisplayName: "Test"},
		{Email: "test@example.com", Password: "short", DisplayName: "Test"},
		{Email: "test@example.com", Password: "Password123", DisplayName: "T"},
	}

	for _, req := range cases {
		resp := s.postJSON("/api/v1/auth/register", req, nil)
		s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	}
}

func (s *Suite) TestRegister_MaxLengthPassword() {
	// 100 characters is within bounds even though it exceeds bcrypt's raw
	// 72-byte input limit.
	password := strings.Repeat("a", 100)

	var user dto.UserResponse
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Email:       "longpass@example.com",
		Password:    password,
		DisplayName: "Long Pass",
	}, &user)
	s.Equal(http.StatusCreated, resp.StatusCode)

	auth := s.loginUser("longpass@example.com", password)
	s.NotEmpty(auth.AccessToken)
}

func (s *Suite) TestLogin_Success() {
	created := s.registerUser("login@example.com", "Password123", "Login User")

	auth := s.loginUser("login@example.com", "Password123")

	s.NotEmpty(auth.AccessToken)
	s.NotEmpty(auth.RefreshToken)
	s.NotEqual(auth.AccessToken, auth.RefreshToken)
	s.Equal("Bearer", auth.TokenType)
	s.NotZero(auth.ExpiresIn)
	s.Equal(created.ID, auth.User.ID)
	s.Equal("login@example.com", auth.User.Email)
}

func (s *Suite) TestLogin_InvalidCredentials() {
	s.registerUser("login@example.com", "Password123", "Login User")

	// Wrong password and unknown account return the same status
	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "WrongPassword1",
	}, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Password123",
	}, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogin_InactiveAccount() {
	created := s.registerUser("inactive@example.com", "Password123", "Inactive User")
	s.deactivateUser(created.ID)

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "inactive@example.com",
		Password: "Password123",
	}, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestGoogleLogin_AuthorizationURL() {
	var urlResp dto.AuthorizationURLResponse
	resp := s.get("/api/v1/auth/google/login", "", &urlResp)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(urlResp.AuthorizationURL, "client_id=test-client-id")
	s.Contains(urlResp.AuthorizationURL, "response_type=code")
}

func (s *Suite) TestGoogleCallback_CreatesUser() {
	s.App.Google.AddCode("code-1", domain.OAuthProfile{
		ID:      "goog-1",
		Email:   "alice@example.com",
		Name:    "Alice",
		Picture: "https://img.example.com/alice.png",
	})

	var auth dto.AuthResponse
	resp := s.googleCallback("code-1", &auth)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(auth.AccessToken)
	s.NotEmpty(auth.RefreshToken)
	s.Equal("alice@example.com", auth.User.Email)
	s.Equal("Alice", auth.User.DisplayName)
	s.Equal("google", auth.User.Provider)
	s.Equal("user", auth.User.Role)
}

func (s *Suite) TestGoogleCallback_IdempotentIdentity() {
	s.App.Google.AddCode("code-1", domain.OAuthProfile{ID: "goog-1", Email: "alice@example.com", Name: "Alice"})
	s.App.Google.AddCode("code-2", domain.OAuthProfile{ID: "goog-1", Email: "alice@example.com", Name: "Alice Renamed"})

	var first dto.AuthResponse
	resp := s.googleCallback("code-1", &first)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var second dto.AuthResponse
	resp = s.googleCallback("code-2", &second)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	s.Equal(first.User.ID, second.User.ID)
	s.Equal("Alice Renamed", second.User.DisplayName)
}

func (s *Suite) TestGoogleCallback_CodeReuse() {
	s.App.Google.AddCode("code-1", domain.OAuthProfile{ID: "goog-1", Email: "alice@example.com", Name: "Alice"})

	resp := s.googleCallback("code-1", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	// Authorization codes are single-use
	resp = s.googleCallback("code-1", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGoogleCallback_ProviderMismatch() {
	s.registerUser("bob@example.com", "Password123", "Bob")

	s.App.Google.AddCode("code-1", domain.OAuthProfile{ID: "goog-1", Email: "bob@example.com", Name: "Bob"})

	resp := s.googleCallback("code-1", nil)
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestGoogleCallback_MissingCode() {
	resp := s.get("/api/v1/auth/google/callback", "", nil)
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *Suite) TestRefresh_Success() {
	s.registerUser("refresh@example.com", "Password123", "Refresh User")
	auth := s.loginUser("refresh@example.com", "Password123")

	var refreshResp dto.RefreshResponse
	resp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: auth.RefreshToken}, &refreshResp)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(refreshResp.AccessToken)

	// The fresh access token is usable
	var me dto.UserResponse
	meResp := s.get("/api/v1/auth/me", refreshResp.AccessToken, &me)
	s.Equal(http.StatusOK, meResp.StatusCode)
	s.Equal("refresh@example.com", me.Email)
}

func (s *Suite) TestRefresh_WrongTokenKind() {
	s.registerUser("refresh@example.com", "Password123", "Refresh User")
	auth := s.loginUser("refresh@example.com", "Password123")

	resp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: auth.AccessToken}, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_InvalidToken() {
	resp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: "not-a-token"}, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestMe_Success() {
	created := s.registerUser("me@example.com", "Password123", "Me User")
	auth := s.loginUser("me@example.com", "Password123")

	var me dto.UserResponse
	resp := s.get("/api/v1/auth/me", auth.AccessToken, &me)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(created.ID, me.ID)
	s.Equal("me@example.com", me.Email)
}

func (s *Suite) TestMe_Unauthorized() {
	resp := s.get("/api/v1/auth/me", "", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = s.get("/api/v1/auth/me", "garbage-token", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestMe_TokenOutlivesDeactivation() {
	created := s.registerUser("bob@example.com", "Secret123!", "Bob")
	auth := s.loginUser("bob@example.com", "Secret123!")

	s.deactivateUser(created.ID)

	// Login is now rejected, but the previously issued access token still
	// authenticates until it expires
	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "bob@example.com",
		Password: "Secret123!",
	}, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	var me dto.UserResponse
	meResp := s.get("/api/v1/auth/me", auth.AccessToken, &me)
	s.Equal(http.StatusOK, meResp.StatusCode)
	s.False(me.IsActive)
}

func (s *Suite) TestAdmin_RequiresRole() {
	created := s.registerUser("plain@example.com", "Password123", "Plain User")
	auth := s.loginUser("plain@example.com", "Password123")

	resp := s.get("/api/v1/admin/users/"+created.ID, auth.AccessToken, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestAdmin_GetUser() {
	target := s.registerUser("target@example.com", "Password123", "Target User")
	adminUser := s.registerUser("admin@example.com", "Password123", "Admin User")
	s.promoteUser(adminUser.ID, "admin")

	// Role is embedded at issuance, so log in after the promotion
	auth := s.loginUser("admin@example.com", "Password123")

	var got dto.UserResponse
	resp := s.get("/api/v1/admin/users/"+target.ID, auth.AccessToken, &got)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(target.ID, got.ID)

	resp = s.get("/api/v1/admin/users/00000000-0000-0000-0000-000000000000", auth.AccessToken, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestRefresh_RederivesRole() {
	created := s.registerUser("rising@example.com", "Password123", "Rising Star")
	auth := s.loginUser("rising@example.com", "Password123")

	s.promoteUser(created.ID, "admin")

	// The old access token still carries role=user and is rejected by the
	// admin group; a refreshed token picks up the new role
	resp := s.get("/api/v1/admin/users/"+created.ID, auth.AccessToken, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	var refreshResp dto.RefreshResponse
	refResp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: auth.RefreshToken}, &refreshResp)
	s.Require().Equal(http.StatusOK, refResp.StatusCode)

	resp = s.get("/api/v1/admin/users/"+created.ID, refreshResp.AccessToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}
