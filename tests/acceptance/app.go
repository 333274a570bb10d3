package acceptance

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gustoapp/auth-service/internal/config"
	"github.com/gustoapp/auth-service/internal/domain"
	"github.com/gustoapp/auth-service/internal/handler"
	"github.com/gustoapp/auth-service/internal/oauth"
	"github.com/gustoapp/auth-service/internal/repository"
	"github.com/gustoapp/auth-service/internal/service"
	"github.com/gustoapp/auth-service/internal/utils"
	"github.com/gustoapp/auth-service/pkg/database"
	"github.com/gustoapp/auth-service/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// FakeGoogle is an httptest stand-in for Google's OAuth endpoints. Codes are
// registered per test and are single-use, matching the provider contract.
type FakeGoogle struct {
	Server *httptest.Server

	mu       sync.Mutex
	profiles map[string]domain.OAuthProfile
	used     map[string]bool
}

func NewFakeGoogle() *FakeGoogle {
	f := &FakeGoogle{
		profiles: make(map[string]domain.OAuthProfile),
		used:     make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", f.handleToken)
	mux.HandleFunc("/userinfo", f.handleUserInfo)
	f.Server = httptest.NewServer(mux)

	return f
}

// AddCode registers a one-time authorization code resolving to a profile
func (f *FakeGoogle) AddCode(code string, profile domain.OAuthProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[code] = profile
}

func (f *FakeGoogle) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles = make(map[string]domain.OAuthProfile)
	f.used = make(map[string]bool)
}

func (f *FakeGoogle) Close() {
	f.Server.Close()
}

func (f *FakeGoogle) handleToken(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")

	f.mu.Lock()
	_, known := f.profiles[code]
	redeemed := f.used[code]
	if known && !redeemed {
		f.used[code] = true
	}
	f.mu.Unlock()

	if !known || redeemed {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid_grant"}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"access_token":"tok-%s","token_type":"bearer","expires_in":3600}`, code)
}

func (f *FakeGoogle) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if len(auth) < len("Bearer tok-") || auth[:len("Bearer tok-")] != "Bearer tok-" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	code := auth[len("Bearer tok-"):]

	f.mu.Lock()
	profile, ok := f.profiles[code]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profile)
}

// TestApp represents a test application instance
type TestApp struct {
	Config       *config.Config
	Router       *gin.Engine
	Server       *http.Server
	Listener     net.Listener
	BaseURL      string
	AuthService  service.AuthService
	Guard        *service.AccessGuard
	Repositories *repository.Repositories
	JWTManager   *utils.JWTManager
	Google       *FakeGoogle
	RateLimiter  *service.RateLimiter
	Logger       *zap.Logger
	Postgres     *database.Postgres
	Redis        *database.Redis
}

// NewTestApp creates a new test application instance wired against a fake
// Google provider
func NewTestApp(postgres *database.Postgres, redis *database.Redis) (*TestApp, error) {
	google := NewFakeGoogle()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "0",
			ReadTimeout:  config.Duration{Duration: 15 * time.Second},
			WriteTimeout: config.Duration{Duration: 15 * time.Second},
		},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-that-is-at-least-32-characters-long",
			AccessTokenExpiry:  config.Duration{Duration: 30 * time.Minute},
			RefreshTokenExpiry: config.Duration{Duration: 7 * 24 * time.Hour},
		},
		OAuth: config.OAuthConfig{
			GoogleClientID:     "test-client-id",
			GoogleClientSecret: "test-client-secret",
			GoogleRedirectURL:  "http://localhost:8080/api/v1/auth/google/callback",
			GoogleAuthURL:      google.Server.URL + "/auth",
			GoogleTokenURL:     google.Server.URL + "/token",
			GoogleUserInfoURL:  google.Server.URL + "/userinfo",
			ExchangeTimeout:    config.Duration{Duration: 5 * time.Second},
		},
		Security: config.SecurityConfig{
			BCryptCost:        4, // keep acceptance runs fast
			RateLimitRequests: 1000,
			RateLimitWindow:   config.Duration{Duration: 1 * time.Minute},
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
		Env: "test",
	}

	gin.SetMode(gin.TestMode)

	logger, err := observability.InitLogger("test")
	if err != nil {
		google.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	meterProvider, metricsHandler, err := observability.InitTelemetry("gusto-auth-test")
	if err != nil {
		google.Close()
		logger.Sync()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	authMetrics, err := observability.NewAuthMetrics(meterProvider, "gusto-auth-test")
	if err != nil {
		google.Close()
		logger.Sync()
		return nil, fmt.Errorf("failed to create auth metrics: %w", err)
	}

	repos := repository.NewRepositories(postgres)
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	exchanger := oauth.NewGoogleExchanger(oauth.Config{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
		AuthURL:      cfg.OAuth.GoogleAuthURL,
		TokenURL:     cfg.OAuth.GoogleTokenURL,
		UserInfoURL:  cfg.OAuth.GoogleUserInfoURL,
		Timeout:      cfg.OAuth.ExchangeTimeout.Duration,
	})

	rateLimiter := service.NewRateLimiter(redis)
	authService := service.NewAuthService(
		repos.User,
		jwtManager,
		exchanger,
		cfg.Security.BCryptCost,
		authMetrics,
		logger,
	)
	guard := service.NewAccessGuard(jwtManager, repos.User)
	authHandler := handler.NewAuthHandler(authService, exchanger)

	router := gin.New()
	router.Use(otelgin.Middleware("gusto-auth-test"))
	router.Use(handler.LoggerMiddleware(logger))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))
	setupRoutes(router, cfg, authHandler, guard, rateLimiter, metricsHandler)

	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		google.Close()
		logger.Sync()
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}

	addr := listener.Addr().(*net.TCPAddr)
	baseURL := fmt.Sprintf("http://localhost:%d", addr.Port)

	srv := &http.Server{
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	app := &TestApp{
		Config:       cfg,
		Router:       router,
		Server:       srv,
		Listener:     listener,
		BaseURL:      baseURL,
		AuthService:  authService,
		Guard:        guard,
		Repositories: repos,
		JWTManager:   jwtManager,
		Google:       google,
		RateLimiter:  rateLimiter,
		Logger:       logger,
		Postgres:     postgres,
		Redis:        redis,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start test server", zap.Error(err))
		}
	}()
	time.Sleep(100 * time.Millisecond)

	return app, nil
}

func (app *TestApp) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	app.Google.Close()

	if app.Logger != nil {
		app.Logger.Sync()
	}

	return nil
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	guard *service.AccessGuard,
	rateLimiter *service.RateLimiter,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "pass",
			"service": "gusto-auth",
		})
	})

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register",
				handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
				authHandler.Register,
			)
			auth.POST("/login",
				handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
				authHandler.Login,
			)
			auth.GET("/google/login", authHandler.GoogleLogin)
			auth.GET("/google/callback", authHandler.GoogleCallback)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", handler.AuthMiddleware(guard), authHandler.GetMe)
		}

		admin := api.Group("/admin", handler.AuthMiddleware(guard), handler.RequireRoles(guard, domain.RoleAdmin, domain.RoleOwner))
		{
			admin.GET("/users/:id", authHandler.GetUserByID)
		}
	}
}
