package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// AuthMetrics counts the auth operations the service completes. All
// methods are safe on a nil receiver so tests can run without a meter.
type AuthMetrics struct {
	registrations otelmetric.Int64Counter
	logins        otelmetric.Int64Counter
	refreshes     otelmetric.Int64Counter
}

func NewAuthMetrics(provider *sdkmetric.MeterProvider, serviceName string) (*AuthMetrics, error) {
	meter := provider.Meter(serviceName)

	registrations, err := meter.Int64Counter(
		"auth_registrations_total",
		otelmetric.WithDescription("Number of successful account registrations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create registrations counter: %w", err)
	}

	logins, err := meter.Int64Counter(
		"auth_logins_total",
		otelmetric.WithDescription("Number of successful logins by method"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create logins counter: %w", err)
	}

	refreshes, err := meter.Int64Counter(
		"auth_token_refreshes_total",
		otelmetric.WithDescription("Number of successful access token refreshes"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create refreshes counter: %w", err)
	}

	return &AuthMetrics{
		registrations: registrations,
		logins:        logins,
		refreshes:     refreshes,
	}, nil
}

func (m *AuthMetrics) UserRegistered(ctx context.Context) {
	if m == nil {
		return
	}
	m.registrations.Add(ctx, 1)
}

func (m *AuthMetrics) UserLoggedIn(ctx context.Context, method string) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("method", method)))
}

func (m *AuthMetrics) TokenRefreshed(ctx context.Context) {
	if m == nil {
		return
	}
	m.refreshes.Add(ctx, 1)
}

// PrometheusHandler adapts the Prometheus scrape handler to Gin.
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if handler == nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "metrics handler not initialized",
			})
			return
		}
		handler.ServeHTTP(c.Writer, c.Request)
	}
}
