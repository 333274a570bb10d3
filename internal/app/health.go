package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker pings every backing store the service depends on and
// reports a per-dependency status.
type HealthChecker struct {
	infra Infrastructure
}

func NewHealthChecker(infra Infrastructure) *HealthChecker {
	return &HealthChecker{
		infra: infra,
	}
}

func (h *HealthChecker) check(ctx context.Context) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	checks := map[string]func(context.Context) error{
		"postgres": h.infra.Postgres().Ping,
		"redis":    h.infra.Redis().Ping,
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	results := make(map[string]error, len(checks))

	for name, ping := range checks {
		wg.Add(1)
		go func(name string, ping func(context.Context) error) {
			defer wg.Done()
			err := ping(ctx)
			mu.Lock()
			results[name] = err
			mu.Unlock()
		}(name, ping)
	}
	wg.Wait()

	return results
}

func (h *HealthChecker) Handler(c *gin.Context) {
	results := h.check(c.Request.Context())

	status := http.StatusOK
	deps := make(gin.H, len(results))
	for name, err := range results {
		if err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = err.Error()
			continue
		}
		deps[name] = "pass"
	}

	body := gin.H{"dependencies": deps}
	if status == http.StatusOK {
		body["status"] = "pass"
	} else {
		body["status"] = "fail"
	}

	c.JSON(status, body)
}
