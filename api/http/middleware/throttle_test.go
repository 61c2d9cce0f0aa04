package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeev21/accounts/api/http/middleware"
	"github.com/avdeev21/accounts/pkg/throttle"
)

type errStore struct{}

func (errStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, throttle.ErrStoreUnavailable
}

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

func TestThrottleStoreFailureFailsRequest(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter := throttle.NewLimiter(errStore{}, sysClock{})
	mw := middleware.NewThrottle(limiter, logger)

	app := fiber.New()
	app.Use(mw.Handle)
	app.Get("/v1/health", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	req := httptest.NewRequest(fiber.MethodGet, "/v1/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	// A broken counter store must fail the request, never admit it silently.
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestThrottleGlobalRule(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := sysClock{}
	store := throttle.NewMemoryStore(clk)
	t.Cleanup(store.Stop)
	mw := middleware.NewThrottle(throttle.NewLimiter(store, clk), logger)

	app := fiber.New()
	app.Use(mw.Handle)
	app.Get("/v1/health", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	for i := 0; i < throttle.RuleRequestsPerIP.Limit; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/health", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
