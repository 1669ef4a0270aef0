package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ordermanagement/pkg/config"
)

type fakeBucket struct {
	d    decision
	err  error
	keys []string
}

func (f *fakeBucket) take(_ context.Context, key string, _ time.Time) (decision, error) {
	f.keys = append(f.keys, key)
	return f.d, f.err
}

func serve(t *testing.T, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.POST("/api/authentication/signin", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, mw)

	req := httptest.NewRequest(http.MethodPost, "/api/authentication/signin", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

var testCfg = config.RateLimitConfig{
	Enabled:        true,
	Prefix:         "rl:auth",
	Capacity:       10,
	RefillTokens:   1,
	RefillInterval: time.Second,
	TTL:            time.Minute,
}

func TestMiddleware_Allows(t *testing.T) {
	t.Parallel()

	b := &fakeBucket{d: decision{allowed: true, remaining: 9}}
	rec := serve(t, newMiddleware(testCfg, b))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, []string{"rl:auth:ip:10.0.0.1:route:POST /api/authentication/signin"}, b.keys)
}

func TestMiddleware_Blocks(t *testing.T) {
	t.Parallel()

	b := &fakeBucket{d: decision{allowed: false, retry: 1500 * time.Millisecond}}
	rec := serve(t, newMiddleware(testCfg, b))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestMiddleware_FailsOpen(t *testing.T) {
	t.Parallel()

	b := &fakeBucket{err: errors.New("connection refused")}
	rec := serve(t, newMiddleware(testCfg, b))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestNew_DisabledOrNoClient(t *testing.T) {
	t.Parallel()

	disabled := testCfg
	disabled.Enabled = false
	assert.Equal(t, http.StatusOK, serve(t, New(disabled, nil)).Code)
	assert.Equal(t, http.StatusOK, serve(t, New(testCfg, nil)).Code)
}

func TestNew_UnreachableRedisFailsOpen(t *testing.T) {
	t.Parallel()

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	require.Equal(t, http.StatusOK, serve(t, New(testCfg, rdb)).Code)
}
