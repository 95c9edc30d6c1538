package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/redis"
	"github.com/stretchr/testify/assert"
)

// fakeRunner counts requests per key without a window
type fakeRunner struct {
	mu     sync.Mutex
	counts map[string]int
	keys   []string
	err    error
}

func (f *fakeRunner) Key(parts ...string) string {
	return "test:" + strings.Join(parts, ":")
}

func (f *fakeRunner) RunScript(_ context.Context, _ *redis.Script, keys []string, args ...interface{}) (interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	key := keys[0]
	f.keys = append(f.keys, key)
	now := args[0].(int64)
	window := args[1].(int64)
	limit := args[2].(int)

	current := f.counts[key]
	if current < limit {
		f.counts[key] = current + 1
		return []interface{}{int64(1), int64(limit - current - 1), now + window}, nil
	}
	return []interface{}{int64(0), int64(0), now + window}, nil
}

func setupRouter(runner ScriptRunner, cfg RateLimiterConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(runner, cfg, logger.NewNop()))
	r.GET("/api/v1/search", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/assistant/status", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	runner := &fakeRunner{counts: map[string]int{}}
	r := setupRouter(runner, RateLimiterConfig{MaxRequests: 2, WindowSeconds: 60})

	w := get(r, "/api/v1/search")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = get(r, "/api/v1/search")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = get(r, "/api/v1/search")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "too many requests")

	assert.Equal(t, "test:rate_limit:ip:10.0.0.1", runner.keys[0])
}

func TestRateLimiter_EndpointStrategy(t *testing.T) {
	runner := &fakeRunner{counts: map[string]int{}}
	r := setupRouter(runner, RateLimiterConfig{MaxRequests: 1, WindowSeconds: 60, Strategy: "endpoint"})

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/search").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/assistant/status").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/api/v1/search").Code)

	assert.Equal(t, "test:rate_limit:endpoint:/api/v1/search:10.0.0.1", runner.keys[0])
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	runner := &fakeRunner{err: errors.New("connection refused")}
	r := setupRouter(runner, RateLimiterConfig{MaxRequests: 1})

	for i := 0; i < 3; i++ {
		w := get(r, "/api/v1/search")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiter_UnparseableClientIP(t *testing.T) {
	runner := &fakeRunner{counts: map[string]int{}}
	r := setupRouter(runner, RateLimiterConfig{MaxRequests: 5, WindowSeconds: 60})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	req.RemoteAddr = "not-an-address"
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test:rate_limit:ip:unknown", runner.keys[0])
}
