package rate_limiter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitorLimiterBurst(t *testing.T) {
	l := NewVisitorLimiter(60)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	// burst is max(60/10, 1) = 6
	for i := range 6 {
		allowed, _, err := l.Allow(t.Context(), "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, retryAfter, err := l.Allow(t.Context(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Second, retryAfter)

	allowed, _, _ = l.Allow(t.Context(), "10.0.0.2")
	assert.True(t, allowed, "other clients keep their own budget")

	now = now.Add(time.Second)
	allowed, _, _ = l.Allow(t.Context(), "10.0.0.1")
	assert.True(t, allowed, "a token refills after a second")
}

func TestVisitorLimiterCleanup(t *testing.T) {
	l := NewVisitorLimiter(60)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	_, _, _ = l.Allow(t.Context(), "a")
	now = now.Add(2 * time.Minute)
	_, _, _ = l.Allow(t.Context(), "b")

	l.Cleanup(time.Minute)

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.visitors, "a")
	assert.Contains(t, l.visitors, "b")
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, "test", 2, time.Minute)

	for range 2 {
		allowed, _, err := l.Allow(t.Context(), "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, retryAfter, err := l.Allow(t.Context(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)

	mr.FastForward(time.Minute + time.Second)
	allowed, _, err = l.Allow(t.Context(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed, "a new window starts after expiry")
}

func TestRedisLimiterUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, _, err := NewRedisLimiter(client, "", 2, 0).Allow(t.Context(), "x")
	assert.Error(t, err)
}

type stubLimiter struct {
	allowed bool
	retry   time.Duration
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.retry, s.err
}

func TestMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name      string
		limiter   *stubLimiter
		wantCode  int
		wantRetry string
	}{
		{"allowed", &stubLimiter{allowed: true}, http.StatusNoContent, ""},
		{"denied", &stubLimiter{retry: 1500 * time.Millisecond}, http.StatusTooManyRequests, "2"},
		{"denied without hint", &stubLimiter{}, http.StatusTooManyRequests, "1"},
		{"backend down fails open", &stubLimiter{err: errors.New("down")}, http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			req.RemoteAddr = "192.0.2.7:51234"
			w := httptest.NewRecorder()

			Middleware(tt.limiter)(ok).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantRetry, w.Header().Get("Retry-After"))
			assert.Equal(t, []string{"192.0.2.7"}, tt.limiter.keys)
			if tt.wantCode == http.StatusTooManyRequests {
				assert.JSONEq(t, `{"error":"Too many requests."}`, w.Body.String())
			}
		})
	}
}
