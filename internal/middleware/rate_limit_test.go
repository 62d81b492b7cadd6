package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 5) // 10 per minute, burst of 5
	defer rl.Stop()

	// First 5 requests should be allowed (burst)
	for i := 0; i < 5; i++ {
		if !rl.Allow("ip:10.0.0.1") {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	if rl.Allow("ip:10.0.0.1") {
		t.Error("Request 6 should be rate limited")
	}
}

func TestRateLimiter_DifferentClients(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("ip:10.0.0.1") {
			t.Errorf("Client 1 request %d should be allowed", i+1)
		}
	}
	if rl.Allow("ip:10.0.0.1") {
		t.Error("Client 1 should be rate limited")
	}

	for i := 0; i < 3; i++ {
		if !rl.Allow("ip:10.0.0.2") {
			t.Errorf("Client 2 request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_RemoveStale(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	rl.Allow("ip:10.0.0.1")
	rl.removeStale(time.Now().Add(LimiterTTL + time.Second))

	remaining, _ := rl.GetState("ip:10.0.0.1")
	if remaining != 3 {
		t.Errorf("Expected a fresh bucket after cleanup, got %d remaining", remaining)
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	rl.Stop()
	rl.Stop()
}

func newRateLimitedRequest(e *echo.Echo, ip string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/months", nil)
	req.RemoteAddr = ip + ":5555"
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRateLimitMiddleware_LimitsByClientIP(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(10, 2)
	defer rl.Stop()

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	for i := 0; i < 2; i++ {
		c, rec := newRateLimitedRequest(e, "192.0.2.10")
		if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
			t.Fatalf("Request %d: Expected no error, got %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("Request %d: Expected status 200, got %d", i+1, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "10" {
			t.Errorf("Request %d: Expected X-RateLimit-Limit 10, got %q", i+1, rec.Header().Get("X-RateLimit-Limit"))
		}
		if rec.Header().Get("X-RateLimit-Remaining") == "" {
			t.Errorf("Request %d: Expected X-RateLimit-Remaining header", i+1)
		}
	}

	c, rec := newRateLimitedRequest(e, "192.0.2.10")
	if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}

	c, rec = newRateLimitedRequest(e, "192.0.2.11")
	if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Other client: Expected status 200, got %d", rec.Code)
	}
}

func TestClientKey_PrefersSubject(t *testing.T) {
	e := echo.New()
	c, _ := newRateLimitedRequest(e, "192.0.2.10")
	if got := clientKey(c); got != "ip:192.0.2.10" {
		t.Errorf("Expected ip key, got %q", got)
	}

	ctx := context.WithValue(c.Request().Context(), SubjectKey, "auth0|owner")
	c.SetRequest(c.Request().WithContext(ctx))
	if got := clientKey(c); got != "sub:auth0|owner" {
		t.Errorf("Expected subject key, got %q", got)
	}
}
