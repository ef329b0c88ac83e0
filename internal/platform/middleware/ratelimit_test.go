package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cliniq/cliniq/internal/platform/auth"
)

func TestLimiter_BurstThenRefill(t *testing.T) {
	l := newLimiter(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if !l.allow("desk", now) || !l.allow("desk", now) {
		t.Fatal("the burst must admit the first two requests")
	}
	if l.allow("desk", now) {
		t.Error("third request at the same instant must be rejected")
	}

	// One second later one token has refilled.
	if !l.allow("desk", now.Add(time.Second)) {
		t.Error("expected a token after one second of refill")
	}
	if l.allow("desk", now.Add(time.Second)) {
		t.Error("only one token refills per second at rate 1")
	}
}

func TestLimiter_RefillCapsAtBurst(t *testing.T) {
	l := newLimiter(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 2})
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	l.allow("desk", now)
	// A long quiet stretch must not bank more than the burst.
	later := now.Add(time.Hour)
	if !l.allow("desk", later) || !l.allow("desk", later) {
		t.Fatal("expected the full burst after a quiet stretch")
	}
	if l.allow("desk", later) {
		t.Error("refill must cap at the burst size")
	}
}

func TestLimiter_RetryAfterAtLeastOneSecond(t *testing.T) {
	l := newLimiter(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l.allow("desk", now)
	l.allow("desk", now)

	if got := l.retryAfterSeconds("desk"); got < 1 {
		t.Errorf("expected Retry-After >= 1, got %d", got)
	}
	if got := l.retryAfterSeconds("unknown"); got != 1 {
		t.Errorf("unknown key must answer 1, got %d", got)
	}
}

func TestRateLimit_RejectsWithHeaders(t *testing.T) {
	e := echo.New()
	handler := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "1" {
		t.Errorf("expected X-RateLimit-Limit 1, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec = httptest.NewRecorder()
	err := handler(e.NewContext(req, rec))

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("expected X-RateLimit-Remaining 0, got %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
	if ra, convErr := strconv.Atoi(rec.Header().Get("Retry-After")); convErr != nil || ra < 1 {
		t.Errorf("expected integer Retry-After >= 1, got %q", rec.Header().Get("Retry-After"))
	}
}

func TestRateLimit_BucketsPerActor(t *testing.T) {
	e := echo.New()
	handler := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	asActor := func(id string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
		req = req.WithContext(auth.WithActor(req.Context(), auth.Actor{ID: id, Role: auth.RoleDoctor}))
		return e.NewContext(req, httptest.NewRecorder())
	}

	if err := handler(asActor("doctor-1")); err != nil {
		t.Fatalf("doctor-1 first request: %v", err)
	}
	if err := handler(asActor("doctor-1")); err == nil {
		t.Fatal("doctor-1 second request must be limited")
	}
	// A different actor draws on a separate bucket.
	if err := handler(asActor("reception-1")); err != nil {
		t.Fatalf("reception-1 first request: %v", err)
	}
}

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond != 100 || cfg.BurstSize != 200 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
