package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type memoryLimiter struct {
	counts map[string]int64
}

func (m *memoryLimiter) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[key]++
	return m.counts[key], nil
}

func postSignin(handler http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(`{"email":"who@example.com","password":"x"}`))
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestAuthRateLimit_blocksAfterIPLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("signin", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, &memoryLimiter{}, nil)(okHandler())

	for i := 0; i < 2; i++ {
		if w := postSignin(handler, "1.2.3.4"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
	if w := postSignin(handler, "1.2.3.4"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	// A different IP has its own counter.
	if w := postSignin(handler, "5.6.7.8"); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for fresh ip, got %d", w.Code)
	}
}

func TestAuthRateLimit_blocksAfterEmailLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("signin", time.Minute, 0, 1)
	handler := AuthRateLimit(policy, &memoryLimiter{}, nil)(okHandler())

	if w := postSignin(handler, "1.2.3.4"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	// Same email from a different IP still counts.
	if w := postSignin(handler, "9.9.9.9"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestAuthRateLimit_noStoreIsNoop(t *testing.T) {
	policy := NewAuthRateLimitPolicy("signin", time.Minute, 1, 1)
	handler := AuthRateLimit(policy, nil, nil)(okHandler())

	for i := 0; i < 5; i++ {
		if w := postSignin(handler, "1.2.3.4"); w.Code != http.StatusOK {
			t.Fatalf("expected no-op middleware, got %d", w.Code)
		}
	}
}

func TestAuthRateLimit_bodyStaysReadable(t *testing.T) {
	policy := NewAuthRateLimitPolicy("signin", time.Minute, 0, 10)
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		seen = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthRateLimit(policy, &memoryLimiter{}, nil)(inner)

	postSignin(handler, "1.2.3.4")
	if !strings.Contains(seen, "who@example.com") {
		t.Fatalf("body was consumed by the limiter: %q", seen)
	}
}
