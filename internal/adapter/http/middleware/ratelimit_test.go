package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/metrics"
)

func TestRateLimiterPerOwner(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	rl := NewRateLimiter(0.001, 1, m)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	request := func(ownerID string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/buckets", nil)
		req = req.WithContext(domain.ContextWithOwner(req.Context(), &domain.Owner{ID: ownerID}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := request("owner-1"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := request("owner-1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be limited, got %d", code)
	}
	if code := request("owner-2"); code != http.StatusOK {
		t.Fatalf("expected other owner to pass, got %d", code)
	}

	if got := testutil.ToFloat64(m.RateLimitHits.WithLabelValues("owner")); got != 1 {
		t.Fatalf("expected one owner hit, got %v", got)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.getLimiter("ip:1.1.1.1")
	now = now.Add(time.Hour)
	rl.getLimiter("ip:2.2.2.2")

	if removed := rl.Cleanup(30 * time.Minute); removed != 1 {
		t.Fatalf("expected one idle limiter removed, got %d", removed)
	}
	if _, ok := rl.limiters["ip:2.2.2.2"]; !ok {
		t.Fatal("expected recent limiter to be kept")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := clientIP(req); got != "10.0.0.1" {
		t.Fatalf("expected host part of RemoteAddr, got %s", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Fatalf("expected first forwarded hop, got %s", got)
	}
}
