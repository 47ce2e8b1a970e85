package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase/mocks"
)

func newIdempotentRequest(method, key, ownerID string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/income", bytes.NewBufferString(`{"amount":"10"}`))
	req.Header.Set(IdempotencyKeyHeader, key)
	if ownerID != "" {
		req = req.WithContext(domain.ContextWithOwner(req.Context(), &domain.Owner{ID: ownerID}))
	}
	return req
}

func TestIdempotencyMiddleware_StoreErrorAborts(t *testing.T) {
	var called bool
	store := mocks.NewMockIdempotencyStore()
	store.CheckAndSetFunc = func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
		return false, nil, context.DeadlineExceeded
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, newIdempotentRequest(http.MethodPost, "key-err", "owner-1"))

	if called {
		t.Fatalf("handler should not be called when store errors")
	}

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_ReplaysSuccessfulResponse(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute)

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"group_key":"g-1"}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, newIdempotentRequest(http.MethodPost, "k1", "owner-1"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, newIdempotentRequest(http.MethodPost, "k1", "owner-1"))

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != `{"group_key":"g-1"}` {
		t.Fatalf("unexpected replay: %d %s", second.Code, second.Body.String())
	}
	if second.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatalf("expected replay header")
	}
}

func TestIdempotencyMiddleware_KeysAreScopedPerOwner(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute)

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), newIdempotentRequest(http.MethodPost, "same", "owner-1"))
	handler.ServeHTTP(httptest.NewRecorder(), newIdempotentRequest(http.MethodPost, "same", "owner-2"))

	if calls != 2 {
		t.Fatalf("expected both owners to reach the handler, got %d calls", calls)
	}
}

func TestIdempotencyMiddleware_FailedResponsesReleaseKey(t *testing.T) {
	var released string
	var updated bool
	store := mocks.NewMockIdempotencyStore()
	store.UpdateFunc = func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
		updated = true
		return nil
	}
	store.ReleaseFunc = func(ctx context.Context, key string) error {
		released = key
		return nil
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})).ServeHTTP(rr, newIdempotentRequest(http.MethodDelete, "key-fail", "owner-1"))

	if updated {
		t.Fatalf("expected error responses not to be cached")
	}
	if released != "owner-1:key-fail" {
		t.Fatalf("expected scoped key to be released, got %q", released)
	}
}

func TestIdempotencyMiddleware_PanicReleasesKey(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute)

	panicking := true
	handler := Recovery(zerolog.Nop())(mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if panicking {
			panic("boom")
		}
		w.WriteHeader(http.StatusCreated)
	})))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, newIdempotentRequest(http.MethodPost, "key-panic", "owner-1"))
	if first.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from the panicking handler, got %d", first.Code)
	}

	panicking = false
	retry := httptest.NewRecorder()
	handler.ServeHTTP(retry, newIdempotentRequest(http.MethodPost, "key-panic", "owner-1"))
	if retry.Code != http.StatusCreated {
		t.Fatalf("expected the retry to run the handler, got %d", retry.Code)
	}
}

func TestIdempotencyMiddleware_InFlightKeyConflicts(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	store.CheckAndSetFunc = func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
		return true, []byte("processing"), nil
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for an in-flight key")
	})).ServeHTTP(rr, newIdempotentRequest(http.MethodPost, "busy", "owner-1"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_SkipsReadsAndMissingKeys(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	store.CheckAndSetFunc = func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
		t.Fatal("store must not be consulted")
		return false, nil, nil
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), newIdempotentRequest(http.MethodGet, "k", "owner-1"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/buckets", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}
