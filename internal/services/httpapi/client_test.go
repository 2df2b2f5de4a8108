package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scribe/internal/services"
)

func newTestClient(opts ...Option) (*Client, *[]time.Duration) {
	var sleeps []time.Duration
	base := []Option{
		WithSleeper(func(d time.Duration) { sleeps = append(sleeps, d) }),
	}
	return NewClient(append(base, opts...)...), &sleeps
}

func TestDoRetriesTransientThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client, sleeps := newTestClient()
	body, err := client.Do(context.Background(), Request{Provider: "test", Operation: "probe", URL: srv.URL})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Fatalf("unexpected body %q", body)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if len(*sleeps) != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %d", len(*sleeps))
	}
	if (*sleeps)[0] != time.Second || (*sleeps)[1] != 2*time.Second {
		t.Fatalf("expected doubling backoff, got %v", *sleeps)
	}
}

func TestDoStopsAfterMaxAttempts(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, _ := newTestClient()
	_, err := client.Do(context.Background(), Request{Provider: "test", Operation: "probe", URL: srv.URL})
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient classification, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoNeverRetriesAuthFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, sleeps := newTestClient()
	_, err := client.Do(context.Background(), Request{Provider: "test", Operation: "probe", URL: srv.URL})
	if !errors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated classification, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("auth failure was retried: %d calls", calls)
	}
	if len(*sleeps) != 0 {
		t.Fatalf("unexpected sleeps %v", *sleeps)
	}
}

func TestDoHonorsRetryAfter(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "4")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, sleeps := newTestClient()
	if _, err := client.Do(context.Background(), Request{Provider: "test", Operation: "probe", URL: srv.URL}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != 4*time.Second {
		t.Fatalf("expected Retry-After sleep of 4s, got %v", *sleeps)
	}
}

func TestDoJSONTagsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	client, _ := newTestClient()
	var target map[string]any
	err := client.DoJSON(context.Background(), Request{Provider: "test", Operation: "probe", URL: srv.URL}, &target)
	if !errors.Is(err, services.ErrMalformedResponse) {
		t.Fatalf("expected malformed classification, got %v", err)
	}
}

func TestDoTimeoutNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	client, _ := newTestClient()
	_, err := client.Do(context.Background(), Request{Provider: "test", Operation: "probe", URL: srv.URL})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout classification, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("timeout was retried: %d calls", calls)
	}
}
