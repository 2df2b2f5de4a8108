package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scribe/internal/config"
	"scribe/internal/services"
	"scribe/internal/services/httpapi"
)

func withImmediateRetries() []httpapi.Option {
	return []httpapi.Option{httpapi.WithSleeper(func(time.Duration) {})}
}

func messageBody(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
	})
	if err != nil {
		t.Fatalf("marshal message: %v", err)
	}
	return body
}

func newClient(url string) *Client {
	return New(config.Anthropic{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "claude-sonnet-4-20250514",
	})
}

func TestGeneratePodcastParsesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("unexpected api key header %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("missing anthropic-version header")
		}
		w.Write(messageBody(t, `{"title":"Espresso Deep Dive","script":"Welcome back to the show.","duration":22,"outline":["intro","history"]}`))
	}))
	defer srv.Close()

	podcast, err := newClient(srv.URL).GeneratePodcast(context.Background(), "espresso", nil)
	if err != nil {
		t.Fatalf("GeneratePodcast failed: %v", err)
	}
	if podcast.Title != "Espresso Deep Dive" {
		t.Fatalf("unexpected title %q", podcast.Title)
	}
	if podcast.Duration != 22 {
		t.Fatalf("unexpected duration %d", podcast.Duration)
	}
}

func TestGeneratePodcastRepairsFencedPayload(t *testing.T) {
	broken := "```json\n{\"title\": \"Espresso Talk\", \"script\": \"Welcome to the episode.\", \"duration\": 20,\n```"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(messageBody(t, broken))
	}))
	defer srv.Close()

	podcast, err := newClient(srv.URL).GeneratePodcast(context.Background(), "espresso", nil)
	if err != nil {
		t.Fatalf("GeneratePodcast failed: %v", err)
	}
	if podcast.Script != "Welcome to the episode." {
		t.Fatalf("script not recovered: %q", podcast.Script)
	}
	if podcast.Duration != 20 {
		t.Fatalf("duration not recovered: %d", podcast.Duration)
	}
}

func TestGeneratePodcastUnrecoverableSynthesizesDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(messageBody(t, "I am unable to write that script."))
	}))
	defer srv.Close()

	podcast, err := newClient(srv.URL).GeneratePodcast(context.Background(), "espresso", nil)
	if err != nil {
		t.Fatalf("GeneratePodcast failed: %v", err)
	}
	if podcast.Script == "" {
		t.Fatal("script not synthesized")
	}
	if podcast.Title == "" {
		t.Fatal("title not synthesized")
	}
	if podcast.Duration != 18 {
		t.Fatalf("expected default duration 18, got %d", podcast.Duration)
	}
}

func TestGeneratePodcastRateLimitClassified(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := New(config.Anthropic{APIKey: "k", BaseURL: srv.URL}, withImmediateRetries()...)
	_, err := client.GeneratePodcast(context.Background(), "espresso", nil)
	if !errors.Is(err, services.ErrRateLimited) {
		t.Fatalf("expected rate limited, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestGeneratePodcastMissingKey(t *testing.T) {
	client := New(config.Anthropic{BaseURL: "http://localhost:0"})
	_, err := client.GeneratePodcast(context.Background(), "espresso", nil)
	if !errors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}
