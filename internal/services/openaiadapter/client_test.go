package openaiadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"scribe/internal/config"
	"scribe/internal/services"
)

func completionBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			},
		},
	})
	if err != nil {
		t.Fatalf("marshal completion: %v", err)
	}
	return body
}

func newClient(url string) *Client {
	return New(config.OpenAI{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "gpt-4o-mini",
	})
}

func TestGenerateSocialParsesPayload(t *testing.T) {
	payload := `{"twitter":{"thread":["Espresso 101"],"hashtags":["#coffee"]},"linkedin":{"post":"A new guide.","hashtags":[]},"instagram":{"caption":"Daily brew","hashtags":["#espresso"]}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody(t, payload))
	}))
	defer srv.Close()

	social, err := newClient(srv.URL).GenerateSocial(context.Background(), "espresso", nil)
	if err != nil {
		t.Fatalf("GenerateSocial failed: %v", err)
	}
	if len(social.Twitter.Thread) != 1 || social.Twitter.Thread[0] != "Espresso 101" {
		t.Fatalf("unexpected twitter thread %v", social.Twitter.Thread)
	}
	if social.LinkedIn.Post != "A new guide." {
		t.Fatalf("unexpected linkedin post %q", social.LinkedIn.Post)
	}
	if social.Instagram.Caption != "Daily brew" {
		t.Fatalf("unexpected instagram caption %q", social.Instagram.Caption)
	}
}

func TestGenerateSocialFencedPayload(t *testing.T) {
	payload := "```json\n{\"twitter\":{\"thread\":[\"t\"],\"hashtags\":[]},\"linkedin\":{\"post\":\"p\",\"hashtags\":[]},\"instagram\":{\"caption\":\"c\",\"hashtags\":[]}}\n```"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody(t, payload))
	}))
	defer srv.Close()

	social, err := newClient(srv.URL).GenerateSocial(context.Background(), "espresso", nil)
	if err != nil {
		t.Fatalf("GenerateSocial failed: %v", err)
	}
	if social.Instagram.Caption != "c" {
		t.Fatalf("fenced payload not decoded: %+v", social)
	}
}

func TestGenerateSocialAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).GenerateSocial(context.Background(), "espresso", nil)
	if !errors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestGenerateSocialUnparseablePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody(t, "Sure! Here are some ideas for posts."))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).GenerateSocial(context.Background(), "espresso", nil)
	if !errors.Is(err, services.ErrMalformedResponse) {
		t.Fatalf("expected malformed, got %v", err)
	}
}
