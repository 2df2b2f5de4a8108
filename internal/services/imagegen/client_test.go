package imagegen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"scribe/internal/artifact"
	"scribe/internal/config"
	"scribe/internal/services"
)

func TestGenerateImagesParsesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req webhookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Keyword != "espresso" || req.Title != "Espresso Guide" {
			t.Errorf("unexpected request %+v", req)
		}
		body, _ := json.Marshal(map[string]any{
			"thumbnailUrl":     "https://cdn.example.com/t.png",
			"featuredImageUrl": "https://cdn.example.com/f.png",
			"socialMediaImages": []map[string]string{
				{"platform": "twitter", "imageUrl": "https://cdn.example.com/tw.png", "dimensions": "1200x675"},
			},
		})
		w.Write(body)
	}))
	defer srv.Close()

	client := New(config.Images{WebhookURL: srv.URL})
	images, err := client.GenerateImages(context.Background(), "espresso", &artifact.Blog{Title: "Espresso Guide"})
	if err != nil {
		t.Fatalf("GenerateImages failed: %v", err)
	}
	if images.ThumbnailURL != "https://cdn.example.com/t.png" {
		t.Fatalf("unexpected thumbnail %q", images.ThumbnailURL)
	}
	if len(images.SocialMediaImages) != 1 || images.SocialMediaImages[0].Platform != "twitter" {
		t.Fatalf("unexpected social images %v", images.SocialMediaImages)
	}
}

func TestGenerateImagesEmptyResponseIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(config.Images{WebhookURL: srv.URL})
	_, err := client.GenerateImages(context.Background(), "espresso", nil)
	if !errors.Is(err, services.ErrMalformedResponse) {
		t.Fatalf("expected malformed, got %v", err)
	}
}

func TestGenerateImagesMissingWebhook(t *testing.T) {
	client := New(config.Images{})
	_, err := client.GenerateImages(context.Background(), "espresso", nil)
	if !errors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}
