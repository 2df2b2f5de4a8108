package tts

import (
	"context"
	"strings"
	"time"

	"scribe/internal/artifact"
	"scribe/internal/config"
	"scribe/internal/services"
	"scribe/internal/services/httpapi"
)

// Backend synthesizes speech through a self-hosted proxy that returns a
// hosted audio URL instead of raw bytes. It is the third provider in the
// speech chain.
type Backend struct {
	cfg  config.BackendTTS
	http *httpapi.Client
}

// NewBackend constructs the backend proxy speech provider.
func NewBackend(cfg config.BackendTTS, opts ...httpapi.Option) *Backend {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	base := []httpapi.Option{}
	if timeout > 0 {
		base = append(base, httpapi.WithTimeout(timeout))
	}
	return &Backend{
		cfg:  cfg,
		http: httpapi.NewClient(append(base, opts...)...),
	}
}

// Name returns the provider identifier.
func (b *Backend) Name() string { return "backend" }

type backendRequest struct {
	Text string `json:"text"`
}

type backendResponse struct {
	AudioURL string `json:"audioUrl"`
	Duration int    `json:"duration"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
}

// Synthesize posts the script to the proxy and returns the hosted audio URL.
func (b *Backend) Synthesize(ctx context.Context, itemID string, podcast *artifact.Podcast) (*artifact.Audio, error) {
	const op = "synthesize"
	if podcast == nil || strings.TrimSpace(podcast.Script) == "" {
		return nil, services.Wrap(services.ErrMalformedResponse, b.Name(), op, "script required", nil)
	}

	var parsed backendResponse
	err := b.http.DoJSON(ctx, httpapi.Request{
		Provider:  b.Name(),
		Operation: op,
		URL:       b.cfg.URL,
		Body:      backendRequest{Text: podcast.Script},
	}, &parsed)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(parsed.AudioURL) == "" {
		return nil, services.Wrap(services.ErrMalformedResponse, b.Name(), op, "no audio url in response", nil)
	}

	audio := newAudioArtifact(parsed.AudioURL, parsed.Format, parsed.Size, podcast)
	if parsed.Duration > 0 {
		audio.Duration = parsed.Duration
	}
	if audio.Format == "" {
		audio.Format = "mp3"
	}
	return audio, nil
}
