package tts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"scribe/internal/artifact"
	"scribe/internal/config"
	"scribe/internal/services"
	"scribe/internal/services/httpapi"
)

// ElevenLabs synthesizes speech through the ElevenLabs API. It is the last
// provider in the speech chain.
type ElevenLabs struct {
	cfg      config.ElevenLabs
	audioDir string
	http     *httpapi.Client
}

// NewElevenLabs constructs the ElevenLabs speech provider.
func NewElevenLabs(cfg config.ElevenLabs, audioDir string, opts ...httpapi.Option) *ElevenLabs {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	base := []httpapi.Option{}
	if timeout > 0 {
		base = append(base, httpapi.WithTimeout(timeout))
	}
	return &ElevenLabs{
		cfg:      cfg,
		audioDir: audioDir,
		http:     httpapi.NewClient(append(base, opts...)...),
	}
}

// Name returns the provider identifier.
func (e *ElevenLabs) Name() string { return "elevenlabs" }

type elevenLabsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize renders the podcast script to an MP3 file in the audio
// directory. The API responds with raw audio bytes rather than JSON.
func (e *ElevenLabs) Synthesize(ctx context.Context, itemID string, podcast *artifact.Podcast) (*artifact.Audio, error) {
	const op = "synthesize"
	if strings.TrimSpace(e.cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrUnauthenticated, e.Name(), op, "api key required", nil)
	}
	if podcast == nil || strings.TrimSpace(podcast.Script) == "" {
		return nil, services.Wrap(services.ErrMalformedResponse, e.Name(), op, "script required", nil)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", strings.TrimRight(e.cfg.BaseURL, "/"), e.cfg.VoiceID)
	data, err := e.http.Do(ctx, httpapi.Request{
		Provider:  e.Name(),
		Operation: op,
		URL:       url,
		Headers: map[string]string{
			"xi-api-key": e.cfg.APIKey,
			"Accept":     "audio/mpeg",
		},
		Body: elevenLabsRequest{
			Text:    podcast.Script,
			ModelID: "eleven_multilingual_v2",
		},
	})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, services.Wrap(services.ErrMalformedResponse, e.Name(), op, "empty audio response", nil)
	}

	path, err := writeAudioFile(e.audioDir, itemID, e.Name(), "mp3", data)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, e.Name(), op, "persist audio", err)
	}
	return newAudioArtifact(path, "mp3", int64(len(data)), podcast), nil
}
