package tts

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"scribe/internal/artifact"
	"scribe/internal/config"
	"scribe/internal/services"
	"scribe/internal/services/httpapi"
)

// Google synthesizes speech through the Cloud Text-to-Speech API. It is the
// second provider in the speech chain.
type Google struct {
	cfg      config.GoogleTTS
	audioDir string
	http     *httpapi.Client
}

// NewGoogle constructs the Cloud Text-to-Speech provider.
func NewGoogle(cfg config.GoogleTTS, audioDir string, opts ...httpapi.Option) *Google {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	base := []httpapi.Option{}
	if timeout > 0 {
		base = append(base, httpapi.WithTimeout(timeout))
	}
	return &Google{
		cfg:      cfg,
		audioDir: audioDir,
		http:     httpapi.NewClient(append(base, opts...)...),
	}
}

// Name returns the provider identifier.
func (g *Google) Name() string { return "googletts" }

type googleRequest struct {
	Input       googleInput       `json:"input"`
	Voice       googleVoice       `json:"voice"`
	AudioConfig googleAudioConfig `json:"audioConfig"`
}

type googleInput struct {
	Text string `json:"text"`
}

type googleVoice struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
}

type googleAudioConfig struct {
	AudioEncoding string `json:"audioEncoding"`
}

type googleResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize renders the podcast script to an MP3 file in the audio directory.
func (g *Google) Synthesize(ctx context.Context, itemID string, podcast *artifact.Podcast) (*artifact.Audio, error) {
	const op = "synthesize"
	if strings.TrimSpace(g.cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrUnauthenticated, g.Name(), op, "api key required", nil)
	}
	if podcast == nil || strings.TrimSpace(podcast.Script) == "" {
		return nil, services.Wrap(services.ErrMalformedResponse, g.Name(), op, "script required", nil)
	}

	languageCode := "en-US"
	if parts := strings.SplitN(g.cfg.Voice, "-", 3); len(parts) >= 2 {
		languageCode = parts[0] + "-" + parts[1]
	}

	var parsed googleResponse
	err := g.http.DoJSON(ctx, httpapi.Request{
		Provider:  g.Name(),
		Operation: op,
		URL:       g.cfg.BaseURL + "?key=" + g.cfg.APIKey,
		Body: googleRequest{
			Input:       googleInput{Text: podcast.Script},
			Voice:       googleVoice{LanguageCode: languageCode, Name: g.cfg.Voice},
			AudioConfig: googleAudioConfig{AudioEncoding: "MP3"},
		},
	}, &parsed)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(parsed.AudioContent) == "" {
		return nil, services.Wrap(services.ErrMalformedResponse, g.Name(), op, "no audio data in response", nil)
	}
	data, err := base64.StdEncoding.DecodeString(parsed.AudioContent)
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedResponse, g.Name(), op, "decode audio data", err)
	}

	path, err := writeAudioFile(g.audioDir, itemID, g.Name(), "mp3", data)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, g.Name(), op, "persist audio", err)
	}
	return newAudioArtifact(path, "mp3", int64(len(data)), podcast), nil
}
