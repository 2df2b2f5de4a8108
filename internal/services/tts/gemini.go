package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"scribe/internal/artifact"
	"scribe/internal/config"
	"scribe/internal/services"
	"scribe/internal/services/httpapi"
)

// Gemini output is 24kHz 16-bit mono PCM.
const geminiSampleRate = 24000

// Gemini synthesizes speech through the Gemini generateContent API. It is
// the first provider in the speech chain.
type Gemini struct {
	cfg      config.GeminiTTS
	audioDir string
	http     *httpapi.Client
}

// NewGemini constructs the Gemini speech provider.
func NewGemini(cfg config.GeminiTTS, audioDir string, opts ...httpapi.Option) *Gemini {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	base := []httpapi.Option{}
	if timeout > 0 {
		base = append(base, httpapi.WithTimeout(timeout))
	}
	return &Gemini{
		cfg:      cfg,
		audioDir: audioDir,
		http:     httpapi.NewClient(append(base, opts...)...),
	}
}

// Name returns the provider identifier.
func (g *Gemini) Name() string { return "gemini" }

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	ResponseModalities []string         `json:"responseModalities"`
	SpeechConfig       geminiSpeechConf `json:"speechConfig"`
}

type geminiSpeechConf struct {
	VoiceConfig geminiVoiceConfig `json:"voiceConfig"`
}

type geminiVoiceConfig struct {
	PrebuiltVoiceConfig geminiPrebuiltVoice `json:"prebuiltVoiceConfig"`
}

type geminiPrebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Synthesize renders the podcast script to a WAV file in the audio directory.
func (g *Gemini) Synthesize(ctx context.Context, itemID string, podcast *artifact.Podcast) (*artifact.Audio, error) {
	const op = "synthesize"
	if strings.TrimSpace(g.cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrUnauthenticated, g.Name(), op, "api key required", nil)
	}
	if podcast == nil || strings.TrimSpace(podcast.Script) == "" {
		return nil, services.Wrap(services.ErrMalformedResponse, g.Name(), op, "script required", nil)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(g.cfg.BaseURL, "/"), g.cfg.Model, g.cfg.APIKey)

	var parsed geminiResponse
	err := g.http.DoJSON(ctx, httpapi.Request{
		Provider:  g.Name(),
		Operation: op,
		URL:       url,
		Body: geminiRequest{
			Contents: []geminiContent{
				{Parts: []geminiPart{{Text: podcast.Script}}},
			},
			GenerationConfig: geminiGenConfig{
				ResponseModalities: []string{"AUDIO"},
				SpeechConfig: geminiSpeechConf{
					VoiceConfig: geminiVoiceConfig{
						PrebuiltVoiceConfig: geminiPrebuiltVoice{VoiceName: g.cfg.Voice},
					},
				},
			},
		},
	}, &parsed)
	if err != nil {
		return nil, err
	}

	var encoded string
	for _, candidate := range parsed.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData.Data != "" {
				encoded = part.InlineData.Data
				break
			}
		}
	}
	if encoded == "" {
		return nil, services.Wrap(services.ErrMalformedResponse, g.Name(), op, "no audio data in response", nil)
	}

	pcm, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedResponse, g.Name(), op, "decode audio data", err)
	}

	wav := pcmToWAV(pcm, geminiSampleRate, 1)
	path, err := writeAudioFile(g.audioDir, itemID, g.Name(), "wav", wav)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, g.Name(), op, "persist audio", err)
	}
	return newAudioArtifact(path, "wav", int64(len(wav)), podcast), nil
}
