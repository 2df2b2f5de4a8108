package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"scribe/internal/artifact"
	"scribe/internal/autosave"
	"scribe/internal/config"
	"scribe/internal/content"
	"scribe/internal/fallback"
	"scribe/internal/logging"
	"scribe/internal/pipeline"
	"scribe/internal/services/anthropic"
	"scribe/internal/services/httpapi"
	"scribe/internal/services/imagegen"
	"scribe/internal/services/openaiadapter"
	"scribe/internal/services/perplexity"
	"scribe/internal/services/tts"
	"scribe/internal/webfetch"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) openStore() (*config.Config, *content.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := content.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.NewFromConfig(cfg)
}

// buildGenerator wires the provider adapters and fallback chains into a
// pipeline generator. Podcast scripts try Anthropic first and fall back to
// Perplexity; speech walks gemini, googletts, backend, then elevenlabs.
func buildGenerator(cfg *config.Config, store *content.Store, logger *slog.Logger) *pipeline.Generator {
	retry := httpapi.WithRetryMaxAttempts(cfg.Pipeline.RetryAttempts)
	research := perplexity.New(cfg.Research, retry)
	anthropicClient := anthropic.New(cfg.Anthropic, retry)

	script := fallback.NewChain("podcast_script", logger,
		fallback.Provider[pipeline.ScriptInput, *artifact.Podcast]{
			Name: anthropicClient.Name(),
			Invoke: func(ctx context.Context, input pipeline.ScriptInput) (*artifact.Podcast, error) {
				return anthropicClient.GeneratePodcast(ctx, input.Keyword, input.Blog)
			},
		},
		fallback.Provider[pipeline.ScriptInput, *artifact.Podcast]{
			Name: research.Name(),
			Invoke: func(ctx context.Context, input pipeline.ScriptInput) (*artifact.Podcast, error) {
				return research.GeneratePodcast(ctx, input.Keyword, input.Blog)
			},
		},
	)

	gemini := tts.NewGemini(cfg.TTS.Gemini, cfg.Paths.AudioDir, retry)
	google := tts.NewGoogle(cfg.TTS.Google, cfg.Paths.AudioDir, retry)
	backend := tts.NewBackend(cfg.TTS.Backend, retry)
	eleven := tts.NewElevenLabs(cfg.TTS.ElevenLabs, cfg.Paths.AudioDir, retry)

	speech := fallback.NewChain("audio", logger,
		speechProvider(gemini.Name(), gemini.Synthesize),
		speechProvider(google.Name(), google.Synthesize),
		speechProvider(backend.Name(), backend.Synthesize),
		speechProvider(eleven.Name(), eleven.Synthesize),
	)

	saves := autosave.New(store, logger)
	return pipeline.NewGenerator(store, saves, pipeline.Options{
		Research:    research,
		Blog:        research,
		Script:      script,
		Speech:      speech,
		Images:      imagegen.New(cfg.Images, retry),
		Social:      openaiadapter.New(cfg.OpenAI),
		Website:     webfetch.New(nil),
		SoftTimeout: time.Duration(cfg.Pipeline.SoftTimeoutSeconds) * time.Second,
		Logger:      logger,
	})
}

func speechProvider(name string, synthesize func(context.Context, string, *artifact.Podcast) (*artifact.Audio, error)) fallback.Provider[pipeline.SpeechInput, *artifact.Audio] {
	return fallback.Provider[pipeline.SpeechInput, *artifact.Audio]{
		Name: name,
		Invoke: func(ctx context.Context, input pipeline.SpeechInput) (*artifact.Audio, error) {
			return synthesize(ctx, input.ItemID, input.Podcast)
		},
	}
}

// withLock serializes generation runs against the same data directory.
func withLock(cfg *config.Config, fn func() error) error {
	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "scribe.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another scribe generation is already running against this data directory")
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}
