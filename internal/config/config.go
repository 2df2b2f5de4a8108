package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
	ExportDir string `toml:"export_dir"`
	AudioDir  string `toml:"audio_dir"`
}

// Research contains configuration for the Perplexity research/text provider.
type Research struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Anthropic contains configuration for the Anthropic messages provider.
type Anthropic struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// OpenAI contains configuration for social caption generation through the
// official SDK.
type OpenAI struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// GeminiTTS contains configuration for the primary speech provider.
type GeminiTTS struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Voice          string `toml:"voice"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// GoogleTTS contains configuration for the Cloud Text-to-Speech fallback.
type GoogleTTS struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Voice          string `toml:"voice"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// BackendTTS contains configuration for the self-hosted synthesis proxy.
type BackendTTS struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ElevenLabs contains configuration for the last-resort speech provider.
type ElevenLabs struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	VoiceID        string `toml:"voice_id"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// TTS groups the speech synthesis provider chain, in priority order.
type TTS struct {
	Gemini     GeminiTTS  `toml:"gemini"`
	Google     GoogleTTS  `toml:"google"`
	Backend    BackendTTS `toml:"backend"`
	ElevenLabs ElevenLabs `toml:"elevenlabs"`
}

// Images contains configuration for the image generation webhook.
type Images struct {
	WebhookURL     string `toml:"webhook_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Pipeline contains orchestrator timing settings.
type Pipeline struct {
	// SoftTimeoutSeconds is how long a generation call may run before a
	// "taking longer than expected" warning is logged. It never cancels
	// the in-flight request.
	SoftTimeoutSeconds int `toml:"soft_timeout_seconds"`
	RetryAttempts      int `toml:"retry_attempts"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for scribe.
//
// Configuration sections by subsystem:
//   - Paths: data, log, export, and audio directories
//   - Research: Perplexity connection for research/blog/fallback text
//   - Anthropic: primary podcast script provider
//   - OpenAI: social caption generation
//   - TTS: the four-provider speech synthesis chain
//   - Images: image generation webhook endpoint
//   - Pipeline: soft timeout and adapter retry bound
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Research  Research  `toml:"research"`
	Anthropic Anthropic `toml:"anthropic"`
	OpenAI    OpenAI    `toml:"openai"`
	TTS       TTS       `toml:"tts"`
	Images    Images    `toml:"images"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scribe/config.toml")
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and credentials resolved from the
// environment (including a project-local .env file) when the file leaves
// them blank.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	cfg.applyEnvironment()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// applyEnvironment fills blank credentials from the process environment,
// loading a project-local .env first when one exists.
func (c *Config) applyEnvironment() {
	_ = godotenv.Load()

	fill := func(target *string, keys ...string) {
		if strings.TrimSpace(*target) != "" {
			return
		}
		for _, key := range keys {
			if value := strings.TrimSpace(os.Getenv(key)); value != "" {
				*target = value
				return
			}
		}
	}

	fill(&c.Research.APIKey, "SCRIBE_PERPLEXITY_API_KEY", "PERPLEXITY_API_KEY")
	fill(&c.Anthropic.APIKey, "SCRIBE_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	fill(&c.OpenAI.APIKey, "SCRIBE_OPENAI_API_KEY", "OPENAI_API_KEY")
	fill(&c.TTS.Gemini.APIKey, "SCRIBE_GEMINI_API_KEY", "GEMINI_API_KEY")
	fill(&c.TTS.Google.APIKey, "SCRIBE_GOOGLE_TTS_API_KEY", "GOOGLE_TTS_API_KEY")
	fill(&c.TTS.ElevenLabs.APIKey, "SCRIBE_ELEVENLABS_API_KEY", "ELEVENLABS_API_KEY")
}

// EnsureDirectories creates the configured directories when missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.ExportDir, c.Paths.AudioDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
