package config

import (
	"errors"
	"fmt"
	"strings"
)

// normalize expands all configured paths and trims string settings in place.
func (c *Config) normalize() error {
	paths := []struct {
		name  string
		value *string
	}{
		{"data_dir", &c.Paths.DataDir},
		{"log_dir", &c.Paths.LogDir},
		{"export_dir", &c.Paths.ExportDir},
		{"audio_dir", &c.Paths.AudioDir},
	}
	for _, p := range paths {
		if strings.TrimSpace(*p.value) == "" {
			continue
		}
		expanded, err := expandPath(*p.value)
		if err != nil {
			return fmt.Errorf("normalize %s: %w", p.name, err)
		}
		*p.value = expanded
	}

	c.Research.BaseURL = strings.TrimSpace(c.Research.BaseURL)
	c.Anthropic.BaseURL = strings.TrimSpace(c.Anthropic.BaseURL)
	c.TTS.Gemini.BaseURL = strings.TrimSpace(c.TTS.Gemini.BaseURL)
	c.TTS.Google.BaseURL = strings.TrimSpace(c.TTS.Google.BaseURL)
	c.TTS.Backend.URL = strings.TrimSpace(c.TTS.Backend.URL)
	c.TTS.ElevenLabs.BaseURL = strings.TrimSpace(c.TTS.ElevenLabs.BaseURL)
	c.Images.WebhookURL = strings.TrimSpace(c.Images.WebhookURL)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// Validate checks settings that would make the process unable to start.
// Missing API keys are not validated here: which providers are required
// depends on the stage being generated, and the adapters report credential
// problems with a classified error at call time.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir is required")
	}
	if c.Research.TimeoutSeconds < 0 {
		problems = append(problems, "research.timeout_seconds must not be negative")
	}
	if c.Pipeline.SoftTimeoutSeconds < 0 {
		problems = append(problems, "pipeline.soft_timeout_seconds must not be negative")
	}
	if c.Pipeline.RetryAttempts < 1 {
		problems = append(problems, "pipeline.retry_attempts must be at least 1")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not supported (console, json)", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
