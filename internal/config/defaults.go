package config

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   "~/.local/share/scribe",
			LogDir:    "~/.local/share/scribe/logs",
			ExportDir: "~/.local/share/scribe/export",
			AudioDir:  "~/.local/share/scribe/audio",
		},
		Research: Research{
			BaseURL:        "https://api.perplexity.ai/chat/completions",
			Model:          "sonar-pro",
			TimeoutSeconds: 120,
		},
		Anthropic: Anthropic{
			BaseURL:        "https://api.anthropic.com/v1/messages",
			Model:          "claude-sonnet-4-20250514",
			TimeoutSeconds: 120,
		},
		OpenAI: OpenAI{
			Model: "gpt-4o-mini",
		},
		TTS: TTS{
			Gemini: GeminiTTS{
				BaseURL:        "https://generativelanguage.googleapis.com/v1beta",
				Model:          "gemini-2.5-flash-preview-tts",
				Voice:          "Kore",
				TimeoutSeconds: 60,
			},
			Google: GoogleTTS{
				BaseURL:        "https://texttospeech.googleapis.com/v1/text:synthesize",
				Voice:          "en-US-Neural2-D",
				TimeoutSeconds: 60,
			},
			Backend: BackendTTS{
				URL:            "http://localhost:3001/api/tts",
				TimeoutSeconds: 60,
			},
			ElevenLabs: ElevenLabs{
				BaseURL:        "https://api.elevenlabs.io/v1",
				VoiceID:        "21m00Tcm4TlvDq8ikWAM",
				TimeoutSeconds: 60,
			},
		},
		Images: Images{
			TimeoutSeconds: 120,
		},
		Pipeline: Pipeline{
			SoftTimeoutSeconds: 15,
			RetryAttempts:      3,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
