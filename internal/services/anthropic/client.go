package anthropic

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

// ProviderName identifies this adapter in classified errors and fallback
// chain reports.
const ProviderName = "anthropic"

const systemPrompt = `You are a podcast script writer. Respond with a single JSON object and nothing else. The object must have these keys: title (string), script (markdown string with speaker cues for a single host), duration (estimated minutes as a number), outline (array of section titles).`

// Client generates podcast scripts through the Anthropic messages API.
type Client struct {
	cfg  config.Anthropic
	http *httpapi.Client
}

// New constructs an Anthropic client.
func New(cfg config.Anthropic, opts ...httpapi.Option) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	base := []httpapi.Option{}
	if timeout > 0 {
		base = append(base, httpapi.WithTimeout(timeout))
	}
	return &Client{
		cfg:  cfg,
		http: httpapi.NewClient(append(base, opts...)...),
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string { return ProviderName }

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// GeneratePodcast produces the podcast script artifact from the blog post.
func (c *Client) GeneratePodcast(ctx context.Context, keyword string, blog *artifact.Blog) (*artifact.Podcast, error) {
	const op = "podcast"
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrUnauthenticated, ProviderName, op, "api key required", nil)
	}

	userPrompt := fmt.Sprintf("Write a podcast episode script about %q.", keyword)
	if blog != nil && strings.TrimSpace(blog.Content) != "" {
		userPrompt += "\n\nAdapt this blog post:\n" + blog.Content
	}

	var parsed messagesResponse
	err := c.http.DoJSON(ctx, httpapi.Request{
		Provider:  ProviderName,
		Operation: op,
		URL:       c.cfg.BaseURL,
		Headers: map[string]string{
			"x-api-key":         c.cfg.APIKey,
			"anthropic-version": "2023-06-01",
		},
		Body: messagesRequest{
			Model:     c.cfg.Model,
			MaxTokens: 8192,
			System:    systemPrompt,
			Messages: []message{
				{Role: "user", Content: userPrompt},
			},
		},
	}, &parsed)
	if err != nil {
		return nil, err
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, services.Wrap(services.ErrMalformedResponse, ProviderName, op, "empty completion", nil)
	}

	// Malformed payloads never fail the stage: salvage what the text holds
	// and let EnsureDefaults synthesize the rest.
	var podcast artifact.Podcast
	if httpapi.DecodeJSON(text, &podcast) != nil {
		if value, ok := httpapi.ExtractField(text, "script"); ok {
			podcast.Script = value
		}
		if value, ok := httpapi.ExtractField(text, "title"); ok {
			podcast.Title = value
		}
		if value, ok := httpapi.ExtractNumber(text, "duration"); ok {
			podcast.Duration = int(value)
		}
		if values, ok := httpapi.ExtractStringArray(text, "outline"); ok {
			podcast.Outline = values
		}
	}
	podcast.EnsureDefaults(keyword)
	return &podcast, nil
}
