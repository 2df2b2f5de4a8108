package openaiadapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"scribe/internal/artifact"
	"scribe/internal/config"
	"scribe/internal/services"
	"scribe/internal/services/httpapi"
)

// ProviderName identifies this adapter in classified errors and fallback
// chain reports.
const ProviderName = "openai"

const systemPrompt = `You are a social media manager. Respond with a single JSON object and nothing else. The object must have keys twitter, linkedin, and instagram. twitter has thread (array of tweet strings) and hashtags (array). linkedin has post (string) and hashtags (array). instagram has caption (string) and hashtags (array).`

// Client generates social media captions through the official OpenAI SDK.
type Client struct {
	model string
	opts  []option.RequestOption
}

// New constructs an OpenAI client.
func New(cfg config.OpenAI) *Client {
	opts := []option.RequestOption{option.WithMaxRetries(2)}
	if strings.TrimSpace(cfg.APIKey) != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{model: cfg.Model, opts: opts}
}

// Name returns the provider identifier.
func (c *Client) Name() string { return ProviderName }

// GenerateSocial produces platform captions from the blog post.
func (c *Client) GenerateSocial(ctx context.Context, keyword string, blog *artifact.Blog) (*artifact.Social, error) {
	const op = "social"

	userPrompt := fmt.Sprintf("Write social media posts promoting an article about %q.", keyword)
	if blog != nil {
		if strings.TrimSpace(blog.Title) != "" {
			userPrompt += "\nArticle title: " + blog.Title
		}
		if strings.TrimSpace(blog.MetaDescription) != "" {
			userPrompt += "\nArticle summary: " + blog.MetaDescription
		}
	}

	client := openai.NewClient(c.opts...)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, classify(op, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, services.Wrap(services.ErrMalformedResponse, ProviderName, op, "empty completion", nil)
	}

	var social artifact.Social
	if decodeErr := httpapi.DecodeJSON(resp.Choices[0].Message.Content, &social); decodeErr != nil {
		return nil, services.Wrap(services.ErrMalformedResponse, ProviderName, op, "parse payload", decodeErr)
	}
	return &social, nil
}

func classify(op string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		marker := services.ClassifyStatus(apiErr.StatusCode)
		return services.Wrap(marker, ProviderName, op, "api error", err)
	}
	return services.Wrap(services.ClassifyNetErr(err), ProviderName, op, "request failed", err)
}
