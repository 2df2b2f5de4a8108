package perplexity

import (
	"context"
	"encoding/json"
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
const ProviderName = "perplexity"

// Client generates research, blog, and podcast text through the Perplexity
// chat completions API.
type Client struct {
	cfg  config.Research
	http *httpapi.Client
}

// New constructs a Perplexity client.
func New(cfg config.Research, opts ...httpapi.Option) *Client {
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

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, operation, systemPrompt, userPrompt string) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", services.Wrap(services.ErrUnauthenticated, ProviderName, operation, "api key required", nil)
	}

	var parsed chatResponse
	err := c.http.DoJSON(ctx, httpapi.Request{
		Provider:  ProviderName,
		Operation: operation,
		URL:       c.cfg.BaseURL,
		Headers: map[string]string{
			"Authorization": "Bearer " + c.cfg.APIKey,
		},
		Body: chatRequest{
			Model: c.cfg.Model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: userPrompt},
			},
		},
	}, &parsed)
	if err != nil {
		return "", err
	}

	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", services.Wrap(services.ErrMalformedResponse, ProviderName, operation, "empty completion", nil)
	}
	return parsed.Choices[0].Message.Content, nil
}

// GenerateResearch produces the research artifact for a keyword. When
// websiteText is non-empty it grounds the findings in that site's content.
func (c *Client) GenerateResearch(ctx context.Context, keyword, websiteText string) (*artifact.Research, error) {
	const op = "research"
	userPrompt := fmt.Sprintf("Research the topic %q for a content marketing campaign.", keyword)
	if trimmed := strings.TrimSpace(websiteText); trimmed != "" {
		userPrompt += "\n\nGround the findings in this website content:\n" + trimmed
	}

	content, err := c.complete(ctx, op, researchSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var research artifact.Research
	if httpapi.DecodeJSON(content, &research) != nil {
		research = *repairResearch(content)
	}
	research.EnsureDefaults(keyword)
	return &research, nil
}

// GenerateBlog produces the blog artifact from the research findings.
func (c *Client) GenerateBlog(ctx context.Context, keyword string, research *artifact.Research) (*artifact.Blog, error) {
	const op = "blog"
	userPrompt := fmt.Sprintf("Write a long-form blog post targeting the keyword %q.", keyword)
	if research != nil {
		findings, err := json.Marshal(research)
		if err == nil {
			userPrompt += "\n\nBase the post on these research findings:\n" + string(findings)
		}
	}

	content, err := c.complete(ctx, op, blogSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var blog artifact.Blog
	if httpapi.DecodeJSON(content, &blog) != nil {
		blog = *repairBlog(content)
	}
	blog.EnsureDefaults(keyword)
	return &blog, nil
}

// GeneratePodcast produces the podcast script artifact from the blog post.
// It serves as the fallback behind the Anthropic script provider.
func (c *Client) GeneratePodcast(ctx context.Context, keyword string, blog *artifact.Blog) (*artifact.Podcast, error) {
	const op = "podcast"
	userPrompt := fmt.Sprintf("Write a podcast episode script about %q.", keyword)
	if blog != nil && strings.TrimSpace(blog.Content) != "" {
		userPrompt += "\n\nAdapt this blog post:\n" + blog.Content
	}

	content, err := c.complete(ctx, op, podcastSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var podcast artifact.Podcast
	if httpapi.DecodeJSON(content, &podcast) != nil {
		podcast = *repairPodcast(content)
	}
	podcast.EnsureDefaults(keyword)
	return &podcast, nil
}

// repairResearch salvages research fields from near-JSON text. Fields it
// cannot recover stay zero for EnsureDefaults to fill.
func repairResearch(content string) *artifact.Research {
	var research artifact.Research
	if value, ok := httpapi.ExtractField(content, "definition"); ok {
		research.Definition = value
	}
	if value, ok := httpapi.ExtractField(content, "overview"); ok {
		research.Overview = value
	}
	if values, ok := httpapi.ExtractStringArray(content, "currentTrends"); ok {
		research.CurrentTrends = values
	}
	if values, ok := httpapi.ExtractStringArray(content, "relatedTopics"); ok {
		research.RelatedTopics = values
	}
	if values, ok := httpapi.ExtractStringArray(content, "applications"); ok {
		research.Applications = values
	}
	if value, ok := httpapi.ExtractField(content, "futureOutlook"); ok {
		research.FutureOutlook = value
	}
	return &research
}

// repairBlog salvages blog fields from near-JSON text. Fields it cannot
// recover stay zero for EnsureDefaults to fill, so a wholly unextractable
// payload still yields a usable artifact.
func repairBlog(content string) *artifact.Blog {
	var blog artifact.Blog
	if value, ok := httpapi.ExtractField(content, "content"); ok {
		blog.Content = value
	}
	if value, ok := httpapi.ExtractField(content, "title"); ok {
		blog.Title = value
	}
	if value, ok := httpapi.ExtractField(content, "metaDescription"); ok {
		blog.MetaDescription = value
	}
	if value, ok := httpapi.ExtractNumber(content, "wordCount"); ok {
		blog.WordCount = int(value)
	}
	if value, ok := httpapi.ExtractNumber(content, "readingTime"); ok {
		blog.ReadingTime = int(value)
	}
	if values, ok := httpapi.ExtractStringArray(content, "targetKeywords"); ok {
		blog.TargetKeywords = values
	}
	return &blog
}

// repairPodcast salvages podcast fields from near-JSON text. Fields it
// cannot recover stay zero for EnsureDefaults to fill.
func repairPodcast(content string) *artifact.Podcast {
	var podcast artifact.Podcast
	if value, ok := httpapi.ExtractField(content, "script"); ok {
		podcast.Script = value
	}
	if value, ok := httpapi.ExtractField(content, "title"); ok {
		podcast.Title = value
	}
	if value, ok := httpapi.ExtractNumber(content, "duration"); ok {
		podcast.Duration = int(value)
	}
	if values, ok := httpapi.ExtractStringArray(content, "outline"); ok {
		podcast.Outline = values
	}
	return &podcast
}
