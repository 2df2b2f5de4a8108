package imagegen

import (
	"context"
	"strings"
	"time"

	"scribe/internal/artifact"
	"scribe/internal/config"
	"scribe/internal/services"
	"scribe/internal/services/httpapi"
)

// ProviderName identifies this adapter in classified errors.
const ProviderName = "imagegen"

// Client generates stage imagery by posting to an automation webhook that
// responds with hosted image URLs.
type Client struct {
	cfg  config.Images
	http *httpapi.Client
}

// New constructs the image webhook client.
func New(cfg config.Images, opts ...httpapi.Option) *Client {
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

type webhookRequest struct {
	Keyword string `json:"keyword"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// GenerateImages requests thumbnail, featured, and social renditions for
// the blog post.
func (c *Client) GenerateImages(ctx context.Context, keyword string, blog *artifact.Blog) (*artifact.Images, error) {
	const op = "images"
	if strings.TrimSpace(c.cfg.WebhookURL) == "" {
		return nil, services.Wrap(services.ErrUnauthenticated, ProviderName, op, "webhook url required", nil)
	}

	req := webhookRequest{Keyword: keyword}
	if blog != nil {
		req.Title = blog.Title
		req.Summary = blog.MetaDescription
	}

	var images artifact.Images
	err := c.http.DoJSON(ctx, httpapi.Request{
		Provider:  ProviderName,
		Operation: op,
		URL:       c.cfg.WebhookURL,
		Body:      req,
	}, &images)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(images.ThumbnailURL) == "" && strings.TrimSpace(images.FeaturedImageURL) == "" && len(images.SocialMediaImages) == 0 {
		return nil, services.Wrap(services.ErrMalformedResponse, ProviderName, op, "no image urls in response", nil)
	}
	return &images, nil
}
