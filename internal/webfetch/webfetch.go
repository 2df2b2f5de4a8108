// Package webfetch extracts readable text from a website so research can be
// grounded in the user's own content.
package webfetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const (
	defaultTimeout = 30 * time.Second
	// maxTextRunes bounds how much site text is fed into a research prompt.
	maxTextRunes = 8000
)

// Fetcher downloads a page and reduces it to article text.
type Fetcher struct {
	httpClient *http.Client
}

// New constructs a fetcher. A nil client gets a sensible default.
func New(httpClient *http.Client) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Fetcher{httpClient: httpClient}
}

// ReadableText fetches rawURL and returns its main article text, truncated
// to a prompt-sized budget.
func (f *Fetcher) ReadableText(ctx context.Context, rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: http %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no readable text at %s", parsed.String())
	}
	runes := []rune(text)
	if len(runes) > maxTextRunes {
		text = string(runes[:maxTextRunes])
	}
	return text, nil
}
