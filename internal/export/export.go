// Package export renders generated artifacts into shareable files.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"scribe/internal/artifact"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// RenderHTML converts the blog artifact's markdown body into a standalone
// HTML document.
func RenderHTML(blog *artifact.Blog) (string, error) {
	if blog == nil || strings.TrimSpace(blog.Content) == "" {
		return "", fmt.Errorf("blog content is empty")
	}

	var body bytes.Buffer
	if err := markdown.Convert([]byte(blog.Content), &body); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	doc.WriteString("<title>" + htmlEscape(blog.Title) + "</title>\n")
	if strings.TrimSpace(blog.MetaDescription) != "" {
		doc.WriteString("<meta name=\"description\" content=\"" + htmlEscape(blog.MetaDescription) + "\">\n")
	}
	doc.WriteString("</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.String(), nil
}

// WriteBlog writes both the markdown source and the rendered HTML into the
// export directory and returns the written paths.
func WriteBlog(dir, itemID string, blog *artifact.Blog) (mdPath, htmlPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create export dir: %w", err)
	}

	rendered, err := RenderHTML(blog)
	if err != nil {
		return "", "", err
	}

	mdPath = filepath.Join(dir, itemID+".md")
	htmlPath = filepath.Join(dir, itemID+".html")
	if err := os.WriteFile(mdPath, []byte(blog.Content), 0o644); err != nil {
		return "", "", fmt.Errorf("write markdown: %w", err)
	}
	if err := os.WriteFile(htmlPath, []byte(rendered), 0o644); err != nil {
		return "", "", fmt.Errorf("write html: %w", err)
	}
	return mdPath, htmlPath, nil
}

func htmlEscape(value string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(value)
}
