package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"scribe/internal/services"
)

func TestPrettyHandlerFormatsKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("stage started", String(FieldStage, "blog"), Int("attempt", 2))

	line := buf.String()
	if !strings.Contains(line, "INFO") {
		t.Fatalf("missing level label: %q", line)
	}
	if !strings.Contains(line, "stage started") {
		t.Fatalf("missing message: %q", line)
	}
	if !strings.Contains(line, "stage=blog") || !strings.Contains(line, "attempt=2") {
		t.Fatalf("missing attrs: %q", line)
	}
}

func TestPrettyHandlerQuotesSpacedValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Warn("save failed", String("reason", "disk is full"))
	if !strings.Contains(buf.String(), `reason="disk is full"`) {
		t.Fatalf("expected quoted value: %q", buf.String())
	}
}

func TestJSONHandlerRenames(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Debug("probe")
	line := buf.String()
	if !strings.Contains(line, `"ts":`) || !strings.Contains(line, `"msg":"probe"`) || !strings.Contains(line, `"level":"debug"`) {
		t.Fatalf("unexpected json line: %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWithContextAddsCorrelationAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := services.WithContentID(context.Background(), "content-1")
	ctx = services.WithStage(ctx, "research")

	WithContext(ctx, logger).Info("probe")
	line := buf.String()
	if !strings.Contains(line, "content_id=content-1") || !strings.Contains(line, "stage=research") {
		t.Fatalf("missing context attrs: %q", line)
	}
}
