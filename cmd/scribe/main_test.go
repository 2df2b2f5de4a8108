package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandListsSubcommands(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}
	help := out.String()
	for _, name := range []string{"new", "generate", "show", "status", "export", "config", "complete", "history"} {
		if !strings.Contains(help, name) {
			t.Fatalf("help missing %q:\n%s", name, help)
		}
	}
}

func TestGenerateRejectsUnknownStage(t *testing.T) {
	ctx := newCommandContext(new(string))
	cmd := newGenerateCommand(ctx)
	cmd.SetArgs([]string{"drafting", "some-id"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown stage")
	}
}

func TestGenerateRejectsCompleteStage(t *testing.T) {
	ctx := newCommandContext(new(string))
	cmd := newGenerateCommand(ctx)
	cmd.SetArgs([]string{"complete", "some-id"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for complete pseudo-stage")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := truncate("a very long keyword phrase", 10); got != "a very lon..." {
		t.Fatalf("unexpected %q", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only-a"}})
	if !strings.Contains(out, "only-a") {
		t.Fatalf("row missing: %q", out)
	}
}
