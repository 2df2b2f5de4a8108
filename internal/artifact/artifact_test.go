package artifact_test

import (
	"strings"
	"testing"

	"scribe/internal/artifact"
)

func TestBlogEnsureDefaultsComputesCounts(t *testing.T) {
	blog := artifact.Blog{
		Title:   "Composting at Home",
		Content: strings.Repeat("word ", 400),
	}
	blog.EnsureDefaults("composting")
	if blog.WordCount != 400 {
		t.Fatalf("WordCount = %d, want 400", blog.WordCount)
	}
	if blog.ReadingTime != 2 {
		t.Fatalf("ReadingTime = %d, want 2", blog.ReadingTime)
	}
	if blog.MetaDescription == "" {
		t.Fatal("expected synthesized meta description")
	}
}

func TestBlogEnsureDefaultsSynthesizesTitle(t *testing.T) {
	blog := artifact.Blog{Content: "some body"}
	blog.EnsureDefaults("solar panels")
	if blog.Title != "Expert Guide to Solar Panels" {
		t.Fatalf("Title = %q", blog.Title)
	}
}

func TestBlogEnsureDefaultsKeepsExistingValues(t *testing.T) {
	blog := artifact.Blog{Title: "Kept", Content: "body", WordCount: 99, ReadingTime: 7, MetaDescription: "meta"}
	blog.EnsureDefaults("anything")
	if blog.Title != "Kept" || blog.WordCount != 99 || blog.ReadingTime != 7 || blog.MetaDescription != "meta" {
		t.Fatalf("existing values modified: %+v", blog)
	}
}

func TestPodcastEnsureDefaults(t *testing.T) {
	var p artifact.Podcast
	p.EnsureDefaults("urban beekeeping")
	if p.Duration != artifact.DefaultPodcastDuration {
		t.Fatalf("Duration = %d, want %d", p.Duration, artifact.DefaultPodcastDuration)
	}
	if !strings.Contains(p.Title, "Urban Beekeeping") {
		t.Fatalf("Title = %q", p.Title)
	}
	if len(p.Outline) == 0 {
		t.Fatal("expected default outline")
	}
	if !strings.Contains(p.Script, "urban beekeeping") {
		t.Fatalf("Script = %q", p.Script)
	}
}

func TestCountWords(t *testing.T) {
	if got := artifact.CountWords("one  two\nthree"); got != 3 {
		t.Fatalf("CountWords = %d, want 3", got)
	}
	if got := artifact.CountWords(""); got != 0 {
		t.Fatalf("CountWords empty = %d, want 0", got)
	}
}
