package stage_test

import (
	"encoding/json"
	"testing"

	"scribe/internal/stage"
)

func data(stages ...stage.Stage) stage.Data {
	d := stage.Data{}
	for _, s := range stages {
		d[s] = json.RawMessage(`{"ok":true}`)
	}
	return d
}

func TestLatestScansFromMostAdvanced(t *testing.T) {
	cases := []struct {
		name     string
		data     stage.Data
		expected stage.Stage
	}{
		{"empty", stage.Data{}, stage.Research},
		{"nil", nil, stage.Research},
		{"research only", data(stage.Research), stage.Research},
		{"through blog", data(stage.Research, stage.Blog), stage.Blog},
		{"social without gaps filled", data(stage.Research, stage.Social), stage.Social},
		{"audio ignored", data(stage.Research, stage.Blog, stage.Audio), stage.Blog},
		{"all navigable", data(stage.Research, stage.Blog, stage.PodcastScript, stage.Images, stage.Social), stage.Social},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stage.Latest(tc.data); got != tc.expected {
				t.Fatalf("Latest = %s, want %s", got, tc.expected)
			}
		})
	}
}

func TestLatestIgnoresNullAndEmptyPayloads(t *testing.T) {
	d := stage.Data{
		stage.Research: json.RawMessage(`{"definition":"x"}`),
		stage.Blog:     json.RawMessage(`null`),
		stage.Images:   json.RawMessage(``),
	}
	if got := stage.Latest(d); got != stage.Research {
		t.Fatalf("Latest = %s, want research", got)
	}
}

func TestCanNavigate(t *testing.T) {
	d := data(stage.Research, stage.Blog)
	latest := stage.Latest(d)

	if !stage.CanNavigate(stage.Research, d, latest) {
		t.Fatal("first stage must always be reachable")
	}
	if !stage.CanNavigate(stage.Blog, d, latest) {
		t.Fatal("populated stage must be reachable")
	}
	if stage.CanNavigate(stage.Images, d, latest) {
		t.Fatal("stage past latest without data must not be reachable")
	}
	if stage.CanNavigate(stage.Complete, d, latest) {
		t.Fatal("complete must not be reachable before social")
	}

	// Populated stages stay reachable even past latest.
	d2 := data(stage.Research, stage.Social)
	if !stage.CanNavigate(stage.Social, d2, stage.Latest(d2)) {
		t.Fatal("populated stage past gaps must be reachable")
	}
}

func TestCanNavigateFirstStageWithoutData(t *testing.T) {
	if !stage.CanNavigate(stage.Research, stage.Data{}, stage.Research) {
		t.Fatal("research must be reachable as a reset point with no data")
	}
}

func TestAudioNeverNavigable(t *testing.T) {
	full := data(stage.Research, stage.Blog, stage.PodcastScript, stage.Audio, stage.Images, stage.Social)
	if stage.CanNavigate(stage.Audio, full, stage.Latest(full)) {
		t.Fatal("audio must never be a navigation target")
	}
	if stage.CanNavigate(stage.Audio, stage.Data{}, stage.Research) {
		t.Fatal("audio must never be a navigation target, even empty")
	}
}

func TestAdvance(t *testing.T) {
	cases := []struct {
		from, to stage.Stage
	}{
		{stage.Research, stage.Blog},
		{stage.Blog, stage.PodcastScript},
		{stage.PodcastScript, stage.Images},
		{stage.Images, stage.Social},
		{stage.Social, stage.Complete},
		{stage.Complete, stage.Complete},
	}
	for _, tc := range cases {
		if got := stage.Advance(tc.from); got != tc.to {
			t.Fatalf("Advance(%s) = %s, want %s", tc.from, got, tc.to)
		}
	}
}

func TestPrerequisites(t *testing.T) {
	cases := []struct {
		target stage.Stage
		prereq stage.Stage
		ok     bool
	}{
		{stage.Research, "", false},
		{stage.Blog, stage.Research, true},
		{stage.PodcastScript, stage.Blog, true},
		{stage.Audio, stage.PodcastScript, true},
		{stage.Images, stage.Blog, true},
		{stage.Social, stage.Blog, true},
		{stage.Complete, "", false},
	}
	for _, tc := range cases {
		prereq, ok := stage.Prerequisite(tc.target)
		if ok != tc.ok || prereq != tc.prereq {
			t.Fatalf("Prerequisite(%s) = (%s, %v), want (%s, %v)", tc.target, prereq, ok, tc.prereq, tc.ok)
		}
	}
}

func TestParse(t *testing.T) {
	if s, ok := stage.Parse(" Podcast_Script "); !ok || s != stage.PodcastScript {
		t.Fatalf("Parse podcast_script = (%s, %v)", s, ok)
	}
	if _, ok := stage.Parse("video"); ok {
		t.Fatal("unknown stage must not parse")
	}
	if _, ok := stage.Parse(""); ok {
		t.Fatal("empty stage must not parse")
	}
}

func TestIndexExcludesAudio(t *testing.T) {
	if idx := stage.Index(stage.Audio); idx != -1 {
		t.Fatalf("Index(audio) = %d, want -1", idx)
	}
	if idx := stage.Index(stage.Research); idx != 0 {
		t.Fatalf("Index(research) = %d, want 0", idx)
	}
}

func TestLabel(t *testing.T) {
	if got := stage.PodcastScript.Label(); got != "Podcast Script" {
		t.Fatalf("Label = %q", got)
	}
}
