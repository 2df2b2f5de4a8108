package stage

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Stage identifies one step in the fixed content-generation sequence.
type Stage string

const (
	Research      Stage = "research"
	Blog          Stage = "blog"
	PodcastScript Stage = "podcast_script"
	Audio         Stage = "audio"
	Images        Stage = "images"
	Social        Stage = "social"
	Complete      Stage = "complete"
)

// navigableOrder is the total order users move through. Audio is deliberately
// absent: it is a side-artifact of podcast_script, not a gated stage.
var navigableOrder = []Stage{
	Research,
	Blog,
	PodcastScript,
	Images,
	Social,
	Complete,
}

var allStages = []Stage{
	Research,
	Blog,
	PodcastScript,
	Audio,
	Images,
	Social,
	Complete,
}

var stageSet = func() map[Stage]struct{} {
	set := make(map[Stage]struct{}, len(allStages))
	for _, s := range allStages {
		set[s] = struct{}{}
	}
	return set
}()

// prerequisites maps each generatable stage to the single upstream stage whose
// artifact must exist before generation is attempted.
var prerequisites = map[Stage]Stage{
	Blog:          Research,
	PodcastScript: Blog,
	Audio:         PodcastScript,
	Images:        Blog,
	Social:        Blog,
}

// Data is the sparse presence map from stage to its stored artifact payload.
// The orchestrator never looks inside the payloads; presence is all that
// matters for sequencing.
type Data map[Stage]json.RawMessage

// Has reports whether the stage holds a populated artifact. A stored JSON
// null counts as absent (regeneration clears a slot by writing null).
func (d Data) Has(s Stage) bool {
	raw, ok := d[s]
	if !ok {
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Clone returns a shallow copy safe to mutate key-wise.
func (d Data) Clone() Data {
	if d == nil {
		return Data{}
	}
	cp := make(Data, len(d))
	for k, v := range d {
		cp[k] = v
	}
	return cp
}

// All returns the full stage vocabulary, including audio.
func All() []Stage {
	cp := make([]Stage, len(allStages))
	copy(cp, allStages)
	return cp
}

// Navigable returns the ordered navigable sequence.
func Navigable() []Stage {
	cp := make([]Stage, len(navigableOrder))
	copy(cp, navigableOrder)
	return cp
}

// Known reports whether s is part of the stage vocabulary.
func Known(s Stage) bool {
	_, ok := stageSet[s]
	return ok
}

// Parse converts a string into a known Stage.
func Parse(value string) (Stage, bool) {
	normalized := Stage(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := stageSet[normalized]
	return normalized, ok
}

// Index returns the position of a stage in the navigable order, or -1 when
// the stage is not navigable (audio, unknown values).
func Index(s Stage) int {
	for i, candidate := range navigableOrder {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Latest returns the most-advanced navigable stage with a populated artifact.
// Progress is always recomputed from the data rather than read from a stored
// pointer, so a stale current-stage field can never disagree with what was
// actually generated. Defaults to Research when nothing exists yet.
func Latest(data Data) Stage {
	for i := len(navigableOrder) - 1; i >= 0; i-- {
		s := navigableOrder[i]
		if s == Complete {
			continue
		}
		if data.Has(s) {
			return s
		}
	}
	return Research
}

// CanNavigate reports whether the user may move to target. Backward jumps are
// always allowed, forward jumps only as far as generated content permits, and
// audio is never a navigation target.
func CanNavigate(target Stage, data Data, latest Stage) bool {
	if target == Audio {
		return false
	}
	idx := Index(target)
	if idx < 0 {
		return false
	}
	if data.Has(target) {
		return true
	}
	if idx == 0 {
		return true
	}
	latestIdx := Index(latest)
	return latestIdx >= 0 && idx <= latestIdx
}

// Advance returns the navigable stage after from. Complete is terminal:
// advancing past it stays at Complete rather than erroring.
func Advance(from Stage) Stage {
	idx := Index(from)
	if idx < 0 {
		return Research
	}
	if idx+1 >= len(navigableOrder) {
		return Complete
	}
	return navigableOrder[idx+1]
}

// Prerequisite returns the stage whose artifact must be present before target
// may be generated, and false when the target has no prerequisite.
func Prerequisite(target Stage) (Stage, bool) {
	prereq, ok := prerequisites[target]
	return prereq, ok
}

// Label returns the stage name formatted for human-facing output.
func (s Stage) Label() string {
	if s == "" {
		return ""
	}
	parts := strings.Fields(strings.ReplaceAll(string(s), "_", " "))
	for i, part := range parts {
		runes := []rune(part)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
