package content

import (
	"time"

	"scribe/internal/stage"
)

// Item is a content record persisted in SQLite: one keyword moving through
// the generation pipeline for an owning project.
type Item struct {
	ID           string
	ProjectID    string
	Name         string
	Keyword      string
	Website      string
	CurrentStage stage.Stage
	StageData    stage.Data
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastSavedAt  *time.Time
}

// LatestStage recomputes the furthest generated stage from the stored data.
func (i *Item) LatestStage() stage.Stage {
	return stage.Latest(i.StageData)
}

// IsComplete reports whether the item has been marked complete.
func (i *Item) IsComplete() bool {
	return i.CurrentStage == stage.Complete
}

// SaveRecord is one row of the append-only save history.
type SaveRecord struct {
	ID        int64
	ContentID string
	Stage     stage.Stage
	Data      []byte
	SavedAt   time.Time
}
