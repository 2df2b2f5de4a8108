// Package autosave persists stage artifacts the moment they are generated
// and keeps generation alive when persistence fails: a failed save becomes a
// warning and a pending entry that can be flushed later, never a pipeline
// error.
package autosave

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"scribe/internal/logging"
	"scribe/internal/stage"
)

// Saver persists one stage artifact for an item.
type Saver interface {
	Save(ctx context.Context, id string, st stage.Stage, artifact json.RawMessage) error
}

// Pending is an artifact that could not be persisted and is held in memory
// for a later flush.
type Pending struct {
	ItemID   string
	Stage    stage.Stage
	Artifact json.RawMessage
	FailedAt time.Time
	Err      error
}

// Coordinator writes artifacts through a Saver and downgrades persistence
// failures to warnings.
type Coordinator struct {
	saver  Saver
	logger *slog.Logger

	mu      sync.Mutex
	pending []Pending
}

// New constructs a coordinator. The logger may be nil.
func New(saver Saver, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{saver: saver, logger: logger}
}

// OnGenerated persists a freshly generated artifact. Persistence failure is
// absorbed: the artifact is queued for a later flush and a warning is logged.
// The returned flag reports whether the save landed.
func (c *Coordinator) OnGenerated(ctx context.Context, itemID string, st stage.Stage, artifact json.RawMessage) bool {
	err := c.saver.Save(ctx, itemID, st, artifact)
	if err == nil {
		c.logger.Debug("stage artifact saved",
			logging.String(logging.FieldContentID, itemID),
			logging.String(logging.FieldStage, string(st)),
		)
		return true
	}

	c.mu.Lock()
	c.pending = append(c.pending, Pending{
		ItemID:   itemID,
		Stage:    st,
		Artifact: artifact,
		FailedAt: time.Now().UTC(),
		Err:      err,
	})
	queued := len(c.pending)
	c.mu.Unlock()

	c.logger.Warn("auto-save failed, artifact held in memory",
		logging.String(logging.FieldEventType, "autosave_failed"),
		logging.String(logging.FieldContentID, itemID),
		logging.String(logging.FieldStage, string(st)),
		logging.Int("pending", queued),
		logging.Error(err),
	)
	return false
}

// Pending returns a snapshot of artifacts awaiting a successful save.
func (c *Coordinator) Pending() []Pending {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]Pending, len(c.pending))
	copy(snapshot, c.pending)
	return snapshot
}

// Flush retries every held artifact. Entries that save successfully are
// dropped; the rest stay queued. Returns the number persisted.
func (c *Coordinator) Flush(ctx context.Context) int {
	c.mu.Lock()
	held := c.pending
	c.pending = nil
	c.mu.Unlock()

	saved := 0
	var remaining []Pending
	for _, entry := range held {
		if err := c.saver.Save(ctx, entry.ItemID, entry.Stage, entry.Artifact); err != nil {
			entry.Err = err
			remaining = append(remaining, entry)
			continue
		}
		saved++
	}

	if len(remaining) > 0 {
		c.mu.Lock()
		c.pending = append(remaining, c.pending...)
		c.mu.Unlock()
	}

	if saved > 0 {
		c.logger.Info("flushed pending auto-saves",
			logging.Int("saved", saved),
			logging.Int("remaining", len(remaining)),
		)
	}
	return saved
}
