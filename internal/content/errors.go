package content

import "errors"

// ErrNotFound indicates the content identifier is unknown in both the
// current and the legacy persistence shapes.
var ErrNotFound = errors.New("content not found")

// ErrUnknownStage indicates a save was attempted for a stage outside the
// fixed vocabulary.
var ErrUnknownStage = errors.New("unknown stage")
