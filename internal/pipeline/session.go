package pipeline

import (
	"context"

	"scribe/internal/content"
	"scribe/internal/stage"
)

// Session tracks which stage of an item is being viewed and enforces the
// navigation rules: backward always, forward only as far as generated
// content permits, audio never.
type Session struct {
	store   *content.Store
	item    *content.Item
	viewing stage.Stage
}

// NewSession loads an item and opens it at its most-advanced generated
// stage.
func NewSession(ctx context.Context, store *content.Store, itemID string) (*Session, error) {
	item, err := store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &Session{
		store:   store,
		item:    item,
		viewing: stage.Latest(item.StageData),
	}, nil
}

// Item returns the loaded content record.
func (s *Session) Item() *content.Item {
	return s.item
}

// Viewing returns the stage currently in view.
func (s *Session) Viewing() stage.Stage {
	return s.viewing
}

// Latest returns the most-advanced generated stage, recomputed from data.
func (s *Session) Latest() stage.Stage {
	return stage.Latest(s.item.StageData)
}

// NavigateTo moves the view to target when the navigation rules allow it,
// persisting the new position.
func (s *Session) NavigateTo(ctx context.Context, target stage.Stage) error {
	latest := s.Latest()
	if !stage.CanNavigate(target, s.item.StageData, latest) {
		return &NavigationError{Target: target, Latest: latest}
	}
	if err := s.store.SetStage(ctx, s.item.ID, target); err != nil {
		return err
	}
	s.viewing = target
	s.item.CurrentStage = target
	return nil
}

// Advance moves the view to the next navigable stage when allowed.
func (s *Session) Advance(ctx context.Context) error {
	return s.NavigateTo(ctx, stage.Advance(s.viewing))
}

// Refresh reloads the item from the store, keeping the viewed stage when it
// is still reachable and snapping back to the latest stage otherwise.
func (s *Session) Refresh(ctx context.Context) error {
	item, err := s.store.GetByID(ctx, s.item.ID)
	if err != nil {
		return err
	}
	s.item = item
	if !stage.CanNavigate(s.viewing, item.StageData, stage.Latest(item.StageData)) {
		s.viewing = stage.Latest(item.StageData)
	}
	return nil
}
