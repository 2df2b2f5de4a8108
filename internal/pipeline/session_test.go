package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"scribe/internal/content"
	"scribe/internal/stage"
	"scribe/internal/testsupport"
)

func seedItem(t *testing.T, store *content.Store, stages ...stage.Stage) *content.Item {
	t.Helper()
	ctx := context.Background()
	item, err := store.NewItem(ctx, "proj-1", "", "espresso", "")
	if err != nil {
		t.Fatalf("new item: %v", err)
	}
	for _, st := range stages {
		if err := store.Save(ctx, item.ID, st, json.RawMessage(`{"seeded":true}`)); err != nil {
			t.Fatalf("seed %s: %v", st, err)
		}
	}
	return item
}

func openStore(t *testing.T) *content.Store {
	t.Helper()
	store, err := content.Open(testsupport.NewConfig(t))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSessionOpensAtLatestStage(t *testing.T) {
	store := openStore(t)
	item := seedItem(t, store, stage.Research, stage.Blog)

	session, err := NewSession(context.Background(), store, item.ID)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if session.Viewing() != stage.Blog {
		t.Fatalf("expected blog view, got %s", session.Viewing())
	}
}

func TestSessionBackwardNavigationAlwaysAllowed(t *testing.T) {
	store := openStore(t)
	item := seedItem(t, store, stage.Research, stage.Blog, stage.PodcastScript)

	session, err := NewSession(context.Background(), store, item.ID)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := session.NavigateTo(context.Background(), stage.Research); err != nil {
		t.Fatalf("backward navigation rejected: %v", err)
	}
	if session.Viewing() != stage.Research {
		t.Fatalf("view not moved: %s", session.Viewing())
	}
}

func TestSessionForwardNavigationGated(t *testing.T) {
	store := openStore(t)
	item := seedItem(t, store, stage.Research)

	session, err := NewSession(context.Background(), store, item.ID)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	err = session.NavigateTo(context.Background(), stage.Social)
	var navErr *NavigationError
	if !errors.As(err, &navErr) {
		t.Fatalf("expected NavigationError, got %v", err)
	}
	if session.Viewing() != stage.Research {
		t.Fatalf("view moved despite rejection: %s", session.Viewing())
	}
}

func TestSessionAudioNeverNavigable(t *testing.T) {
	store := openStore(t)
	item := seedItem(t, store, stage.Research, stage.Blog, stage.PodcastScript, stage.Audio)

	session, err := NewSession(context.Background(), store, item.ID)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := session.NavigateTo(context.Background(), stage.Audio); err == nil {
		t.Fatal("audio navigation was allowed")
	}
}

func TestSessionAdvanceWalksOrder(t *testing.T) {
	store := openStore(t)
	item := seedItem(t, store, stage.Research, stage.Blog)

	session, err := NewSession(context.Background(), store, item.ID)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := session.NavigateTo(context.Background(), stage.Research); err != nil {
		t.Fatalf("navigate research: %v", err)
	}
	if err := session.Advance(context.Background()); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if session.Viewing() != stage.Blog {
		t.Fatalf("expected blog after advance, got %s", session.Viewing())
	}
	// Podcast script has not been generated, so the next advance is gated.
	if err := session.Advance(context.Background()); err == nil {
		t.Fatal("advance past generated content was allowed")
	}
}

func TestSessionNavigationPersists(t *testing.T) {
	store := openStore(t)
	item := seedItem(t, store, stage.Research, stage.Blog)
	ctx := context.Background()

	session, err := NewSession(ctx, store, item.ID)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := session.NavigateTo(ctx, stage.Research); err != nil {
		t.Fatalf("navigate: %v", err)
	}

	reloaded, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.CurrentStage != stage.Research {
		t.Fatalf("navigation not persisted: %s", reloaded.CurrentStage)
	}
}

func TestSessionRefreshPicksUpNewStages(t *testing.T) {
	store := openStore(t)
	item := seedItem(t, store, stage.Research)
	ctx := context.Background()

	session, err := NewSession(ctx, store, item.ID)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	if err := store.Save(ctx, item.ID, stage.Blog, json.RawMessage(`{"title":"x"}`)); err != nil {
		t.Fatalf("save blog: %v", err)
	}
	if err := session.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if session.Latest() != stage.Blog {
		t.Fatalf("refresh missed new stage: %s", session.Latest())
	}
	if err := session.NavigateTo(ctx, stage.Blog); err != nil {
		t.Fatalf("navigate to new stage: %v", err)
	}
}
