package repositoryimpl

import (
	"context"
	"testing"

	"github.com/skyras/skyras/internal/atlas"
	"github.com/skyras/skyras/pkg/cerr"
	"github.com/skyras/skyras/pkg/storage"
)

func newRepo(t *testing.T) *YAMLRepository {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}
	return NewYAMLRepository(store)
}

func TestSaveAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	state := &atlas.ManagerState{
		UserID:         "u1",
		ActivePriority: "Launch Q1 campaign",
		TodayTask:      "Lock the launch date",
		Backlog:        []string{"a sequel"},
	}
	if err := repo.Save(ctx, state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if state.Version != 1 {
		t.Errorf("version after first save: got %d, want 1", state.Version)
	}

	got, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ActivePriority != state.ActivePriority || got.TodayTask != state.TodayTask {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if len(got.Backlog) != 1 || got.Backlog[0] != "a sequel" {
		t.Errorf("backlog mismatch: %v", got.Backlog)
	}
}

func TestGetUnknownUserIsNotFound(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.Get(context.Background(), "nobody")
	if !cerr.IsCode(err, cerr.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestSaveRejectsStaleVersion(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	state := &atlas.ManagerState{UserID: "u1", ActivePriority: "p"}
	if err := repo.Save(ctx, state); err != nil {
		t.Fatalf("initial save failed: %v", err)
	}

	// Two readers pick up version 1; the second writer must be rejected.
	first, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	second, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	first.TodayTask = "writer one"
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first writer failed: %v", err)
	}

	second.TodayTask = "writer two"
	err = repo.Save(ctx, second)
	if !cerr.IsCode(err, cerr.Aborted) {
		t.Fatalf("expected Aborted for stale writer, got %v", err)
	}

	got, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.TodayTask != "writer one" {
		t.Errorf("stale writer overwrote state: %q", got.TodayTask)
	}
}
