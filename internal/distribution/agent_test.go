package distribution

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/internal/eventbus"
	"github.com/skyras/skyras/internal/post"
)

type memoryPosts struct {
	created []*post.Post
}

func (m *memoryPosts) Create(ctx context.Context, p *post.Post) error {
	m.created = append(m.created, p)
	return nil
}

func (m *memoryPosts) CreateMany(ctx context.Context, posts []*post.Post) error {
	m.created = append(m.created, posts...)
	return nil
}

func (m *memoryPosts) Get(ctx context.Context, id string) (*post.Post, error) { return nil, nil }

func (m *memoryPosts) ListByProject(ctx context.Context, projectID string, status post.Status) ([]*post.Post, error) {
	return nil, nil
}

func (m *memoryPosts) Update(ctx context.Context, p *post.Post) error { return nil }

func input(t *testing.T, meta map[string]any) *agent.RunInput {
	t.Helper()
	raw, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal metadata: %v", err)
	}
	return &agent.RunInput{Prompt: "schedule the rollout", Metadata: raw}
}

func TestRunDryRunSavesDrafts(t *testing.T) {
	posts := &memoryPosts{}
	a := New(posts, nil, false)

	result, err := a.Run(context.Background(), input(t, map[string]any{"project": "p1"}))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(posts.created) != len(defaultPlatforms) {
		t.Fatalf("got %d posts, want %d", len(posts.created), len(defaultPlatforms))
	}
	for _, p := range posts.created {
		if p.Status != post.StatusDraft {
			t.Errorf("post %s status: got %s, want draft", p.Platform, p.Status)
		}
	}
	if !strings.Contains(result.Output, "Dry run") {
		t.Errorf("output: %q", result.Output)
	}
	if result.Notes["queued"] != false {
		t.Error("queued note must be false in dry-run mode")
	}
}

func TestRunPublishEnabledQueuesAndEmitsEvents(t *testing.T) {
	posts := &memoryPosts{}
	bus := eventbus.New()
	_, events := bus.Subscribe(10)
	a := New(posts, bus, true)

	_, err := a.Run(context.Background(), input(t, map[string]any{
		"project":   "p1",
		"platforms": []string{"tiktok", "youtube"},
		"caption":   "new single out now",
	}))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(posts.created) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts.created))
	}
	for _, p := range posts.created {
		if p.Status != post.StatusQueued {
			t.Errorf("post %s status: got %s, want queued", p.Platform, p.Status)
		}
		if p.Caption != "new single out now" {
			t.Errorf("caption: got %q", p.Caption)
		}
	}

	for i := 0; i < 2; i++ {
		select {
		case ev := <-events:
			if ev.Type != eventbus.EventTypePostEnqueued {
				t.Errorf("event type: got %s", ev.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("expected 2 post.enqueued events, got %d", i)
		}
	}
}

func TestRunStaggersSchedule(t *testing.T) {
	posts := &memoryPosts{}
	a := New(posts, nil, false)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return base }

	_, err := a.Run(context.Background(), input(t, map[string]any{"project": "p1"}))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for i, p := range posts.created {
		want := base.Add(slotInterval + time.Duration(i)*slotInterval)
		if !p.ScheduledAt.Equal(want) {
			t.Errorf("post %d scheduled at %v, want %v", i, p.ScheduledAt, want)
		}
	}
}

func TestRunRequiresProject(t *testing.T) {
	a := New(&memoryPosts{}, nil, false)
	if _, err := a.Run(context.Background(), &agent.RunInput{Prompt: "schedule it"}); err == nil {
		t.Error("expected an error without a project")
	}
}
