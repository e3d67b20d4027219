package licensing

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/internal/file"
)

type memoryFiles struct {
	files []*file.File
}

func (m *memoryFiles) Create(ctx context.Context, f *file.File) error { return nil }
func (m *memoryFiles) Get(ctx context.Context, id string) (*file.File, error) {
	return nil, nil
}
func (m *memoryFiles) Update(ctx context.Context, f *file.File) error { return nil }
func (m *memoryFiles) Delete(ctx context.Context, id string) error    { return nil }

func (m *memoryFiles) ListByProject(ctx context.Context, projectID string) ([]*file.File, error) {
	var out []*file.File
	for _, f := range m.files {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	return out, nil
}

func audit(t *testing.T, a *Agent, meta map[string]any) *agent.RunResult {
	t.Helper()
	raw, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal metadata: %v", err)
	}
	result, err := a.Run(context.Background(), &agent.RunInput{Prompt: "audit", Metadata: raw})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return result
}

func TestRunBucketsFiles(t *testing.T) {
	repo := &memoryFiles{files: []*file.File{
		{ProjectID: "p1", Name: "cover.png", License: "CC-BY"},
		{ProjectID: "p1", Name: "teaser.mp4", Flagged: true, License: "unknown"},
		{ProjectID: "p1", Name: "sample.wav", License: ""},
	}}
	a := New(repo)

	result := audit(t, a, map[string]any{
		"projectId": "p1",
		"files":     []string{"cover.png", "teaser.mp4", "sample.wav", "ghost.mov"},
	})

	notes := result.Notes
	if got := notes["cleared"].([]string); len(got) != 1 || got[0] != "cover.png" {
		t.Errorf("cleared: %v", got)
	}
	// Flagged covers both explicitly flagged files and files with no license.
	if got := notes["flagged"].([]string); len(got) != 2 {
		t.Errorf("flagged: %v", got)
	}
	if got := notes["missing"].([]string); len(got) != 1 || got[0] != "ghost.mov" {
		t.Errorf("missing: %v", got)
	}

	if !strings.Contains(result.Output, "1 cleared, 2 flagged, 1 without records") {
		t.Errorf("output: %q", result.Output)
	}
	if !strings.Contains(result.Output, "ghost.mov") {
		t.Errorf("missing files must be named: %q", result.Output)
	}
}

func TestRunRequiresProjectAndFiles(t *testing.T) {
	a := New(&memoryFiles{})

	raw, _ := json.Marshal(map[string]any{"files": []string{"a.png"}})
	if _, err := a.Run(context.Background(), &agent.RunInput{Metadata: raw}); err == nil {
		t.Error("expected an error without projectId")
	}

	raw, _ = json.Marshal(map[string]any{"projectId": "p1"})
	if _, err := a.Run(context.Background(), &agent.RunInput{Metadata: raw}); err == nil {
		t.Error("expected an error without files")
	}
}
