package creative

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/internal/asset"
	"github.com/skyras/skyras/internal/provider"
)

type fakeProvider struct {
	prompts []string
	err     error
}

func (f *fakeProvider) Name() string     { return "replicate" }
func (f *fakeProvider) Configured() bool { return true }

func (f *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn/generated.png", nil
}

type memoryAssets struct {
	created []*asset.Asset
}

func (m *memoryAssets) Create(ctx context.Context, a *asset.Asset) error {
	m.created = append(m.created, a)
	return nil
}

func (m *memoryAssets) Get(ctx context.Context, id string) (*asset.Asset, error) { return nil, nil }

func (m *memoryAssets) ListByProject(ctx context.Context, projectID string, kind asset.Kind) ([]*asset.Asset, error) {
	return nil, nil
}

func (m *memoryAssets) Delete(ctx context.Context, id string) error { return nil }

func run(t *testing.T, a *Agent, meta map[string]any) (*agent.RunResult, error) {
	t.Helper()
	raw, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal metadata: %v", err)
	}
	return a.Run(context.Background(), &agent.RunInput{Prompt: "generate", Metadata: raw})
}

func TestRunGeneratesAndSavesAsset(t *testing.T) {
	p := &fakeProvider{}
	assets := &memoryAssets{}
	a := New(provider.NewRouter([]string{"replicate"}, p), assets)

	result, err := run(t, a, map[string]any{
		"project": "p1",
		"idea":    "a neon skyline",
		"style":   "synthwave",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(p.prompts) != 1 || p.prompts[0] != "a neon skyline, style: synthwave" {
		t.Errorf("prompts: %v", p.prompts)
	}
	if len(assets.created) != 1 {
		t.Fatalf("got %d assets, want 1", len(assets.created))
	}
	saved := assets.created[0]
	if saved.Kind != asset.KindGenerated || saved.URL != "https://cdn/generated.png" {
		t.Errorf("asset: %+v", saved)
	}
	if result.Notes["provider"] != "replicate" {
		t.Errorf("notes: %v", result.Notes)
	}
}

func TestRunProviderFailureIsAnError(t *testing.T) {
	p := &fakeProvider{err: errors.New("rate limited")}
	a := New(provider.NewRouter([]string{"replicate"}, p), &memoryAssets{})

	if _, err := run(t, a, map[string]any{"project": "p1", "idea": "x"}); err == nil {
		t.Error("expected an error when all providers fail")
	}
}

func TestRunRequiresProjectAndIdea(t *testing.T) {
	a := New(provider.NewRouter(nil), &memoryAssets{})

	if _, err := run(t, a, map[string]any{"idea": "x"}); err == nil {
		t.Error("expected an error without a project")
	}
	if _, err := run(t, a, map[string]any{"project": "p1"}); err == nil {
		t.Error("expected an error without an idea")
	}
}
