package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeProvider struct {
	name       string
	configured bool
	url        string
	err        error
	calls      int
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.url, f.err
}

func TestGenerateFollowsPriorityOrder(t *testing.T) {
	first := &fakeProvider{name: "replicate", configured: true, url: "https://cdn/one.png"}
	second := &fakeProvider{name: "runway", configured: true, url: "https://cdn/two.png"}
	r := NewRouter([]string{"replicate", "runway"}, first, second)

	result, err := r.Generate(context.Background(), "a neon skyline")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.Provider != "replicate" || result.URL != first.url {
		t.Errorf("got %+v, want replicate result", result)
	}
	if second.calls != 0 {
		t.Error("second provider should not be called when the first succeeds")
	}
}

func TestGenerateFallsThroughOnFailure(t *testing.T) {
	first := &fakeProvider{name: "replicate", configured: true, err: errors.New("rate limited")}
	second := &fakeProvider{name: "runway", configured: true, url: "https://cdn/two.png"}
	r := NewRouter([]string{"replicate", "runway"}, first, second)

	result, err := r.Generate(context.Background(), "a neon skyline")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.Provider != "runway" {
		t.Errorf("provider: got %q, want runway", result.Provider)
	}
}

func TestGenerateSkipsUnconfigured(t *testing.T) {
	first := &fakeProvider{name: "replicate", configured: false}
	second := &fakeProvider{name: "runway", configured: true, url: "https://cdn/two.png"}
	r := NewRouter([]string{"replicate", "runway"}, first, second)

	result, err := r.Generate(context.Background(), "a neon skyline")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if first.calls != 0 {
		t.Error("unconfigured provider must not be called")
	}
	if result.Provider != "runway" {
		t.Errorf("provider: got %q, want runway", result.Provider)
	}
}

func TestGenerateAggregatesAllErrors(t *testing.T) {
	first := &fakeProvider{name: "replicate", configured: true, err: errors.New("rate limited")}
	second := &fakeProvider{name: "runway", configured: true, err: errors.New("bad gateway")}
	r := NewRouter([]string{"replicate", "runway"}, first, second)

	_, err := r.Generate(context.Background(), "a neon skyline")
	if err == nil {
		t.Fatal("expected an error when every provider fails")
	}
	for _, want := range []string{"replicate", "rate limited", "runway", "bad gateway"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestGenerateNothingConfigured(t *testing.T) {
	r := NewRouter([]string{"replicate"}, &fakeProvider{name: "replicate"})
	_, err := r.Generate(context.Background(), "a neon skyline")
	if err == nil || !strings.Contains(err.Error(), "no image provider is configured") {
		t.Errorf("got %v", err)
	}
}
