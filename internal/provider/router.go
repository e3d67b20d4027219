// Package provider routes image/video generation requests across third
// party providers with priority-ordered fallback.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Provider generates one asset from a prompt.
type Provider interface {
	Name() string
	// Configured reports whether the provider has a credential. Unconfigured
	// providers are skipped rather than counted as failures.
	Configured() bool
	Generate(ctx context.Context, prompt string) (assetURL string, err error)
}

// Result names which provider produced the asset.
type Result struct {
	URL      string
	Provider string
}

// Router tries providers in a configured priority order, falling through on
// failure. All provider errors are aggregated when every provider fails.
type Router struct {
	order     []string
	providers map[string]Provider
}

func NewRouter(order []string, providers ...Provider) *Router {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Router{order: order, providers: m}
}

func (r *Router) Generate(ctx context.Context, prompt string) (*Result, error) {
	var errs []error
	for _, name := range r.order {
		p, ok := r.providers[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: unknown provider", name))
			continue
		}
		if !p.Configured() {
			slog.DebugContext(ctx, "provider not configured, skipping", "provider", name)
			continue
		}
		url, err := p.Generate(ctx, prompt)
		if err != nil {
			slog.WarnContext(ctx, "provider failed, trying next", "provider", name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		return &Result{URL: url, Provider: name}, nil
	}
	if len(errs) == 0 {
		return nil, errors.New("no image provider is configured")
	}
	return nil, fmt.Errorf("all providers failed: %w", errors.Join(errs...))
}
