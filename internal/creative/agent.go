// Package creative generates assets through the provider router and files
// them in the asset library.
package creative

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/tidwall/gjson"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/internal/asset"
	"github.com/skyras/skyras/internal/provider"
)

const AgentName = "creative"

type Agent struct {
	router *provider.Router
	assets asset.Repository
}

func New(router *provider.Router, assets asset.Repository) *Agent {
	return &Agent{router: router, assets: assets}
}

func (a *Agent) Name() string {
	return AgentName
}

// Run generates one asset for the payload's idea and records it. Required
// payload fields: project and idea.
func (a *Agent) Run(ctx context.Context, input *agent.RunInput) (*agent.RunResult, error) {
	project := gjson.GetBytes(input.Metadata, "project").String()
	if project == "" {
		return nil, errors.New("creative generation requires a project")
	}
	idea := gjson.GetBytes(input.Metadata, "idea").String()
	if idea == "" {
		return nil, errors.New("creative generation requires an idea")
	}
	style := gjson.GetBytes(input.Metadata, "style").String()

	prompt := idea
	if style != "" {
		prompt = fmt.Sprintf("%s, style: %s", idea, style)
	}

	result, err := a.router.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("asset generation failed: %w", err)
	}

	rec := &asset.Asset{
		ID:        ulid.Make().String(),
		ProjectID: project,
		Kind:      asset.KindGenerated,
		Title:     idea,
		Prompt:    prompt,
		URL:       result.URL,
		Provider:  result.Provider,
		CreatedAt: time.Now(),
	}
	if err := a.assets.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save generated asset: %w", err)
	}

	return &agent.RunResult{
		Output: fmt.Sprintf("Generated asset for %q via %s and saved it to the %s library.", idea, result.Provider, project),
		Notes: map[string]any{
			"assetId":  rec.ID,
			"url":      result.URL,
			"provider": result.Provider,
		},
	}, nil
}
