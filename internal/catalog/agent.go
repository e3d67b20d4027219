// Package catalog files finished work into the project's asset catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/tidwall/gjson"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/internal/asset"
)

const AgentName = "catalog"

type Agent struct {
	assets asset.Repository
}

func New(assets asset.Repository) *Agent {
	return &Agent{assets: assets}
}

func (a *Agent) Name() string {
	return AgentName
}

// Run saves one catalog entry. Required payload fields: project and title.
func (a *Agent) Run(ctx context.Context, input *agent.RunInput) (*agent.RunResult, error) {
	project := gjson.GetBytes(input.Metadata, "project").String()
	if project == "" {
		return nil, errors.New("catalog save requires a project")
	}
	title := gjson.GetBytes(input.Metadata, "title").String()
	if title == "" {
		return nil, errors.New("catalog save requires a title")
	}

	var tags []string
	for _, t := range gjson.GetBytes(input.Metadata, "tags").Array() {
		tags = append(tags, t.String())
	}

	rec := &asset.Asset{
		ID:        ulid.Make().String(),
		ProjectID: project,
		Kind:      asset.KindCatalog,
		Title:     title,
		URL:       gjson.GetBytes(input.Metadata, "url").String(),
		Tags:      tags,
		CreatedAt: time.Now(),
	}
	if err := a.assets.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save catalog entry: %w", err)
	}

	line := fmt.Sprintf("Cataloged %q in %s.", title, project)
	if len(tags) > 0 {
		line = fmt.Sprintf("Cataloged %q in %s with tags %s.", title, project, strings.Join(tags, ", "))
	}
	return &agent.RunResult{
		Output: line,
		Notes: map[string]any{
			"entryId": rec.ID,
			"tags":    tags,
		},
	}, nil
}
