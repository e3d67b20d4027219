package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/tidwall/gjson"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/internal/workflowtmpl"
)

const AgentName = "workflow"

// defaultTemplateID is used when the payload names no template.
const defaultTemplateID = "release"

// Agent instantiates workflow templates into project workflows.
type Agent struct {
	repo      Repository
	templates *workflowtmpl.Registry
}

func NewAgent(repo Repository, templates *workflowtmpl.Registry) *Agent {
	return &Agent{repo: repo, templates: templates}
}

func (a *Agent) Name() string {
	return AgentName
}

// Run creates a workflow from a template. Required payload field: project.
func (a *Agent) Run(ctx context.Context, input *agent.RunInput) (*agent.RunResult, error) {
	project := gjson.GetBytes(input.Metadata, "project").String()
	if project == "" {
		return nil, errors.New("workflow creation requires a project")
	}
	templateID := gjson.GetBytes(input.Metadata, "template").String()
	if templateID == "" {
		templateID = defaultTemplateID
	}

	tmpl, ok := a.templates.Get(templateID)
	if !ok {
		return nil, fmt.Errorf("unknown workflow template %q", templateID)
	}

	now := time.Now()
	w := &Workflow{
		ID:         ulid.Make().String(),
		ProjectID:  project,
		TemplateID: tmpl.ID,
		Name:       tmpl.Name,
		CreatedAt:  now,
	}
	for i, title := range tmpl.Tasks {
		w.Tasks = append(w.Tasks, Task{
			ID:        ulid.Make().String(),
			Title:     title,
			Order:     i,
			Status:    TaskStatusTodo,
			CreatedAt: now,
		})
	}
	if err := a.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	return &agent.RunResult{
		Output: fmt.Sprintf("Created %q workflow for %s with %d tasks.", tmpl.Name, project, len(w.Tasks)),
		Notes: map[string]any{
			"workflowId": w.ID,
			"template":   tmpl.ID,
			"taskCount":  len(w.Tasks),
		},
	}, nil
}
