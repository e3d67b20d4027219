// Package licensing audits project files for unresolved license status.
package licensing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/internal/file"
)

const AgentName = "licensing"

type Agent struct {
	files file.Repository
}

func New(files file.Repository) *Agent {
	return &Agent{files: files}
}

func (a *Agent) Name() string {
	return AgentName
}

// Run audits the named files against the project's file records. Required
// payload fields: projectId and a non-empty files array.
func (a *Agent) Run(ctx context.Context, input *agent.RunInput) (*agent.RunResult, error) {
	projectID := gjson.GetBytes(input.Metadata, "projectId").String()
	if projectID == "" {
		return nil, errors.New("licensing audit requires projectId")
	}
	names := gjson.GetBytes(input.Metadata, "files").Array()
	if len(names) == 0 {
		return nil, errors.New("licensing audit requires a non-empty files list")
	}

	records, err := a.files.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project files: %w", err)
	}
	byName := make(map[string]*file.File, len(records))
	for _, f := range records {
		byName[f.Name] = f
	}

	var cleared, flagged, missing []string
	for _, n := range names {
		name := n.String()
		f, ok := byName[name]
		switch {
		case !ok:
			missing = append(missing, name)
		case f.Flagged || f.License == "":
			flagged = append(flagged, name)
		default:
			cleared = append(cleared, name)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Licensing audit for %s: %d cleared, %d flagged, %d without records.", projectID, len(cleared), len(flagged), len(missing))
	if len(flagged) > 0 {
		fmt.Fprintf(&b, " Flagged: %s.", strings.Join(flagged, ", "))
	}
	if len(missing) > 0 {
		fmt.Fprintf(&b, " No record: %s.", strings.Join(missing, ", "))
	}

	return &agent.RunResult{
		Output: b.String(),
		Notes: map[string]any{
			"projectId": projectID,
			"cleared":   cleared,
			"flagged":   flagged,
			"missing":   missing,
		},
	}, nil
}
