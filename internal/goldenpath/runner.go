// Package goldenpath runs predefined end-to-end scenarios through the
// dispatcher and records proof markers at each stage so the agent chain can
// be verified without inspecting logs.
package goldenpath

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/pkg/cerr"
)

// ProofMarker is one structured checkpoint emitted while a scenario runs.
type ProofMarker struct {
	Stage   string         `json:"stage"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Scenario is a canned prompt plus the category its delegation chain is
// expected to exercise.
type Scenario struct {
	Name             string
	Prompt           string
	Metadata         map[string]any
	ExpectedCategory string
}

var scenarios = map[string]Scenario{
	"creative": {
		Name:             "creative",
		Prompt:           "Generate artwork for the new single",
		Metadata:         map[string]any{"project": "golden-path"},
		ExpectedCategory: "creative",
	},
	"compliance": {
		Name:             "compliance",
		Prompt:           "Run a licensing audit on the release files",
		Metadata:         map[string]any{"projectId": "golden-path", "files": []string{"cover.png", "teaser.mp4"}},
		ExpectedCategory: "licensing",
	},
	"distribution": {
		Name:             "distribution",
		Prompt:           "Schedule the distribution rollout",
		Metadata:         map[string]any{"project": "golden-path"},
		ExpectedCategory: "distribution",
	},
}

// Names lists the known scenario keys.
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	return names
}

// Runner drives scenarios through the PM dispatcher.
type Runner struct {
	dispatcher agent.Agent
}

func NewRunner(dispatcher agent.Agent) *Runner {
	return &Runner{dispatcher: dispatcher}
}

// Run executes one scenario. An unknown scenario key is a request error;
// everything that happens inside the run is reported through markers, not
// errors, mirroring the dispatcher's partial-failure contract.
func (r *Runner) Run(ctx context.Context, name string) ([]ProofMarker, *agent.RunResult, error) {
	scenario, ok := scenarios[name]
	if !ok {
		return nil, nil, cerr.NewError(cerr.InvalidArgument,
			fmt.Sprintf("unknown scenario %q, expected one of: %s", name, strings.Join(Names(), ", ")), nil)
	}

	meta, err := json.Marshal(scenario.Metadata)
	if err != nil {
		return nil, nil, cerr.NewError(cerr.Internal, "server error", err)
	}

	markers := []ProofMarker{{
		Stage:   "dispatch",
		Code:    "RUN_STARTED",
		Message: fmt.Sprintf("scenario %s: %s", scenario.Name, scenario.Prompt),
	}}

	result, err := r.dispatcher.Run(ctx, &agent.RunInput{Prompt: scenario.Prompt, Metadata: meta})
	if err != nil {
		markers = append(markers, ProofMarker{
			Stage:   "dispatch",
			Code:    "RUN_FAILED",
			Message: err.Error(),
		})
		return markers, nil, nil
	}

	for _, d := range result.Delegations {
		markers = append(markers, ProofMarker{
			Stage:   "delegate",
			Code:    "DELEGATION_" + strings.ToUpper(string(d.Status)),
			Message: fmt.Sprintf("%s: %s", d.Agent, d.Task),
		})
	}

	if _, ok := result.Notes[scenario.ExpectedCategory]; ok {
		markers = append(markers, ProofMarker{
			Stage:   "verify",
			Code:    "EXPECTED_CATEGORY_PRESENT",
			Message: scenario.ExpectedCategory,
		})
	} else {
		markers = append(markers, ProofMarker{
			Stage:   "verify",
			Code:    "EXPECTED_CATEGORY_MISSING",
			Message: scenario.ExpectedCategory,
			Details: map[string]any{"notes_keys": noteKeys(result.Notes)},
		})
	}

	markers = append(markers, ProofMarker{
		Stage:   "complete",
		Code:    "RUN_COMPLETED",
		Message: fmt.Sprintf("%d delegations", len(result.Delegations)),
	})
	return markers, result, nil
}

func noteKeys(notes map[string]any) []string {
	keys := make([]string, 0, len(notes))
	for k := range notes {
		keys = append(keys, k)
	}
	return keys
}
