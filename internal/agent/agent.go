// Package agent defines the contracts shared by the PM dispatcher and the
// specialist agents it delegates to.
package agent

import (
	"context"
	"encoding/json"
)

// RunInput is one turn of user input. Metadata is an arbitrary JSON bag;
// each agent reads the keys it understands with per-key fallback defaults.
type RunInput struct {
	Prompt   string          `json:"prompt"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// DelegationStatus tracks the lifecycle of a hand-off to a specialist.
type DelegationStatus string

const (
	StatusPending   DelegationStatus = "pending"
	StatusCompleted DelegationStatus = "completed"
	StatusFailed    DelegationStatus = "failed"
)

// Delegation records that the PM agent handed a sub-task to a named
// specialist. Immutable once created apart from the status.
type Delegation struct {
	Agent  string           `json:"agent"`
	Task   string           `json:"task"`
	Status DelegationStatus `json:"status"`
}

// RunResult is returned synchronously from every agent run. Output is the
// user-facing text; Notes carries raw sub-results keyed by category for
// telemetry and the golden-path harness.
type RunResult struct {
	Output      string         `json:"output"`
	Delegations []Delegation   `json:"delegations"`
	Notes       map[string]any `json:"notes,omitempty"`
}

// Agent is anything that can take a turn.
type Agent interface {
	Name() string
	Run(ctx context.Context, input *RunInput) (*RunResult, error)
}
