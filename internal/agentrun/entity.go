package agentrun

import (
	"time"

	"github.com/skyras/skyras/internal/agent"
)

// AgentRun is the persisted log of one dispatcher turn. Notes carries the
// per-category sub-results for debugging; Metadata is the caller's metadata
// bag after credential redaction.
type AgentRun struct {
	ID          string             `yaml:"id"`
	UserID      string             `yaml:"user_id"`
	Prompt      string             `yaml:"prompt"`
	Output      string             `yaml:"output"`
	Delegations []agent.Delegation `yaml:"delegations,omitempty"`
	Notes       map[string]any     `yaml:"notes,omitempty"`
	Metadata    string             `yaml:"metadata,omitempty"`
	Duration    time.Duration      `yaml:"duration"`
	CreatedAt   time.Time          `yaml:"created_at"`
}
