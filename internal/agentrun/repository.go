package agentrun

import "context"

type Repository interface {
	Create(ctx context.Context, run *AgentRun) error
	Get(ctx context.Context, id string) (*AgentRun, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*AgentRun, error)
}
