package workflow

import "context"

type Repository interface {
	Create(ctx context.Context, w *Workflow) error
	Get(ctx context.Context, id string) (*Workflow, error)
	ListByProject(ctx context.Context, projectID string) ([]*Workflow, error)
	Update(ctx context.Context, w *Workflow) error
	Delete(ctx context.Context, id string) error
}
