package asset

import "context"

type Repository interface {
	Create(ctx context.Context, a *Asset) error
	Get(ctx context.Context, id string) (*Asset, error)
	ListByProject(ctx context.Context, projectID string, kind Kind) ([]*Asset, error)
	Delete(ctx context.Context, id string) error
}
