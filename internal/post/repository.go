package post

import "context"

type Repository interface {
	Create(ctx context.Context, p *Post) error
	CreateMany(ctx context.Context, posts []*Post) error
	Get(ctx context.Context, id string) (*Post, error)
	ListByProject(ctx context.Context, projectID string, status Status) ([]*Post, error)
	Update(ctx context.Context, p *Post) error
}
