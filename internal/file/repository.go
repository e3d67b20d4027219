package file

import "context"

type Repository interface {
	Create(ctx context.Context, f *File) error
	Get(ctx context.Context, id string) (*File, error)
	ListByProject(ctx context.Context, projectID string) ([]*File, error)
	Update(ctx context.Context, f *File) error
	Delete(ctx context.Context, id string) error
}
