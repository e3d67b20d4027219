package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/skyras/skyras/internal/post"
	"github.com/skyras/skyras/pkg/cerr"
	"github.com/skyras/skyras/pkg/storage"
)

const postsPrefix = "posts"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", postsPrefix, id)
}

func (r *YAMLRepository) Create(ctx context.Context, p *post.Post) error {
	exists, err := r.storage.Exists(ctx, path(p.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("post", err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, "post already exists", nil)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal post: %w", err))
	}
	if err := r.storage.Write(ctx, path(p.ID), data); err != nil {
		return cerr.WrapStorageWriteError("post", err)
	}
	return nil
}

// CreateMany writes posts one by one; there is no batch primitive in the
// storage layer, so a partial failure leaves earlier posts in place.
func (r *YAMLRepository) CreateMany(ctx context.Context, posts []*post.Post) error {
	for _, p := range posts {
		if err := r.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*post.Post, error) {
	data, err := r.storage.Read(ctx, path(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("post", err)
	}
	var p post.Post
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal post: %w", err))
	}
	return &p, nil
}

func (r *YAMLRepository) ListByProject(ctx context.Context, projectID string, status post.Status) ([]*post.Post, error) {
	paths, err := r.storage.List(ctx, postsPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("posts", err)
	}

	sort.Strings(paths)

	var posts []*post.Post
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var row post.Post
		if err := yaml.Unmarshal(data, &row); err != nil {
			continue
		}
		if projectID != "" && row.ProjectID != projectID {
			continue
		}
		if status != "" && row.Status != status {
			continue
		}
		posts = append(posts, &row)
	}
	return posts, nil
}

func (r *YAMLRepository) Update(ctx context.Context, p *post.Post) error {
	exists, err := r.storage.Exists(ctx, path(p.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("post", err)
	}
	if !exists {
		return cerr.NewError(cerr.NotFound, "post not found", nil)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal post: %w", err))
	}
	if err := r.storage.Write(ctx, path(p.ID), data); err != nil {
		return cerr.WrapStorageWriteError("post", err)
	}
	return nil
}
