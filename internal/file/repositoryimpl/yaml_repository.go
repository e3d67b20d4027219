package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/skyras/skyras/internal/file"
	"github.com/skyras/skyras/pkg/cerr"
	"github.com/skyras/skyras/pkg/storage"
)

const filesPrefix = "files"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", filesPrefix, id)
}

func (r *YAMLRepository) Create(ctx context.Context, f *file.File) error {
	exists, err := r.storage.Exists(ctx, path(f.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("file", err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, "file already exists", nil)
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal file: %w", err))
	}
	if err := r.storage.Write(ctx, path(f.ID), data); err != nil {
		return cerr.WrapStorageWriteError("file", err)
	}
	return nil
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*file.File, error) {
	data, err := r.storage.Read(ctx, path(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("file", err)
	}
	var f file.File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal file: %w", err))
	}
	return &f, nil
}

func (r *YAMLRepository) ListByProject(ctx context.Context, projectID string) ([]*file.File, error) {
	paths, err := r.storage.List(ctx, filesPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("files", err)
	}

	sort.Strings(paths)

	var files []*file.File
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var f file.File
		if err := yaml.Unmarshal(data, &f); err != nil {
			continue
		}
		if projectID != "" && f.ProjectID != projectID {
			continue
		}
		files = append(files, &f)
	}
	return files, nil
}

func (r *YAMLRepository) Update(ctx context.Context, f *file.File) error {
	exists, err := r.storage.Exists(ctx, path(f.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("file", err)
	}
	if !exists {
		return cerr.NewError(cerr.NotFound, "file not found", nil)
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal file: %w", err))
	}
	if err := r.storage.Write(ctx, path(f.ID), data); err != nil {
		return cerr.WrapStorageWriteError("file", err)
	}
	return nil
}

func (r *YAMLRepository) Delete(ctx context.Context, id string) error {
	if err := r.storage.Delete(ctx, path(id)); err != nil {
		return cerr.WrapStorageDeleteError("file", err)
	}
	return nil
}
