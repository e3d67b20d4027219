package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/skyras/skyras/internal/agentrun"
	"github.com/skyras/skyras/pkg/cerr"
	"github.com/skyras/skyras/pkg/storage"
)

const runsPrefix = "agent_runs"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", runsPrefix, id)
}

func (r *YAMLRepository) Create(ctx context.Context, run *agentrun.AgentRun) error {
	exists, err := r.storage.Exists(ctx, path(run.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("agent run", err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, "agent run already exists", nil)
	}
	data, err := yaml.Marshal(run)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal agent run: %w", err))
	}
	if err := r.storage.Write(ctx, path(run.ID), data); err != nil {
		return cerr.WrapStorageWriteError("agent run", err)
	}
	return nil
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*agentrun.AgentRun, error) {
	data, err := r.storage.Read(ctx, path(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("agent run", err)
	}
	var run agentrun.AgentRun
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal agent run: %w", err))
	}
	return &run, nil
}

// ListByUser returns the user's most recent runs, newest first. ULID ids
// sort chronologically, so reverse path order is creation order.
func (r *YAMLRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*agentrun.AgentRun, error) {
	paths, err := r.storage.List(ctx, runsPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("agent runs", err)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	var runs []*agentrun.AgentRun
	for _, p := range paths {
		if limit > 0 && len(runs) >= limit {
			break
		}
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var run agentrun.AgentRun
		if err := yaml.Unmarshal(data, &run); err != nil {
			continue
		}
		if userID != "" && run.UserID != userID {
			continue
		}
		runs = append(runs, &run)
	}
	return runs, nil
}
