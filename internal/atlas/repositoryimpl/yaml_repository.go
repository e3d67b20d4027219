package repositoryimpl

import (
	"context"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/skyras/skyras/internal/atlas"
	"github.com/skyras/skyras/pkg/cerr"
	"github.com/skyras/skyras/pkg/storage"
)

const statesPrefix = "pm_states"

type YAMLRepository struct {
	storage storage.Storage
	mu      sync.Mutex // serializes Save's check-then-write
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(userID string) string {
	return fmt.Sprintf("%s/%s.yaml", statesPrefix, userID)
}

func (r *YAMLRepository) Get(ctx context.Context, userID string) (*atlas.ManagerState, error) {
	data, err := r.storage.Read(ctx, path(userID))
	if err != nil {
		return nil, cerr.WrapStorageReadError("pm state", err)
	}
	var state atlas.ManagerState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal pm state: %w", err))
	}
	return &state, nil
}

// Save writes the state only if the stored version still equals the version
// the caller read. The version is bumped on every successful write.
//
// The check-then-write is serialized in-process; it closes the lost update
// window for concurrent requests within one server, which is the expected
// deployment.
func (r *YAMLRepository) Save(ctx context.Context, state *atlas.ManagerState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.Get(ctx, state.UserID)
	if err != nil && !cerr.IsCode(err, cerr.NotFound) {
		return err
	}
	if stored != nil && stored.Version != state.Version {
		return cerr.NewError(cerr.Aborted, "pm state was modified concurrently", nil)
	}

	next := *state
	next.Version = state.Version + 1
	data, err := yaml.Marshal(&next)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal pm state: %w", err))
	}
	if err := r.storage.Write(ctx, path(state.UserID), data); err != nil {
		return cerr.WrapStorageWriteError("pm state", err)
	}
	state.Version = next.Version
	return nil
}
