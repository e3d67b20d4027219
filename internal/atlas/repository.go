package atlas

import "context"

// Repository persists one ManagerState per user.
//
// Save is a compare-and-swap: it fails with cerr.Aborted when the stored
// version differs from the version the caller read, so concurrent
// read-modify-write cycles cannot silently overwrite each other.
type Repository interface {
	Get(ctx context.Context, userID string) (*ManagerState, error)
	Save(ctx context.Context, state *ManagerState) error
}
