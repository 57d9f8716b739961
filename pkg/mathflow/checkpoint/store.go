package checkpoint

import (
	"errors"
	"time"
)

// Store persists checkpoints. Implementations must be safe for concurrent
// use; the eval runner may checkpoint while a status query lists runs.
type Store interface {
	// Save stores a checkpoint, overwriting any existing (runID, nodeID)
	// entry.
	Save(runID, nodeID string, data []byte) error

	// Load retrieves a checkpoint, or ErrNotFound.
	Load(runID, nodeID string) ([]byte, error)

	// List returns checkpoint metadata for a run, ordered by sequence.
	// A run with no checkpoints yields an empty slice, not an error.
	List(runID string) ([]Info, error)

	// DeleteRun removes every checkpoint for a run. Removing a run with
	// no checkpoints is not an error.
	DeleteRun(runID string) error

	// Close releases underlying resources.
	Close() error
}

// Info is checkpoint metadata, cheap to list without loading state.
type Info struct {
	RunID     string
	NodeID    string
	Sequence  int
	Timestamp time.Time
	Size      int64
}

var (
	// ErrNotFound indicates the requested checkpoint does not exist.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrStoreClosed indicates the store was closed.
	ErrStoreClosed = errors.New("checkpoint store closed")
)
