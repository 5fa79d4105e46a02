// Package store persists decomposition reports so runs can be listed and
// fetched again later.
//
// Backends:
//   - [MemoryStore]: process-local, for tests and the default server mode
//   - [FileStore]: one JSON file per run, used by the CLI
//   - [MongoStore]: shared history for HTTP deployments
package store

import (
	"context"
	"errors"
	"time"

	pkgio "github.com/matzehuels/modgraph/pkg/io"
)

// ErrNotFound is returned by [Store.Get] when no run has the given ID.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit bounds [Store.List] when the caller passes zero.
const DefaultListLimit = 50

// Summary is the listing view of a stored run.
type Summary struct {
	RunID      string    `json:"run_id" bson:"run_id"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	Nodes      int       `json:"nodes" bson:"nodes"`
	Modules    int       `json:"modules" bson:"modules"`
	Iterations int       `json:"iterations" bson:"iterations"`
	Merges     int       `json:"merges" bson:"merges"`
}

// Summarize builds the listing view of r.
func Summarize(r *pkgio.Report) Summary {
	return Summary{
		RunID:      r.RunID,
		CreatedAt:  r.CreatedAt,
		Nodes:      len(r.Graph.Nodes),
		Modules:    r.Modules,
		Iterations: r.Iterations,
		Merges:     r.Merges,
	}
}

// Store is the interface for run history backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores r under r.RunID, replacing any earlier run with that ID.
	Save(ctx context.Context, r *pkgio.Report) error

	// Get returns the run with the given ID or ErrNotFound.
	Get(ctx context.Context, runID string) (*pkgio.Report, error)

	// List returns up to limit runs, newest first. A limit of zero means
	// DefaultListLimit.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Delete removes a run. Deleting a missing run is not an error.
	Delete(ctx context.Context, runID string) error

	// Close releases resources held by the store.
	Close() error
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
