// Package storage persists decomposition runs.
//
// A [Run] records one call of the pipeline: the graph it ran on (by hash),
// the options, the resolved optimal count and the full cover history, so a
// run can be served again without recomputation.
//
// Backends implement [Store]:
//   - [MemoryStore]: process-local, for tests and a single server instance
//   - [FileStore]: one JSON file per run, for the CLI
//   - [MongoStore]: MongoDB, for shared deployments
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/conga/pkg/cover"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// Run is one stored decomposition.
type Run struct {
	ID              string           `json:"run_id" bson:"_id"`
	GraphHash       string           `json:"graph_hash" bson:"graph_hash"`
	Vertices        int              `json:"vertices" bson:"vertices"`
	Edges           int              `json:"edges" bson:"edges"`
	Measure         string           `json:"measure" bson:"measure"`
	EagerModularity bool             `json:"eager_modularity" bson:"eager_modularity"`
	OptimalCount    int              `json:"optimal_count" bson:"optimal_count"`
	Labels          []string         `json:"labels,omitempty" bson:"labels,omitempty"`
	Snapshots       []cover.Snapshot `json:"snapshots" bson:"snapshots"`
	CacheHit        bool             `json:"cache_hit" bson:"cache_hit"`
	CreatedAt       time.Time        `json:"created_at" bson:"created_at"`
	DurationMS      int64            `json:"duration_ms" bson:"duration_ms"`
}

// NewRunID returns a fresh random run id.
func NewRunID() string { return uuid.NewString() }

// Counts returns the cluster counts recorded by the run.
func (r *Run) Counts() []int {
	out := make([]int, len(r.Snapshots))
	for i, s := range r.Snapshots {
		out[i] = s.Count
	}
	return out
}

// History rebuilds the run's cover history.
func (r *Run) History() (*cover.History, error) {
	return cover.FromSnapshots(r.Snapshots)
}

// Store is implemented by run storage backends.
type Store interface {
	// Save inserts or replaces run by id.
	Save(ctx context.Context, run *Run) error
	// Get returns the run with id, or ErrRunNotFound.
	Get(ctx context.Context, id string) (*Run, error)
	// ListByGraph returns every run for graphHash, oldest first.
	ListByGraph(ctx context.Context, graphHash string) ([]*Run, error)
	// Close releases backend resources.
	Close() error
}

// validate rejects runs that cannot be addressed.
func validate(run *Run) error {
	if run == nil || run.ID == "" {
		return errors.New("run id is required")
	}
	return nil
}
