// Package conga implements CONGA (Cluster-Overlap Newman Girvan Algorithm),
// the divisive overlapping community detection method of Gregory (2007).
//
// Each iteration either deletes the edge with the highest betweenness or
// splits a vertex in two, whichever separates more shortest paths. Splitting
// lets one original vertex end up in several communities. Every time a
// modification disconnects the working graph, the current components are
// recorded as a cover over the original vertices. The run ends when no edges
// remain, leaving one cover per cluster count.
//
// # Usage
//
//	res, err := conga.Decompose(ctx, g, conga.Options{})
//	if err != nil {
//	    return err
//	}
//	best, err := res.OptimalCover()
//
// # Determinism
//
// Edges are scanned in ascending (U, V) order and vertices in ascending
// index order; the first maximum wins. Results are therefore reproducible
// for a given input and worker count.
//
// # Cancellation
//
// ctx is checked between iterations. An iteration in progress is never
// interrupted.
package conga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conga/pkg/betweenness"
	"github.com/matzehuels/conga/pkg/cover"
	"github.com/matzehuels/conga/pkg/graph"
	"github.com/matzehuels/conga/pkg/observability"
	"github.com/matzehuels/conga/pkg/overlap"
)

// ErrNoProgress is returned when a run exceeds the iteration bound for its
// input, which only happens if the graph invariants were broken.
var ErrNoProgress = errors.New("decomposition made no progress")

// Options configures a decomposition run.
type Options struct {
	// Measure is the modularity measure the result uses for covers without
	// an eager value. Empty selects [overlap.MeasureLazar].
	Measure overlap.Measure

	// EagerModularity computes the Newman modularity of the working graph's
	// components whenever a cover is recorded.
	EagerModularity bool

	// OptimalCount, when positive, fixes the cluster count reported as
	// optimal.
	OptimalCount int

	// Workers spreads betweenness computation over goroutines. 0 or 1 runs
	// sequentially.
	Workers int

	// Logger receives per-disconnection debug logs and the run summary at
	// info. Nil uses log.Default().
	Logger *log.Logger
}

// Step describes one iteration of the driver.
type Step struct {
	Action graph.Action
	// Clone is the new vertex when Action splits a vertex, else -1.
	Clone int
	// Disconnected reports whether the action split a component.
	Disconnected bool
	// Clusters is the cluster count after the action.
	Clusters int
	// MaxEdgeBetweenness is the highest edge betweenness before the action.
	MaxEdgeBetweenness float64
	// SplitBetweenness is the best split found, 0 when none was evaluated.
	SplitBetweenness float64
	// Edges is the number of edges left after the action.
	Edges int
}

// Decomposer runs CONGA one iteration at a time. It owns a private copy of
// the input graph; the caller's graph is never modified.
//
// A Decomposer is not safe for concurrent use. Independent runs on
// different Decomposers share no state.
type Decomposer struct {
	original *graph.Graph
	work     *graph.Graph
	opts     Options
	logger   *log.Logger

	history    *cover.History
	clusters   int
	iterations int
	limit      int
}

// New prepares a run on g and records the initial cover, one community per
// connected component.
func New(g *graph.Graph, opts Options) (*Decomposer, error) {
	if _, err := overlap.ParseMeasure(string(opts.Measure)); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	d := &Decomposer{
		original: g,
		work:     g.Clone(),
		opts:     opts,
		logger:   logger,
		history:  &cover.History{},
		// Edges are deleted once each. A split lowers the sum over vertices
		// of degree-1, which starts below 2E.
		limit: 3*g.EdgeCount() + 1,
	}

	comps := d.work.Components()
	d.clusters = len(comps)
	if err := d.record(comps); err != nil {
		return nil, err
	}
	return d, nil
}

// Done reports whether no edges remain.
func (d *Decomposer) Done() bool { return d.work.EdgeCount() == 0 }

// Clusters returns the current cluster count.
func (d *Decomposer) Clusters() int { return d.clusters }

// Iterations returns the number of completed iterations.
func (d *Decomposer) Iterations() int { return d.iterations }

// Graph returns the working graph. It must not be modified.
func (d *Decomposer) Graph() *graph.Graph { return d.work }

// Step runs one iteration: decide between deleting the highest-betweenness
// edge and splitting a vertex, apply it, and record a cover if the graph
// came apart. Calling Step when [Decomposer.Done] is true is an error.
func (d *Decomposer) Step(ctx context.Context) (Step, error) {
	if d.Done() {
		return Step{}, errors.New("decomposition already finished")
	}
	if d.iterations >= d.limit {
		return Step{}, fmt.Errorf("%w after %d iterations", ErrNoProgress, d.iterations)
	}

	step, err := d.decide(ctx)
	if err != nil {
		return Step{}, err
	}

	before := d.work.VertexCount()
	split, err := d.work.Apply(step.Action)
	if err != nil {
		return Step{}, fmt.Errorf("apply %s: %w", step.Action, err)
	}
	d.iterations++
	step.Clone = -1
	if d.work.VertexCount() > before {
		step.Clone = before
	}

	if split {
		d.clusters++
		if err := d.record(d.work.Components()); err != nil {
			return Step{}, err
		}
		d.logger.Debug("graph split",
			"clusters", d.clusters,
			"action", step.Action.Kind,
			"target", step.Action)
	}
	step.Disconnected = split
	step.Clusters = d.clusters
	step.Edges = d.work.EdgeCount()

	observability.Decompose().OnIteration(ctx, step.Action.Kind.String(), split)
	return step, nil
}

func (d *Decomposer) decide(ctx context.Context) (Step, error) {
	bopts := betweenness.Options{Workers: d.opts.Workers}
	scores, err := betweenness.Compute(ctx, d.work, bopts)
	if err != nil {
		return Step{}, err
	}
	e, maxEB, ok := scores.MaxEdge()
	if !ok {
		return Step{}, fmt.Errorf("%w: no edge to delete", graph.ErrEdgeNotFound)
	}
	step := Step{
		Action:             graph.DeleteEdge(e.U, e.V),
		MaxEdgeBetweenness: maxEB,
	}

	// Only a vertex at least as central as the busiest edge can beat it.
	candidates := scores.VerticesAtLeast(d.work, maxEB, 2)
	if len(candidates) == 0 {
		return step, nil
	}
	tables, err := betweenness.Pairs(ctx, d.work, candidates, bopts)
	if err != nil {
		return Step{}, err
	}
	best, ok := BestSplit(tables)
	if !ok {
		return step, nil
	}
	step.SplitBetweenness = best.Betweenness
	if best.Betweenness > maxEB+betweenness.Tolerance {
		step.Action = graph.SplitVertex(best.Vertex, best.Group)
	}
	return step, nil
}

func (d *Decomposer) record(comps [][]int) error {
	if err := d.history.Record(d.clusters, cover.FromComponents(d.work, comps)); err != nil {
		return err
	}
	if d.opts.EagerModularity {
		q := cover.Newman(d.work, d.work.Membership())
		if err := d.history.SetModularity(d.clusters, q); err != nil {
			return err
		}
	}
	return nil
}

// Result hands the recorded history to the evaluator.
func (d *Decomposer) Result() (*overlap.Result, error) {
	return overlap.New(d.original, d.history, d.opts.Measure, d.opts.OptimalCount)
}

// Decompose runs CONGA on g until no edges remain.
func Decompose(ctx context.Context, g *graph.Graph, opts Options) (res *overlap.Result, err error) {
	start := time.Now()
	hooks := observability.Decompose()
	hooks.OnRunStart(ctx, g.VertexCount(), g.EdgeCount())

	d, err := New(g, opts)
	if err != nil {
		hooks.OnRunComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	defer func() {
		hooks.OnRunComplete(ctx, d.clusters, d.iterations, time.Since(start), err)
	}()

	for !d.Done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := d.Step(ctx); err != nil {
			return nil, err
		}
	}

	d.logger.Info("decomposition finished",
		"vertices", d.work.VertexCount(),
		"clusters", d.clusters,
		"iterations", d.iterations,
		"duration", time.Since(start).Round(time.Millisecond))
	return d.Result()
}
