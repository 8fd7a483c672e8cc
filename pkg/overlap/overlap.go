// Package overlap evaluates the covers a decomposition produced.
//
// A [Result] pairs the original graph with the run's [cover.History] and
// answers the two questions callers ask of it: which cover exists at a given
// cluster count, and which count is optimal under the configured modularity
// measure. Modularity values recorded eagerly during the run are used as-is;
// the rest are computed on first request and memoised.
package overlap

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/matzehuels/conga/pkg/cover"
	"github.com/matzehuels/conga/pkg/graph"
)

var (
	// ErrUnknownMeasure is returned for an unsupported modularity measure name.
	ErrUnknownMeasure = errors.New("unknown modularity measure")

	// ErrNoCover is returned when no cover exists at the requested count.
	ErrNoCover = errors.New("no cover at cluster count")
)

// Measure names a modularity function for overlapping covers.
type Measure string

// MeasureLazar is the overlapping modularity of Lazar, Abel and Vicsek.
const MeasureLazar Measure = "lazar"

// Measures lists the supported measure names.
var Measures = []Measure{MeasureLazar}

// ParseMeasure validates a measure name. The empty string selects
// [MeasureLazar].
func ParseMeasure(s string) (Measure, error) {
	switch Measure(s) {
	case "", MeasureLazar:
		return MeasureLazar, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMeasure, s)
}

func (m Measure) score(g *graph.Graph, c cover.Cover) float64 {
	switch m {
	case MeasureLazar:
		return cover.Lazar(g, c)
	}
	return math.NaN()
}

// Result is the outcome of one decomposition. It is safe for concurrent use.
type Result struct {
	original *graph.Graph
	history  *cover.History
	measure  Measure
	optimal  int

	mu   sync.Mutex
	memo map[int]float64
}

// New builds a Result. original is the caller's input graph; optimalCount,
// when positive, fixes the optimal count instead of maximising modularity.
func New(original *graph.Graph, h *cover.History, measure Measure, optimalCount int) (*Result, error) {
	m, err := ParseMeasure(string(measure))
	if err != nil {
		return nil, err
	}
	if h == nil {
		h = &cover.History{}
	}
	return &Result{
		original: original,
		history:  h,
		measure:  m,
		optimal:  optimalCount,
		memo:     make(map[int]float64),
	}, nil
}

// Graph returns the original input graph.
func (r *Result) Graph() *graph.Graph { return r.original }

// History returns the recorded decomposition history.
func (r *Result) History() *cover.History { return r.history }

// Measure returns the configured modularity measure.
func (r *Result) Measure() Measure { return r.measure }

// Counts returns the cluster counts with a recorded cover, ascending.
func (r *Result) Counts() []int { return r.history.Counts() }

// Cover returns the cover at cluster count k.
func (r *Result) Cover(k int) (cover.Cover, bool) { return r.history.Cover(k) }

// Modularity returns the modularity of the cover at count k: the eager value
// when the run recorded one, otherwise the configured measure on the
// original graph.
func (r *Result) Modularity(k int) (float64, error) {
	if q, ok := r.history.Modularity(k); ok {
		return q, nil
	}
	c, ok := r.history.Cover(k)
	if !ok {
		return 0, fmt.Errorf("%w %d", ErrNoCover, k)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.memo[k]; ok {
		return q, nil
	}
	q := r.measure.score(r.original, c)
	r.memo[k] = q
	return q, nil
}

// Modularities returns the modularity of every recorded cover keyed by count.
func (r *Result) Modularities() (map[int]float64, error) {
	out := make(map[int]float64, r.history.Len())
	for _, k := range r.history.Counts() {
		q, err := r.Modularity(k)
		if err != nil {
			return nil, err
		}
		out[k] = q
	}
	return out, nil
}

// OptimalCount returns the configured count if one was given, otherwise the
// count whose cover scores highest. Ties go to the smallest count.
func (r *Result) OptimalCount() (int, error) {
	if r.optimal > 0 {
		if _, ok := r.history.Cover(r.optimal); !ok {
			return 0, fmt.Errorf("%w %d", ErrNoCover, r.optimal)
		}
		return r.optimal, nil
	}

	best, bestQ := 0, math.Inf(-1)
	for _, k := range r.history.Counts() {
		q, err := r.Modularity(k)
		if err != nil {
			return 0, err
		}
		if q > bestQ {
			best, bestQ = k, q
		}
	}
	if best == 0 {
		return 0, fmt.Errorf("%w: history is empty", ErrNoCover)
	}
	return best, nil
}

// OptimalCover returns the cover at [Result.OptimalCount].
func (r *Result) OptimalCover() (cover.Cover, error) {
	k, err := r.OptimalCount()
	if err != nil {
		return nil, err
	}
	c, _ := r.history.Cover(k)
	return c, nil
}
