// Package pipeline runs a decomposition end to end for the CLI and the
// HTTP server.
//
// # Stages
//
//  1. Decompose: hash the graph, look the history up in the cache, run
//     CONGA on a miss and store the compressed history
//  2. Evaluate: build the [overlap.Result] and resolve the optimal count
//  3. Render: produce the requested artifacts for one cover
//  4. Record: save a [storage.Run] when a store is configured
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, store, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Graph:   g,
//	    Formats: []string{pipeline.FormatJSON, pipeline.FormatSVG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conga/pkg/betweenness"
	"github.com/matzehuels/conga/pkg/cache"
	"github.com/matzehuels/conga/pkg/errors"
	"github.com/matzehuels/conga/pkg/graph"
	congaio "github.com/matzehuels/conga/pkg/io"
	"github.com/matzehuels/conga/pkg/overlap"
)

const (
	// DefaultMaxVertices bounds input graphs accepted by the pipeline.
	DefaultMaxVertices = 5000

	// DefaultMaxEdges bounds input graphs accepted by the pipeline.
	DefaultMaxEdges = 50000

	// TTLResult is how long a decomposition history stays cached.
	TTLResult = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts stay cached.
	TTLArtifact = 24 * time.Hour
)

// Output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every supported output format.
var Formats = []string{FormatJSON, FormatCSV, FormatDOT, FormatSVG, FormatPNG, FormatPDF}

// Options configures one pipeline run.
type Options struct {
	// Graph is the input. It is never modified.
	Graph *graph.Graph `json:"-"`

	Measure         string `json:"measure,omitempty"`
	EagerModularity bool   `json:"eager_modularity,omitempty"`
	// OptimalCount fixes the optimal cluster count when positive.
	OptimalCount int `json:"optimal_count,omitempty"`
	// Workers is the betweenness worker count; 0 selects one per CPU.
	Workers int `json:"-"`
	// Refresh skips the cache lookup but still writes the new result.
	Refresh bool `json:"refresh,omitempty"`

	// Formats selects artifacts; JSON only when empty.
	Formats []string `json:"formats,omitempty"`
	// Count selects the cover to render; the optimal one when zero.
	Count   int    `json:"count,omitempty"`
	Indices bool   `json:"indices,omitempty"`
	Title   string `json:"title,omitempty"`

	MaxVertices int `json:"-"`
	MaxEdges    int `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	RunID     string
	GraphHash string

	// Result evaluates the decomposition.
	Result *overlap.Result
	// Document is the serialisable form of Result.
	Document *congaio.Document
	// RenderedCount is the cluster count the artifacts show.
	RenderedCount int
	// Artifacts maps format to rendered bytes.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	Vertices      int
	Edges         int
	DecomposeTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	DecomposeHit bool
	RenderHit    bool
}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, Formats...); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Graph == nil {
		return errors.New(errors.ErrCodeInvalidGraph, "graph is required")
	}
	if o.MaxVertices == 0 {
		o.MaxVertices = DefaultMaxVertices
	}
	if o.MaxEdges == 0 {
		o.MaxEdges = DefaultMaxEdges
	}
	if err := errors.ValidateGraphSize(o.Graph.VertexCount(), o.Graph.EdgeCount(), o.MaxVertices, o.MaxEdges); err != nil {
		return err
	}

	m, err := overlap.ParseMeasure(o.Measure)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMeasure, err, "measure %q", o.Measure)
	}
	o.Measure = string(m)

	if o.OptimalCount < 0 || o.Count < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cluster counts must not be negative")
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative")
	}
	if o.Workers == 0 {
		o.Workers = betweenness.AutoWorkers()
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	o.validated = true
	return nil
}

// ResultKeyOpts returns the cache key options for the decomposition.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{Measure: o.Measure, EagerModularity: o.EagerModularity}
}

// ArtifactKeyOpts returns the cache key options for one rendered format.
// labels are the vertex labels the drawing shows, if any.
func (o *Options) ArtifactKeyOpts(count int, format string, labels []string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Count: count, Format: format, Indices: o.Indices, Title: o.Title}
	if !o.Indices && len(labels) > 0 {
		k.Labels = cache.Hash([]byte(strings.Join(labels, "\x00")))
	}
	return k
}
