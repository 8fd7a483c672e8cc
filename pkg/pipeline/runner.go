package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conga/pkg/cache"
	"github.com/matzehuels/conga/pkg/conga"
	"github.com/matzehuels/conga/pkg/cover"
	"github.com/matzehuels/conga/pkg/errors"
	"github.com/matzehuels/conga/pkg/graph"
	congaio "github.com/matzehuels/conga/pkg/io"
	"github.com/matzehuels/conga/pkg/overlap"
	"github.com/matzehuels/conga/pkg/storage"
)

// Runner executes the pipeline with caching and optional run storage.
// Both the CLI and the server use it.
//
// A Runner holds no per-run state; one Runner can serve concurrent
// Execute calls.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  storage.Store
	Logger *log.Logger

	// ResultTTL overrides TTLResult when positive.
	ResultTTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means [cache.DefaultKeyer] and a nil store skips run recording.
func NewRunner(c cache.Cache, keyer cache.Keyer, store storage.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Store: store, Logger: logger}
}

// Execute runs decompose, evaluate, render and record.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	g := opts.Graph
	result := &Result{
		RunID:     storage.NewRunID(),
		GraphHash: HashGraph(g),
		Stats:     Stats{Vertices: g.VertexCount(), Edges: g.EdgeCount()},
	}

	start := time.Now()
	res, hit, err := r.DecomposeWithCacheInfo(ctx, opts, result.GraphHash)
	if err != nil {
		return nil, err
	}
	result.Result = res
	result.Stats.DecomposeTime = time.Since(start)
	result.CacheInfo.DecomposeHit = hit

	r.Logger.Info("decomposed graph",
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount(),
		"covers", len(res.Counts()),
		"cached", hit,
		"duration", result.Stats.DecomposeTime.Round(time.Millisecond))

	doc, err := congaio.NewDocument(res)
	if err != nil {
		return nil, classify(err, "evaluate")
	}
	doc.RunID = result.RunID
	doc.GraphHash = result.GraphHash
	result.Document = doc

	count := opts.Count
	if count == 0 {
		count = doc.OptimalCount
	}
	if _, ok := res.Cover(count); !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no cover with %d clusters (have %v)", count, res.Counts())
	}
	result.RenderedCount = count

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, doc, count, result.GraphHash, opts)
	if err != nil {
		return nil, classify(err, "render")
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"count", count,
		"duration", result.Stats.RenderTime)

	if r.Store != nil {
		run := &storage.Run{
			ID:              result.RunID,
			GraphHash:       result.GraphHash,
			Vertices:        g.VertexCount(),
			Edges:           g.EdgeCount(),
			Measure:         opts.Measure,
			EagerModularity: opts.EagerModularity,
			OptimalCount:    doc.OptimalCount,
			Labels:          doc.Labels,
			Snapshots:       res.History().Snapshots(),
			CacheHit:        hit,
			CreatedAt:       start.UTC(),
			DurationMS:      result.Stats.DecomposeTime.Milliseconds(),
		}
		if err := r.Store.Save(ctx, run); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "save run")
		}
	}
	return result, nil
}

// DecomposeWithCacheInfo returns the evaluated decomposition of
// opts.Graph and whether it came from the cache. graphHash must be
// HashGraph(opts.Graph).
func (r *Runner) DecomposeWithCacheInfo(ctx context.Context, opts Options, graphHash string) (*overlap.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	measure := overlap.Measure(opts.Measure)
	key := r.Keyer.ResultKey(graphHash, opts.ResultKeyOpts())
	rc := cache.Observed(r.Cache, "result")

	if !opts.Refresh {
		if data, hit, err := rc.Get(ctx, key); err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		} else if hit {
			res, err := decodeResult(opts.Graph, data, measure, opts.OptimalCount)
			if err == nil {
				return res, true, nil
			}
			r.Logger.Warn("discarding unreadable cache entry", "key", key, "error", err)
		}
	}

	res, err := conga.Decompose(ctx, opts.Graph, conga.Options{
		Measure:         measure,
		EagerModularity: opts.EagerModularity,
		OptimalCount:    opts.OptimalCount,
		Workers:         opts.Workers,
		Logger:          opts.Logger,
	})
	if err != nil {
		return nil, false, classify(err, "decompose")
	}

	if data, err := json.Marshal(res.History().Snapshots()); err == nil {
		if err := rc.Set(ctx, key, cache.Compress(data), r.resultTTL()); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		}
	}
	return res, false, nil
}

// Decompose is DecomposeWithCacheInfo without the cache hit flag.
func (r *Runner) Decompose(ctx context.Context, opts Options) (*overlap.Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	res, _, err := r.DecomposeWithCacheInfo(ctx, opts, HashGraph(opts.Graph))
	return res, err
}

// RenderWithCacheInfo renders the cover at count in every requested
// format. Drawings are cached by graph hash and labels; JSON and CSV embed run
// metadata and are always produced fresh. The hit flag is true when every
// drawing came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *overlap.Result, doc *congaio.Document, count int, graphHash string, opts Options) (map[string][]byte, bool, error) {
	ac := cache.Observed(r.Cache, "artifact")
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	drawings := 0
	for _, f := range opts.Formats {
		if !isDrawing(f) {
			continue
		}
		drawings++
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(count, f, doc.Labels))
		if data, hit, err := ac.Get(ctx, key); err == nil && hit {
			artifacts[f] = data
		} else {
			missing = append(missing, f)
		}
	}

	var fresh []string
	for _, f := range opts.Formats {
		if _, ok := artifacts[f]; !ok {
			fresh = append(fresh, f)
		}
	}
	rendered, err := Render(ctx, res, doc, count, fresh, opts)
	if err != nil {
		return nil, false, err
	}
	for f, data := range rendered {
		artifacts[f] = data
	}
	for _, f := range missing {
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(count, f, doc.Labels))
		if err := ac.Set(ctx, key, artifacts[f], TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", f, "error", err)
		}
	}
	return artifacts, drawings > 0 && len(missing) == 0, nil
}

func (r *Runner) resultTTL() time.Duration {
	if r.ResultTTL > 0 {
		return r.ResultTTL
	}
	return TTLResult
}

// Close releases the cache and the store.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	return stderrors.Join(errs...)
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// HashGraph returns the content hash of g's structure: its vertex count
// and sorted edge list. Labels do not contribute.
func HashGraph(g *graph.Graph) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "v %d\n", g.VertexCount())
	edges := g.Edges()
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}
		return edges[i].V < edges[j].V
	})
	for _, e := range edges {
		fmt.Fprintf(&buf, "%d %d\n", e.U, e.V)
	}
	return cache.Hash(buf.Bytes())
}

func decodeResult(g *graph.Graph, data []byte, measure overlap.Measure, optimal int) (*overlap.Result, error) {
	raw, err := cache.Decompress(data)
	if err != nil {
		return nil, err
	}
	var snaps []cover.Snapshot
	if err := json.Unmarshal(raw, &snaps); err != nil {
		return nil, err
	}
	h, err := cover.FromSnapshots(snaps)
	if err != nil {
		return nil, err
	}
	return overlap.New(g, h, measure, optimal)
}

// classify maps domain errors to coded errors for the outer layers.
func classify(err error, stage string) error {
	switch {
	case errors.GetCode(err) != "":
		return err
	case stderrors.Is(err, overlap.ErrUnknownMeasure):
		return errors.Wrap(errors.ErrCodeInvalidMeasure, err, "%s", stage)
	case stderrors.Is(err, overlap.ErrNoCover):
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", stage)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "%s", stage)
}
