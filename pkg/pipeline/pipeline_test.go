package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conga/pkg/cache"
	"github.com/matzehuels/conga/pkg/errors"
	"github.com/matzehuels/conga/pkg/graph"
	congaio "github.com/matzehuels/conga/pkg/io"
	"github.com/matzehuels/conga/pkg/storage"
)

// twoTriangles is two triangles joined by the bridge 2-3.
func twoTriangles() *graph.Graph {
	g := graph.New(0)
	for _, l := range []string{"a", "b", "c", "d", "e", "f"} {
		g.AddVertex(l)
	}
	for _, e := range [][2]int{{0, 1}, {0, 2}, {1, 2}, {2, 3}, {3, 4}, {3, 5}, {4, 5}} {
		_ = g.AddEdge(e[0], e[1])
	}
	return g
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(&strings.Builder{}, log.Options{})
}

func TestValidateAndSetDefaults(t *testing.T) {
	big := graph.New(10)

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing graph", Options{}, errors.ErrCodeInvalidGraph},
		{"unknown measure", Options{Graph: twoTriangles(), Measure: "newman"}, errors.ErrCodeInvalidMeasure},
		{"unknown format", Options{Graph: twoTriangles(), Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"too large", Options{Graph: big, MaxVertices: 5}, errors.ErrCodeGraphTooLarge},
		{"negative count", Options{Graph: twoTriangles(), Count: -1}, errors.ErrCodeInvalidInput},
		{"negative workers", Options{Graph: twoTriangles(), Workers: -2}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Graph: twoTriangles()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Measure != "lazar" {
		t.Errorf("Measure = %q, want lazar", opts.Measure)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Workers < 1 {
		t.Errorf("Workers = %d, want at least 1", opts.Workers)
	}
	if opts.Logger != nil {
		t.Error("Logger should stay nil so the runner can supply its own")
	}

	opts.Measure = "bogus"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op, got %v", err)
	}
}

func TestHashGraph(t *testing.T) {
	a := twoTriangles()
	b := twoTriangles()
	_ = b.SetLabel(0, "renamed")
	if HashGraph(a) != HashGraph(b) {
		t.Error("labels should not change the hash")
	}
	_ = b.DeleteEdge(2, 3)
	if HashGraph(a) == HashGraph(b) {
		t.Error("structure should change the hash")
	}
	if HashGraph(graph.New(3)) == HashGraph(graph.New(4)) {
		t.Error("isolated vertices should change the hash")
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store := storage.NewMemoryStore()
	r := NewRunner(fc, nil, store, quietLogger())
	defer r.Close()

	opts := Options{Graph: twoTriangles(), Workers: 1, Formats: []string{FormatJSON, FormatCSV, FormatDOT}}
	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.DecomposeHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if first.RenderedCount != 2 {
		t.Errorf("RenderedCount = %d, want 2", first.RenderedCount)
	}

	var doc congaio.Document
	if err := json.Unmarshal(first.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatal(err)
	}
	if doc.RunID != first.RunID || doc.GraphHash != first.GraphHash || doc.OptimalCount != 2 {
		t.Errorf("document header = %+v", doc)
	}
	if len(doc.Covers) != 6 {
		t.Errorf("document has %d covers, want 6", len(doc.Covers))
	}
	if !strings.HasPrefix(string(first.Artifacts[FormatCSV]), "vertex,community\na,0\n") {
		t.Errorf("CSV = %q", first.Artifacts[FormatCSV])
	}
	if !strings.Contains(string(first.Artifacts[FormatDOT]), "graph G {") {
		t.Errorf("DOT = %q", first.Artifacts[FormatDOT])
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.DecomposeHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if second.RunID == first.RunID {
		t.Error("every execution gets a new run id")
	}
	if got, want := second.Result.Counts(), first.Result.Counts(); len(got) != len(want) {
		t.Errorf("cached counts = %v, want %v", got, want)
	}

	runs, err := store.ListByGraph(ctx, first.GraphHash)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].CacheHit == runs[1].CacheHit {
		t.Fatalf("stored runs = %+v, want 2 with one cache hit", runs)
	}
	h, err := runs[0].History()
	if err != nil {
		t.Fatal(err)
	}
	if h.Len() != 6 {
		t.Errorf("stored history len = %d, want 6", h.Len())
	}
}

func TestExecuteRefresh(t *testing.T) {
	ctx := context.Background()
	fc, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(fc, nil, nil, quietLogger())

	opts := Options{Graph: twoTriangles()}
	if _, err := r.Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}
	refreshed, err := r.Execute(ctx, Options{Graph: twoTriangles(), Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.DecomposeHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestExecuteCorruptCacheEntry(t *testing.T) {
	ctx := context.Background()
	fc, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(fc, nil, nil, quietLogger())

	g := twoTriangles()
	opts := Options{Graph: g}
	_ = opts.ValidateAndSetDefaults()
	key := r.Keyer.ResultKey(HashGraph(g), opts.ResultKeyOpts())
	_ = fc.Set(ctx, key, []byte("garbage"), 0)

	res, err := r.Execute(ctx, Options{Graph: g})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.DecomposeHit {
		t.Error("unreadable entry should be recomputed")
	}
}

func TestExecuteCountSelection(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil, quietLogger())

	res, err := r.Execute(ctx, Options{Graph: twoTriangles(), Count: 3, Formats: []string{FormatCSV}})
	if err != nil {
		t.Fatal(err)
	}
	if res.RenderedCount != 3 {
		t.Errorf("RenderedCount = %d, want 3", res.RenderedCount)
	}

	_, err = r.Execute(ctx, Options{Graph: twoTriangles(), Count: 42})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing count error = %v, want INVALID_INPUT", err)
	}

	_, err = r.Execute(ctx, Options{Graph: twoTriangles(), OptimalCount: 42})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unreached optimal count error = %v, want INVALID_INPUT", err)
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, nil, quietLogger())

	_, err := r.Execute(ctx, Options{Graph: twoTriangles()})
	if errors.GetCode(err) != errors.ErrCodeCanceled {
		t.Errorf("error = %v, want CANCELED", err)
	}
}

func TestExecuteRelabelledGraph(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil, quietLogger())
	defer r.Close()

	first, err := r.Execute(ctx, Options{Graph: twoTriangles(), Workers: 1, Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}

	g := twoTriangles()
	for i, l := range []string{"alice", "bob", "carol", "dave", "erin", "frank"} {
		_ = g.SetLabel(i, l)
	}
	second, err := r.Execute(ctx, Options{Graph: g, Workers: 1, Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if second.GraphHash != first.GraphHash || !second.CacheInfo.DecomposeHit {
		t.Errorf("relabelled graph should reuse the decomposition, CacheInfo = %+v", second.CacheInfo)
	}
	if second.CacheInfo.RenderHit {
		t.Error("relabelled graph must not reuse the cached drawing")
	}
	dot := string(second.Artifacts[FormatDOT])
	if !strings.Contains(dot, `label="alice"`) || strings.Contains(dot, `label="a"`) {
		t.Errorf("DOT shows stale labels:\n%s", dot)
	}

	third, err := r.Execute(ctx, Options{Graph: g, Workers: 1, Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheInfo.RenderHit {
		t.Error("same labels should hit the drawing cache")
	}
}

func TestArtifactKeyOptsLabels(t *testing.T) {
	opts := Options{}
	a := opts.ArtifactKeyOpts(2, FormatSVG, []string{"a", "b"})
	b := opts.ArtifactKeyOpts(2, FormatSVG, []string{"a", "c"})
	if a.Labels == "" || a.Labels == b.Labels {
		t.Errorf("label digests = %q, %q, want distinct", a.Labels, b.Labels)
	}
	if got := opts.ArtifactKeyOpts(2, FormatSVG, nil); got.Labels != "" {
		t.Errorf("unlabelled digest = %q, want empty", got.Labels)
	}

	opts.Indices = true
	if got := opts.ArtifactKeyOpts(2, FormatSVG, []string{"a", "b"}); got.Labels != "" {
		t.Errorf("index drawings ignore labels, got %q", got.Labels)
	}
}

func TestRunnerLoggerReachesDecomposition(t *testing.T) {
	var buf strings.Builder
	r := NewRunner(nil, nil, nil, log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	if _, err := r.Execute(context.Background(), Options{Graph: twoTriangles(), Workers: 1}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"graph split", "decomposition finished", "decomposed graph"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("runner log missing %q:\n%s", want, buf.String())
		}
	}
}
