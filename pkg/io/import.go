package io

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/conga/pkg/graph"
)

var (
	// ErrDuplicateVertex is returned when a node id appears twice.
	ErrDuplicateVertex = errors.New("duplicate vertex id")

	// ErrUnknownVertex is returned when an edge references an undeclared node.
	ErrUnknownVertex = errors.New("unknown vertex id")

	// ErrMalformedLine is returned for edge list lines that are not a pair.
	ErrMalformedLine = errors.New("malformed edge line")
)

// Graph is the node-link document shared by JSON files and API requests.
type Graph struct {
	Nodes []Node `json:"nodes" validate:"required,min=1,dive"`
	Edges []Edge `json:"edges" validate:"dive"`
}

// Node is a vertex declaration.
type Node struct {
	ID    string `json:"id" validate:"required,max=256"`
	Label string `json:"label,omitempty" validate:"max=256"`
}

// Edge is an undirected edge between two node ids.
type Edge struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// Build converts the document into a graph. Vertices are numbered in
// declaration order; a node without a label is labelled with its id.
func (d Graph) Build() (*graph.Graph, error) {
	g := graph.New(0)
	index := make(map[string]int, len(d.Nodes))
	for _, n := range d.Nodes {
		if _, dup := index[n.ID]; dup {
			return nil, fmt.Errorf("node %s: %w", n.ID, ErrDuplicateVertex)
		}
		label := n.Label
		if label == "" {
			label = n.ID
		}
		index[n.ID] = g.AddVertex(label)
	}
	for _, e := range d.Edges {
		u, ok := index[e.From]
		if !ok {
			return nil, fmt.Errorf("edge %s-%s: %w: %s", e.From, e.To, ErrUnknownVertex, e.From)
		}
		v, ok := index[e.To]
		if !ok {
			return nil, fmt.Errorf("edge %s-%s: %w: %s", e.From, e.To, ErrUnknownVertex, e.To)
		}
		if err := addSimple(g, u, v); err != nil {
			return nil, fmt.Errorf("edge %s-%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// ReadJSON decodes a node-link JSON graph from r.
//
// ReadJSON returns an error if the JSON is malformed, a node id repeats, an
// edge references an unknown id or an edge is a self-loop. ReadJSON does
// not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return data.Build()
}

// ReadEdgeList reads whitespace-separated "u v" lines from r. Blank lines
// and lines starting with "#" are skipped. Commas are accepted as
// separators too.
func ReadEdgeList(r io.Reader) (*graph.Graph, error) {
	b := newTokenGraph()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: %w: expected 2 fields, got %d", line, ErrMalformedLine, len(fields))
		}
		if err := b.add(fields[0], fields[1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return b.g, nil
}

// ReadCSV reads a two-column CSV edge list. A first row of "from,to" (or
// "source,target") is treated as a header.
func ReadCSV(r io.Reader) (*graph.Graph, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) > 0 && isHeader(records[0]) {
		records = records[1:]
	}

	b := newTokenGraph()
	for i, rec := range records {
		if len(rec) != 2 {
			return nil, fmt.Errorf("line %d: %w: expected 2 columns, got %d", i+1, ErrMalformedLine, len(rec))
		}
		if err := b.add(strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return b.g, nil
}

// Import reads the graph at path, choosing the reader by extension: .json
// for node-link JSON, .csv for CSV, anything else as a whitespace edge list.
func Import(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON(f)
	case ".csv":
		return ReadCSV(f)
	default:
		return ReadEdgeList(f)
	}
}

func isHeader(rec []string) bool {
	if len(rec) != 2 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return first == "from" || first == "source" || first == "u"
}

// tokenGraph numbers vertex tokens in first-seen order.
type tokenGraph struct {
	g     *graph.Graph
	index map[string]int
}

func newTokenGraph() *tokenGraph {
	return &tokenGraph{g: graph.New(0), index: make(map[string]int)}
}

func (b *tokenGraph) vertex(tok string) int {
	if v, ok := b.index[tok]; ok {
		return v
	}
	v := b.g.AddVertex(tok)
	b.index[tok] = v
	return v
}

func (b *tokenGraph) add(from, to string) error {
	return addSimple(b.g, b.vertex(from), b.vertex(to))
}

func addSimple(g *graph.Graph, u, v int) error {
	if u != v && g.Multiplicity(u, v) > 0 {
		return nil
	}
	return g.AddEdge(u, v)
}
