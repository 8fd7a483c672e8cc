package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/conga/pkg/cover"
	"github.com/matzehuels/conga/pkg/graph"
	"github.com/matzehuels/conga/pkg/overlap"
)

// FromGraph converts g into a node-link document. Node ids are vertex
// indices; labels are kept.
func FromGraph(g *graph.Graph) Graph {
	out := Graph{
		Nodes: make([]Node, g.VertexCount()),
	}
	for i := range out.Nodes {
		v, _ := g.Vertex(i)
		out.Nodes[i] = Node{ID: strconv.Itoa(i), Label: v.Label}
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{From: strconv.Itoa(e.U), To: strconv.Itoa(e.V)})
	}
	return out
}

// WriteJSON encodes g as node-link JSON. The output can be read back with
// [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Document is the serialised form of a decomposition result.
type Document struct {
	RunID        string              `json:"run_id,omitempty"`
	GraphHash    string              `json:"graph_hash,omitempty"`
	Measure      string              `json:"measure"`
	OptimalCount int                 `json:"optimal_count"`
	Labels       []string            `json:"labels,omitempty"`
	Covers       map[int]cover.Cover `json:"covers"`
	Modularities map[int]float64     `json:"modularities"`
}

// NewDocument collects every cover and modularity of res.
func NewDocument(res *overlap.Result) (*Document, error) {
	mods, err := res.Modularities()
	if err != nil {
		return nil, err
	}
	optimal, err := res.OptimalCount()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Measure:      string(res.Measure()),
		OptimalCount: optimal,
		Covers:       make(map[int]cover.Cover, len(mods)),
		Modularities: mods,
	}
	for _, k := range res.Counts() {
		c, _ := res.Cover(k)
		doc.Covers[k] = c
	}

	g := res.Graph()
	labelled := false
	labels := make([]string, g.VertexCount())
	for i := range labels {
		v, _ := g.Vertex(i)
		labels[i] = v.Label
		labelled = labelled || v.Label != ""
	}
	if labelled {
		doc.Labels = labels
	}
	return doc, nil
}

// WriteResult encodes doc as indented JSON.
func WriteResult(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportResult writes doc to a JSON file at path.
func ExportResult(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResult(f, doc)
}

// WriteCoverCSV writes a "vertex,community" header and one row per
// membership. Overlapping vertices get one row per community. When labels
// is non-nil the vertex column holds labels[v].
func WriteCoverCSV(w io.Writer, c cover.Cover, labels []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vertex", "community"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for ci, comm := range c {
		for _, v := range comm {
			name := strconv.Itoa(v)
			if v < len(labels) {
				name = labels[v]
			}
			if err := cw.Write([]string{name, strconv.Itoa(ci)}); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
