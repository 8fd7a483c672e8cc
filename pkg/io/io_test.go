package io

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/conga/pkg/conga"
	"github.com/matzehuels/conga/pkg/cover"
	"github.com/matzehuels/conga/pkg/graph"
)

func TestReadJSON(t *testing.T) {
	input := `{
		"nodes": [{"id": "a", "label": "Alice"}, {"id": "b"}, {"id": "c"}],
		"edges": [{"from": "a", "to": "b"}, {"from": "b", "to": "c"}, {"from": "c", "to": "b"}]
	}`

	g, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if g.VertexCount() != 3 {
		t.Errorf("VertexCount() = %d, want 3", g.VertexCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2 (repeated edge collapses)", g.EdgeCount())
	}
	if v, _ := g.Vertex(0); v.Label != "Alice" {
		t.Errorf("label of a = %q, want Alice", v.Label)
	}
	if v, _ := g.Vertex(1); v.Label != "b" {
		t.Errorf("label of b = %q, want the id", v.Label)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"duplicate node", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`, ErrDuplicateVertex},
		{"unknown endpoint", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"z"}]}`, ErrUnknownVertex},
		{"self-loop", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"a"}]}`, graph.ErrSelfLoop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadJSON error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("malformed JSON should fail")
	}
}

func TestReadEdgeList(t *testing.T) {
	input := `# karate fragment
1 2
2	3

1,3
3 1
`
	g, err := ReadEdgeList(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if g.VertexCount() != 3 || g.EdgeCount() != 3 {
		t.Errorf("got %d vertices, %d edges; want 3 and 3", g.VertexCount(), g.EdgeCount())
	}
	if v, _ := g.Vertex(2); v.Label != "3" {
		t.Errorf("vertex 2 label = %q, want 3", v.Label)
	}

	_, err = ReadEdgeList(strings.NewReader("1 2 3\n"))
	if !errors.Is(err, ErrMalformedLine) {
		t.Errorf("three fields: err = %v, want ErrMalformedLine", err)
	}
}

func TestReadCSV(t *testing.T) {
	g, err := ReadCSV(strings.NewReader("from,to\na,b\nb,c\n"))
	if err != nil {
		t.Fatal(err)
	}
	if g.VertexCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("got %d vertices, %d edges; want 3 and 2", g.VertexCount(), g.EdgeCount())
	}
}

func TestImportByExtension(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"g.json":  `{"nodes":[{"id":"x"},{"id":"y"}],"edges":[{"from":"x","to":"y"}]}`,
		"g.csv":   "source,target\nx,y\n",
		"g.edges": "x y\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		g, err := Import(path)
		if err != nil {
			t.Fatalf("Import(%s): %v", name, err)
		}
		if g.EdgeCount() != 1 {
			t.Errorf("Import(%s) EdgeCount() = %d, want 1", name, g.EdgeCount())
		}
	}

	if _, err := Import(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestImportExampleGraphs(t *testing.T) {
	tests := []struct {
		file            string
		vertices, edges int
	}{
		{"two_triangles.txt", 6, 7},
		{"bowtie.json", 5, 6},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			g, err := Import(filepath.Join("..", "..", "examples", "graphs", tt.file))
			if err != nil {
				t.Fatal(err)
			}
			if g.VertexCount() != tt.vertices || g.EdgeCount() != tt.edges {
				t.Errorf("got %d vertices, %d edges; want %d, %d",
					g.VertexCount(), g.EdgeCount(), tt.vertices, tt.edges)
			}
		})
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	g := graph.New(0)
	a := g.AddVertex("alice")
	b := g.AddVertex("bob")
	_ = g.AddEdge(a, b)

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatal(err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", back.EdgeCount())
	}
	if v, _ := back.Vertex(1); v.Label != "bob" {
		t.Errorf("label = %q, want bob", v.Label)
	}
}

func TestWriteResult(t *testing.T) {
	g := graph.New(6)
	for _, e := range [][2]int{{0, 1}, {1, 2}, {0, 2}, {2, 3}, {3, 4}, {4, 5}, {3, 5}} {
		_ = g.AddEdge(e[0], e[1])
	}
	res, err := conga.Decompose(context.Background(), g, conga.Options{})
	if err != nil {
		t.Fatal(err)
	}

	doc, err := NewDocument(res)
	if err != nil {
		t.Fatal(err)
	}
	doc.RunID = "run-1"

	var buf bytes.Buffer
	if err := WriteResult(&buf, doc); err != nil {
		t.Fatal(err)
	}

	var back Document
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if back.OptimalCount != 2 || back.Measure != "lazar" || back.RunID != "run-1" {
		t.Errorf("decoded document = %+v", back)
	}
	if len(back.Covers) != 6 || len(back.Covers[2]) != 2 {
		t.Errorf("covers = %v", back.Covers)
	}
}

func TestWriteCoverCSV(t *testing.T) {
	var buf bytes.Buffer
	c := cover.Cover{{0, 1}, {1, 2}}
	if err := WriteCoverCSV(&buf, c, []string{"a", "b", "c"}); err != nil {
		t.Fatal(err)
	}
	want := "vertex,community\na,0\nb,0\nb,1\nc,1\n"
	if buf.String() != want {
		t.Errorf("WriteCoverCSV =\n%s\nwant\n%s", buf.String(), want)
	}
}
