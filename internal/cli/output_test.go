package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/conga/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "json,csv,svg", []string{"json", "csv", "svg"}},
		{"spaces and case", " SVG , pdf ,", []string{"svg", "pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputFormats(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		formats  string
		want     []string
		wantCode errors.Code
	}{
		{"nothing requested", "", "", nil, ""},
		{"extension decides", "out/karate.svg", "", []string{"svg"}, ""},
		{"flag wins over extension", "karate.svg", "json,csv", []string{"json", "csv"}, ""},
		{"unknown extension", "karate.txt", "", nil, errors.ErrCodeInvalidFormat},
		{"unknown format", "", "gif", nil, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputFormats(tt.output, tt.formats)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("err = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("outputFormats() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "graphs/karate.txt", "graphs/karate"},
		{"out/club.svg", "karate.txt", "out/club"},
		{"out/club", "karate.txt", "out/club"},
		{"out/club.v2", "karate.txt", "out/club.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("club.svg", "karate.txt", "svg", true); got != "club.svg" {
		t.Errorf("single explicit output = %q", got)
	}
	if got := outputPath("club.svg", "karate.txt", "json", false); got != "club.json" {
		t.Errorf("multi-format output = %q", got)
	}
	if got := outputPath("", "data/karate.txt", "csv", true); got != "data/karate.csv" {
		t.Errorf("derived output = %q", got)
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		"json": []byte(`{}`),
		"csv":  []byte("vertex,community\n"),
	}

	paths, err := writeArtifacts(artifacts, []string{"json", "csv", "svg"}, filepath.Join(dir, "sub", "club"), "karate.txt")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "sub", "club.json"), filepath.Join(dir, "sub", "club.csv")}
	if !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(want[1])
	if err != nil || string(data) != "vertex,community\n" {
		t.Errorf("csv = %q, %v", data, err)
	}
}

func TestLoadGraph(t *testing.T) {
	dir := t.TempDir()

	if _, err := loadGraph(filepath.Join(dir, "missing.txt")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v, want FILE_NOT_FOUND", err)
	}

	bad := filepath.Join(dir, "loop.txt")
	if err := os.WriteFile(bad, []byte("a a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadGraph(bad); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("self-loop: err = %v, want INVALID_GRAPH", err)
	}

	good := writeTwoTriangles(t, dir)
	g, err := loadGraph(good)
	if err != nil {
		t.Fatal(err)
	}
	if g.VertexCount() != 6 || g.EdgeCount() != 7 {
		t.Errorf("graph = %d vertices, %d edges", g.VertexCount(), g.EdgeCount())
	}
}
