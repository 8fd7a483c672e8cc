package cli

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/conga/pkg/errors"
	"github.com/matzehuels/conga/pkg/graph"
	congaio "github.com/matzehuels/conga/pkg/io"
	"github.com/matzehuels/conga/pkg/pipeline"
)

// loadGraph reads a graph file and tags failures with a user-facing code.
func loadGraph(path string) (*graph.Graph, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	g, err := congaio.Import(path)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s not found", path)
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "read %s", path)
	}
	return g, nil
}

// formatFromExt returns the output format implied by path's extension,
// or "" when it names none.
func formatFromExt(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if slices.Contains(pipeline.Formats, ext) {
		return ext
	}
	return ""
}

// outputFormats resolves the artifact formats from --output and --format.
// Without --format the output extension decides; with neither nothing is
// written.
func outputFormats(output, formats string) ([]string, error) {
	list := parseFormats(formats)
	if len(list) == 0 && output != "" {
		f := formatFromExt(output)
		if f == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"cannot infer format from %q; use --format (%s)", output, strings.Join(pipeline.Formats, ", "))
		}
		list = []string{f}
	}
	if err := pipeline.ValidateFormats(list); err != nil {
		return nil, err
	}
	return list, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .json, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if ext := filepath.Ext(output); formatFromExt(output) != "" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns where the artifact in format goes. A single format
// written to an explicit output path uses that path verbatim.
func outputPath(output, input, format string, single bool) string {
	if single && output != "" && formatFromExt(output) == format {
		return output
	}
	return basePath(output, input) + "." + format
}

// writeArtifacts writes every requested artifact and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		path := outputPath(output, input, f, len(formats) == 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
