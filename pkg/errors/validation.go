package errors

import (
	"strings"
	"unicode"
)

// ValidateLabel validates a vertex label read from user input.
//
// The validation rules are intentionally conservative:
//   - No empty labels
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidGraph, "vertex label cannot be empty")
	}

	if len(label) > 256 {
		return New(ErrCodeInvalidGraph, "vertex label too long (max 256 characters)")
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "vertex label contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates an input or output file path given on the command
// line or in a config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateFormat checks an output format against the supported set.
func ValidateFormat(format string, supported ...string) error {
	f := strings.ToLower(format)
	for _, s := range supported {
		if f == s {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(supported, ", "))
}

// ValidateGraphSize rejects graphs larger than the configured limits.
// A limit of 0 disables that check.
func ValidateGraphSize(vertices, edges, maxVertices, maxEdges int) error {
	if maxVertices > 0 && vertices > maxVertices {
		return New(ErrCodeGraphTooLarge, "graph has %d vertices (max %d)", vertices, maxVertices)
	}
	if maxEdges > 0 && edges > maxEdges {
		return New(ErrCodeGraphTooLarge, "graph has %d edges (max %d)", edges, maxEdges)
	}
	return nil
}
