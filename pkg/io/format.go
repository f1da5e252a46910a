package io

import (
	"path/filepath"
	"strings"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

// Supported encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath derives the encoding from a file extension. Unknown
// extensions default to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", terrors.New(terrors.ErrCodeInvalidFormat, "unsupported format %q (want json or yaml)", s)
	}
}
