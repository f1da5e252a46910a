package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/trombinoscope/pkg/directory"
)

// WriteEmployees encodes list in the given format and writes it to w.
func WriteEmployees(w io.Writer, list []directory.Employee, format string) error {
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}
	if list == nil {
		list = []directory.Employee{}
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(list); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}
}

// ExportFile writes list to path, choosing the format from the extension.
func ExportFile(path string, list []directory.Employee) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteEmployees(f, list, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
