package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/trombinoscope/pkg/directory"
	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

// ReadEmployees decodes an employee array from r in the given format.
// ReadEmployees does not close r.
func ReadEmployees(r io.Reader, format string) ([]directory.Employee, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return DecodeEmployees(data, format)
}

// DecodeEmployees decodes an employee array held in memory.
func DecodeEmployees(data []byte, format string) ([]directory.Employee, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []directory.Employee{}, nil
	}

	var list []directory.Employee
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &list)
	default:
		err = json.Unmarshal(data, &list)
	}
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInvalidFormat, err, "decode %s employee list", format)
	}
	if list == nil {
		list = []directory.Employee{}
	}
	return list, nil
}

// ImportFile reads the employee file at path, choosing the format from the
// extension.
func ImportFile(path string) ([]directory.Employee, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, terrors.Wrap(terrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	list, err := ReadEmployees(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}
