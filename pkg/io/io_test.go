package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/trombinoscope/pkg/directory"
	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

const sampleJSON = `[
  {"id": 1, "lienHierarchique": null, "prenom": "Alice", "nom": "Martin", "poste": "CEO",
   "photo": "/assets/images/photo_1.webp", "dateNaissance": "1970-03-12", "niveauHierarchique": 1},
  {"id": 2, "lienHierarchique": 1, "prenom": "Bob", "nom": "Durand", "poste": "CTO",
   "dateNaissance": "1980-07-01"}
]`

const sampleYAML = `
- id: 1
  lienHierarchique: null
  prenom: Alice
  nom: Martin
  poste: CEO
  photo: /assets/images/photo_1.webp
  dateNaissance: "1970-03-12"
  niveauHierarchique: 1
- id: 2
  lienHierarchique: 1
  prenom: Bob
  nom: Durand
  poste: CTO
  dateNaissance: "1980-07-01"
`

func sample() []directory.Employee {
	return []directory.Employee{
		{ID: 1, FirstName: "Alice", LastName: "Martin", Title: "CEO", Photo: "/assets/images/photo_1.webp", BirthDate: "1970-03-12", Level: directory.IntPtr(1)},
		{ID: 2, ParentID: directory.IntPtr(1), FirstName: "Bob", LastName: "Durand", Title: "CTO", BirthDate: "1980-07-01"},
	}
}

func TestReadEmployees(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format string
	}{
		{"json", sampleJSON, FormatJSON},
		{"yaml", sampleYAML, FormatYAML},
		{"yml alias", sampleYAML, "yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadEmployees(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("ReadEmployees() error: %v", err)
			}
			if !reflect.DeepEqual(got, sample()) {
				t.Errorf("ReadEmployees() = %+v, want %+v", got, sample())
			}
		})
	}
}

func TestReadEmployeesEmpty(t *testing.T) {
	for _, input := range []string{"", "  \n", "[]"} {
		got, err := ReadEmployees(strings.NewReader(input), FormatJSON)
		if err != nil {
			t.Fatalf("ReadEmployees(%q) error: %v", input, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("ReadEmployees(%q) = %#v, want empty list", input, got)
		}
	}
}

func TestReadEmployeesErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format string
		code   terrors.Code
	}{
		{"malformed json", `[{"id": }]`, FormatJSON, terrors.ErrCodeInvalidFormat},
		{"object instead of array", `{"id": 1}`, FormatJSON, terrors.ErrCodeInvalidFormat},
		{"unknown format", sampleJSON, "xml", terrors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadEmployees(strings.NewReader(tt.input), tt.format)
			if !terrors.Is(err, tt.code) {
				t.Errorf("ReadEmployees() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestWriteEmployeesRoundTrip(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteEmployees(&buf, sample(), format); err != nil {
				t.Fatalf("WriteEmployees() error: %v", err)
			}
			got, err := ReadEmployees(&buf, format)
			if err != nil {
				t.Fatalf("ReadEmployees() error: %v", err)
			}
			if !reflect.DeepEqual(got, sample()) {
				t.Errorf("round trip = %+v, want %+v", got, sample())
			}
		})
	}
}

func TestWriteEmployeesJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEmployees(&buf, sample()[1:], FormatJSON); err != nil {
		t.Fatalf("WriteEmployees() error: %v", err)
	}
	for _, key := range []string{`"lienHierarchique": 1`, `"prenom": "Bob"`, `"poste": "CTO"`, `"dateNaissance"`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("output missing %s:\n%s", key, buf.String())
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.json", "out.yaml"} {
		path := filepath.Join(dir, name)
		if err := ExportFile(path, sample()); err != nil {
			t.Fatalf("ExportFile(%s) error: %v", name, err)
		}
		got, err := ImportFile(path)
		if err != nil {
			t.Fatalf("ImportFile(%s) error: %v", name, err)
		}
		if !reflect.DeepEqual(got, sample()) {
			t.Errorf("%s round trip = %+v", name, got)
		}
	}
}

func TestImportFileMissing(t *testing.T) {
	_, err := ImportFile(filepath.Join(t.TempDir(), "missing.json"))
	if !terrors.Is(err, terrors.ErrCodeFileNotFound) {
		t.Errorf("ImportFile() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"a.json":     FormatJSON,
		"a.YAML":     FormatYAML,
		"dir/a.yml":  FormatYAML,
		"noext":      FormatJSON,
		"weird.toml": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
