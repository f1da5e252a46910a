package cli

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/trombinoscope/pkg/directory"
	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

const staffJSON = `[
  {"id": 1, "lienHierarchique": null, "prenom": "Alice", "nom": "Martin", "poste": "PDG", "dateNaissance": "1970-03-01"},
  {"id": 2, "lienHierarchique": 1, "prenom": "Bruno", "nom": "Petit", "poste": "Directeur technique", "dateNaissance": "1985-07-20"},
  {"id": 3, "lienHierarchique": 1, "prenom": "Chloé", "nom": "Durand", "poste": "Directrice financière", "dateNaissance": "1990-01-10"},
  {"id": 4, "lienHierarchique": 2, "prenom": "David", "nom": "Moreau", "poste": "Développeur", "dateNaissance": "1960-12-01"}
]`

type testCLI struct {
	*CLI
	dir    string
	config string
	out    *bytes.Buffer
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	doc := `[storage]
backend = "file"
path = "` + filepath.ToSlash(filepath.Join(dir, "employees.json")) + `"

[cache]
backend = "none"
`
	if err := os.WriteFile(cfg, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
	out := &bytes.Buffer{}
	c.stdout = out
	return &testCLI{CLI: c, dir: dir, config: cfg, out: out}
}

func (tc *testCLI) run(t *testing.T, args ...string) error {
	t.Helper()
	tc.out.Reset()
	root := tc.RootCommand()
	root.SetArgs(append([]string{"--config", tc.config}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(t.Context())
}

func (tc *testCLI) seed(t *testing.T) {
	t.Helper()
	src := filepath.Join(tc.dir, "staff.json")
	if err := os.WriteFile(src, []byte(staffJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := tc.run(t, "seed", src); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func (tc *testCLI) listJSON(t *testing.T, args ...string) []directory.Employee {
	t.Helper()
	if err := tc.run(t, append([]string{"list", "-o", "json"}, args...)...); err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []directory.Employee
	if err := json.Unmarshal(tc.out.Bytes(), &got); err != nil {
		t.Fatalf("decode list output: %v\n%s", err, tc.out.String())
	}
	return got
}

func TestSeedAndList(t *testing.T) {
	tc := newTestCLI(t)
	tc.seed(t)

	got := tc.listJSON(t)
	if len(got) != 4 {
		t.Fatalf("got %d employees, want 4", len(got))
	}
	if got[0].Photo != directory.DefaultPhoto {
		t.Errorf("seeded photo = %q, want default", got[0].Photo)
	}
}

func TestSeedKeepsExistingDirectory(t *testing.T) {
	tc := newTestCLI(t)
	tc.seed(t)
	if err := tc.run(t, "remove", "4"); err != nil {
		t.Fatal(err)
	}
	tc.seed(t)

	if got := tc.listJSON(t); len(got) != 3 {
		t.Errorf("second seed changed the directory: %d employees", len(got))
	}
}

func TestSeedWithoutSource(t *testing.T) {
	tc := newTestCLI(t)
	err := tc.run(t, "seed")
	if !terrors.Is(err, terrors.ErrCodeInvalidConfig) {
		t.Errorf("got %v, want INVALID_CONFIG", err)
	}
}

func TestListFilter(t *testing.T) {
	tc := newTestCLI(t)
	tc.seed(t)

	got := tc.listJSON(t, "--filter", "e.age >= 40")
	var ids []int
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 4 {
		t.Errorf("filtered ids = %v, want [1 4]", ids)
	}

	err := tc.run(t, "list", "--filter", "e.age +")
	if !terrors.Is(err, terrors.ErrCodeInvalidFilter) {
		t.Errorf("got %v, want INVALID_FILTER", err)
	}
}

func TestListTable(t *testing.T) {
	tc := newTestCLI(t)
	tc.seed(t)

	if err := tc.run(t, "list"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Alice Martin", "Développeur", "54"} {
		if !strings.Contains(tc.out.String(), want) {
			t.Errorf("table missing %q:\n%s", want, tc.out.String())
		}
	}
}

func TestAddAndRemove(t *testing.T) {
	tc := newTestCLI(t)
	tc.seed(t)

	err := tc.run(t, "add", "--first", "Emma", "--last", "Leroy", "--title", "Stagiaire",
		"--birth", "2001-04-02", "--manager", "4")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	got := tc.listJSON(t)
	if len(got) != 5 || got[4].ID != 5 || *got[4].ParentID != 4 {
		t.Fatalf("unexpected directory after add: %+v", got)
	}

	if err := tc.run(t, "remove", "5"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := tc.listJSON(t); len(got) != 4 {
		t.Errorf("got %d employees after remove, want 4", len(got))
	}
}

func TestAddPhotoFile(t *testing.T) {
	tc := newTestCLI(t)
	tc.seed(t)

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	photo := filepath.Join(tc.dir, "emma.png")
	if err := os.WriteFile(photo, png, 0o644); err != nil {
		t.Fatal(err)
	}
	notes := filepath.Join(tc.dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("not a picture"), 0o644); err != nil {
		t.Fatal(err)
	}

	person := []string{"add", "--first", "Emma", "--last", "Leroy", "--title", "Stagiaire", "--birth", "2001-04-02"}
	if err := tc.run(t, append(person, "--photo", notes)...); !terrors.Is(err, terrors.ErrCodeInvalidInput) {
		t.Errorf("text file as photo: got %v, want INVALID_INPUT", err)
	}
	if err := tc.run(t, append(person, "--manager", "1", "--photo", photo)...); err != nil {
		t.Fatalf("add with photo file: %v", err)
	}

	got := tc.listJSON(t)
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	if last := got[len(got)-1]; last.Photo != want {
		t.Errorf("photo = %.40q..., want embedded PNG data URL", last.Photo)
	}
}

func TestPhotoValueKeepsReferences(t *testing.T) {
	for _, v := range []string{"", "/assets/images/photo_2.webp", "https://example.com/a.jpg", "data:image/gif;base64,R0lG"} {
		got, err := photoValue(v)
		if err != nil || got != v {
			t.Errorf("photoValue(%q) = %q, %v, want unchanged", v, got, err)
		}
	}
	if _, err := photoValue(t.TempDir()); !terrors.Is(err, terrors.ErrCodeInvalidInput) {
		t.Errorf("directory as photo: got %v", err)
	}
}

func TestAddRejects(t *testing.T) {
	tc := newTestCLI(t)
	tc.seed(t)

	tests := []struct {
		name string
		args []string
		code terrors.Code
	}{
		{"missing title", []string{"--first", "A", "--last", "B", "--birth", "1990-01-01"}, terrors.ErrCodeInvalidEmployee},
		{"future birth", []string{"--first", "A", "--last", "B", "--title", "T", "--birth", "2030-01-01"}, terrors.ErrCodeInvalidEmployee},
		{"unknown manager", []string{"--first", "A", "--last", "B", "--title", "T", "--birth", "1990-01-01", "--manager", "42"}, terrors.ErrCodeInvalidEmployee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tc.run(t, append([]string{"add"}, tt.args...)...)
			if !terrors.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRemoveErrors(t *testing.T) {
	tc := newTestCLI(t)
	tc.seed(t)

	if err := tc.run(t, "remove", "99"); !terrors.Is(err, terrors.ErrCodeEmployeeNotFound) {
		t.Errorf("remove 99: got %v, want EMPLOYEE_NOT_FOUND", err)
	}
	if err := tc.run(t, "remove", "abc"); !terrors.Is(err, terrors.ErrCodeInvalidInput) {
		t.Errorf("remove abc: got %v, want INVALID_INPUT", err)
	}
}

func TestClear(t *testing.T) {
	tc := newTestCLI(t)
	tc.seed(t)

	if err := tc.run(t, "clear"); !terrors.Is(err, terrors.ErrCodeInvalidInput) {
		t.Errorf("clear without --yes: got %v", err)
	}
	if err := tc.run(t, "clear", "--yes"); err != nil {
		t.Fatal(err)
	}
	if got := tc.listJSON(t); len(got) != 0 {
		t.Errorf("got %d employees after clear", len(got))
	}
}

func TestTree(t *testing.T) {
	tc := newTestCLI(t)
	tc.seed(t)

	if err := tc.run(t, "tree"); err != nil {
		t.Fatal(err)
	}
	out := tc.out.String()
	if !strings.HasPrefix(out, "Alice Martin (PDG), 54 ans") {
		t.Errorf("tree should start with the root, got:\n%s", out)
	}
	for _, want := range []string{"Bruno Petit", "David Moreau (Développeur)", "└──"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q:\n%s", want, out)
		}
	}
}

func TestChartWritesFiles(t *testing.T) {
	tc := newTestCLI(t)
	tc.seed(t)

	base := filepath.Join(tc.dir, "out", "org")
	if err := tc.run(t, "chart", "-f", "svg,json,dot", "-o", base); err != nil {
		t.Fatalf("chart: %v", err)
	}
	for _, ext := range []string{"svg", "json", "dot"} {
		data, err := os.ReadFile(base + "." + ext)
		if err != nil {
			t.Fatalf("missing %s output: %v", ext, err)
		}
		if len(data) == 0 {
			t.Errorf("%s output is empty", ext)
		}
	}
}

func TestChartStdout(t *testing.T) {
	tc := newTestCLI(t)
	tc.seed(t)

	if err := tc.run(t, "chart", "-f", "json", "-o", "-", "--node-width", "100"); err != nil {
		t.Fatalf("chart: %v", err)
	}
	var doc struct {
		Nodes []struct {
			ID    int     `json:"id"`
			Width float64 `json:"width"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(tc.out.Bytes(), &doc); err != nil {
		t.Fatalf("decode chart json: %v", err)
	}
	if len(doc.Nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(doc.Nodes))
	}
	if doc.Nodes[0].Width != 100 {
		t.Errorf("node width = %v, want the --node-width override", doc.Nodes[0].Width)
	}

	if err := tc.run(t, "chart", "-f", "svg,json", "-o", "-"); !terrors.Is(err, terrors.ErrCodeInvalidInput) {
		t.Errorf("stdout with two formats: got %v", err)
	}
}

func TestChartEmptyDirectory(t *testing.T) {
	tc := newTestCLI(t)

	err := tc.run(t, "chart", "-o", "-")
	if !terrors.Is(err, terrors.ErrCodeNoRoot) {
		t.Errorf("got %v, want NO_ROOT", err)
	}
}

func TestChartInvalidFlags(t *testing.T) {
	tc := newTestCLI(t)

	if err := tc.run(t, "chart", "-f", "gif"); !terrors.Is(err, terrors.ErrCodeInvalidFormat) {
		t.Errorf("format gif: got %v", err)
	}
	if err := tc.run(t, "chart", "--style", "handdrawn"); !terrors.Is(err, terrors.ErrCodeInvalidStyle) {
		t.Errorf("style handdrawn: got %v", err)
	}
	if err := tc.run(t, "chart", "-o", "-", "--level-spacing", "0"); !terrors.Is(err, terrors.ErrCodeInvalidConfig) {
		t.Errorf("level spacing 0: got %v", err)
	}
}

func TestImportExport(t *testing.T) {
	tc := newTestCLI(t)
	tc.seed(t)

	exported := filepath.Join(tc.dir, "export.yaml")
	if err := tc.run(t, "export", exported); err != nil {
		t.Fatalf("export: %v", err)
	}

	if err := tc.run(t, "import", exported); !terrors.Is(err, terrors.ErrCodeDuplicateID) {
		t.Errorf("import over existing ids: got %v, want DUPLICATE_ID", err)
	}
	if err := tc.run(t, "import", "--replace", exported); err != nil {
		t.Fatalf("import --replace: %v", err)
	}
	if got := tc.listJSON(t); len(got) != 4 || got[3].Name() != "David Moreau" {
		t.Errorf("round trip lost data: %+v", got)
	}

	twice := filepath.Join(tc.dir, "twice.json")
	doc := `[{"id": 7, "prenom": "Eve", "nom": "Roux", "poste": "RH", "dateNaissance": "1980-02-02"},
	         {"id": 7, "prenom": "Eve", "nom": "Roux", "poste": "RH", "dateNaissance": "1980-02-02"}]`
	if err := os.WriteFile(twice, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := tc.run(t, "import", "--replace", twice); !terrors.Is(err, terrors.ErrCodeDuplicateID) {
		t.Errorf("import with repeated ids: got %v, want DUPLICATE_ID", err)
	}
	if got := tc.listJSON(t); len(got) != 4 {
		t.Errorf("failed import --replace changed the directory: %d employees", len(got))
	}
}

func TestConfigShow(t *testing.T) {
	tc := newTestCLI(t)

	if err := tc.run(t, "config", "show"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[storage]", `backend = "file"`, "[layout]"} {
		if !strings.Contains(tc.out.String(), want) {
			t.Errorf("config show missing %q:\n%s", want, tc.out.String())
		}
	}

	if err := tc.run(t, "config", "path"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(tc.out.String()); got != tc.config {
		t.Errorf("config path = %q, want %q", got, tc.config)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"", defaultChartBase},
		{"build/org.svg", "build/org"},
		{"org.graphviz.svg", "org"},
		{"org.pdf", "org"},
		{"org.backup", "org.backup"},
		{"org", "org"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{" SVG , png,", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDisplayURL(t *testing.T) {
	if got := displayURL(":8080"); got != "http://localhost:8080" {
		t.Errorf("displayURL(:8080) = %q", got)
	}
	if got := displayURL("0.0.0.0:9000"); got != "http://0.0.0.0:9000" {
		t.Errorf("displayURL(0.0.0.0:9000) = %q", got)
	}
}
