package sink

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/trombinoscope/pkg/directory"
	"github.com/matzehuels/trombinoscope/pkg/hierarchy"
	"github.com/matzehuels/trombinoscope/pkg/layout"
	"github.com/matzehuels/trombinoscope/pkg/render/styles"
)

var testNow = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

func staff() []directory.Employee {
	return []directory.Employee{
		{ID: 1, FirstName: "Alice", LastName: "Martin", Title: "PDG", BirthDate: "1970-03-12", Photo: "/img/alice.webp"},
		{ID: 2, ParentID: directory.IntPtr(1), FirstName: "Bob", LastName: "Durand", Title: "DRH", BirthDate: "1980-07-01"},
		{ID: 3, ParentID: directory.IntPtr(1), FirstName: "Chloé", LastName: "Moreau", Title: "CTO", BirthDate: "not a date"},
	}
}

func buildTree(t *testing.T) *hierarchy.Tree {
	t.Helper()
	tree, err := hierarchy.Build(directory.Records(staff()))
	if err != nil {
		t.Fatalf("hierarchy.Build() error: %v", err)
	}
	return tree
}

func buildLayout(t *testing.T) layout.Layout {
	t.Helper()
	l, err := layout.Build(buildTree(t))
	if err != nil {
		t.Fatalf("layout.Build() error: %v", err)
	}
	return l
}

func TestRenderSVG(t *testing.T) {
	l := buildLayout(t)
	out := string(RenderSVG(l, WithNow(testNow)))

	for _, want := range []string{
		`viewBox="0 0 540.0 440.0" width="540" height="440"`,
		`d="M 220 120 L 220 170 L 100 170 L 100 220"`,
		`d="M 220 120 L 220 170 L 340 170 L 340 220"`,
		`stroke="#ccc"`,
		`id="node-1"`,
		`id="node-2"`,
		`id="node-3"`,
		`Alice Martin`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
	if strings.Contains(out, "<script") {
		t.Error("RenderSVG() without WithInteraction should not embed a script")
	}
	if strings.Index(out, "<path") > strings.Index(out, `id="node-1"`) {
		t.Error("connectors should be drawn before nodes")
	}
}

func TestRenderSVGCardStyle(t *testing.T) {
	out := string(RenderSVG(buildLayout(t), WithStyle(styles.Card{}), WithNow(testNow), WithInteraction()))
	for _, want := range []string{`<clipPath id="photo-clip"`, `54 ans`, `href="/img/alice.webp"`, `href="` + directory.DefaultPhoto + `"`, "<script"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG(card) missing %q", want)
		}
	}
	if strings.Count(out, " ans<") != 2 {
		t.Errorf("expected ages for the two employees with a valid birth date")
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(buildLayout(t), WithJSONStyle("card"), WithJSONNow(testNow))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Width != 540 || out.Height != 440 || out.Style != "card" {
		t.Errorf("header = %vx%v style %q", out.Width, out.Height, out.Style)
	}
	if len(out.Nodes) != 3 || len(out.Connectors) != 2 {
		t.Fatalf("got %d nodes, %d connectors", len(out.Nodes), len(out.Connectors))
	}

	root := out.Nodes[0]
	if root.ID != 1 || root.ParentID != nil || root.X != 120 || root.Y != 0 || root.Age == nil || *root.Age != 54 {
		t.Errorf("root = %+v", root)
	}
	if out.Nodes[2].Age != nil {
		t.Errorf("unreadable birth date should omit age, got %d", *out.Nodes[2].Age)
	}
	if out.Nodes[1].Photo != directory.DefaultPhoto {
		t.Errorf("photo = %q, want default", out.Nodes[1].Photo)
	}

	c := out.Connectors[0]
	if c.Parent != 1 || c.Child != 2 || c.Path != "M 220 120 L 220 170 L 100 170 L 100 220" {
		t.Errorf("connector = %+v", c)
	}
}

func TestRenderJSONPlainRecords(t *testing.T) {
	tree, err := hierarchy.Build([]hierarchy.Record{{ID: 1}, {ID: 2, ParentID: hierarchy.Parent(1)}})
	if err != nil {
		t.Fatal(err)
	}
	l, err := layout.Build(tree)
	if err != nil {
		t.Fatal(err)
	}
	data, err := RenderJSON(l)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if !strings.Contains(string(data), `"parent_id": 1`) {
		t.Errorf("RenderJSON() = %s", data)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildTree(t), DOTOptions{Detailed: true, Now: testNow})
	for _, want := range []string{
		"digraph G {",
		`n1 [label="Alice Martin\nPDG\n54 ans"`,
		`n3 [label="Chloé Moreau\nCTO"]`,
		"n1 -> n2;",
		"n1 -> n3;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}

	plain := ToDOT(buildTree(t), DOTOptions{})
	if !strings.Contains(plain, `n2 [label="Bob Durand"]`) {
		t.Errorf("ToDOT() plain labels\n%s", plain)
	}
	if ToDOT(nil, DOTOptions{}) != "digraph G {\n  rankdir=TB;\n  bgcolor=\"transparent\";\n  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"sans-serif\", fontsize=14, margin=\"0.2,0.1\"];\n  edge [arrowhead=none, color=\"#cccccc\", penwidth=2];\n  splines=ortho;\n\n}\n" {
		t.Error("ToDOT(nil) should produce an empty graph")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if string(normalizeViewBox([]byte("<svg></svg>"))) != "<svg></svg>" {
		t.Error("SVG without viewBox should be unchanged")
	}
}

func TestRenderHTMLCards(t *testing.T) {
	emps := staff()
	emps[1].LastName = "<Durand>"
	out, err := RenderHTML(Page{Employees: emps, Now: testNow, Filter: "e.age > 1"})
	if err != nil {
		t.Fatalf("RenderHTML() error: %v", err)
	}
	page := string(out)
	for _, want := range []string{
		`<title>Trombinoscope</title>`,
		`id="employee-1"`,
		`54 ans`,
		`Bob &lt;Durand&gt;`,
		`src="` + directory.DefaultPhoto + `"`,
		`value="e.age &gt; 1"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("RenderHTML() missing %q", want)
		}
	}
	if strings.Contains(page, `class="org-container"`) {
		t.Error("cards view should not embed the chart")
	}
}

func TestRenderHTMLChart(t *testing.T) {
	svg := RenderSVG(buildLayout(t), WithNow(testNow))
	out, err := RenderHTML(Page{View: ViewChart, Chart: svg, Now: testNow})
	if err != nil {
		t.Fatalf("RenderHTML() error: %v", err)
	}
	if !strings.Contains(string(out), `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("chart view should embed the SVG unescaped")
	}

	out, err = RenderHTML(Page{View: ViewChart, Now: testNow})
	if err != nil {
		t.Fatalf("RenderHTML() error: %v", err)
	}
	if !strings.Contains(string(out), NoChartNotice) {
		t.Error("empty chart should show the notice")
	}
}
