package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/trombinoscope/pkg/directory"
	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
	"github.com/matzehuels/trombinoscope/pkg/hierarchy"
)

// DOTOptions configures node-link diagram generation.
type DOTOptions struct {
	// Detailed adds title and age under each name. When false, only the
	// name is shown.
	Detailed bool
	// Now is the date used to compute ages (default: time.Now).
	Now time.Time
}

// ToDOT converts a hierarchy to Graphviz DOT format, one edge from each
// manager to each direct report. The result can be rendered with
// [RenderGraphviz].
func ToDOT(t *hierarchy.Tree, opts DOTOptions) string {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"sans-serif\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none, color=\"#cccccc\", penwidth=2];\n")
	buf.WriteString("  splines=ortho;\n")
	buf.WriteString("\n")

	if t == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	for _, n := range t.Nodes {
		attrs := []string{fmt.Sprintf("label=%q", dotLabel(n.Record, opts))}
		if n.Depth == 0 {
			attrs = append(attrs, "fillcolor=\"#2c3e50\"", "fontcolor=white")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.Record.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range t.Nodes {
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", n.Record.ID, t.Nodes[c].Record.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(r hierarchy.Record, opts DOTOptions) string {
	e, ok := directory.FromRecord(r)
	if !ok {
		return strconv.Itoa(r.ID)
	}
	if !opts.Detailed {
		return e.Name()
	}
	parts := []string{e.Name()}
	if e.Title != "" {
		parts = append(parts, e.Title)
	}
	if age := e.Age(opts.Now); age >= 0 {
		parts = append(parts, fmt.Sprintf("%d ans", age))
	}
	return strings.Join(parts, "\n")
}

// RenderGraphviz lays out a DOT graph with Graphviz and returns SVG bytes,
// ready for display or conversion with [render.ToPDF] or [render.ToPNG].
//
// [render.ToPDF]: github.com/matzehuels/trombinoscope/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/trombinoscope/pkg/render.ToPNG
func RenderGraphviz(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInternal, err, "render graphviz")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based root element with a plain
// pixel-sized one so the diagram scales like the chart SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
