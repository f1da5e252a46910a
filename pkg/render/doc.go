// Package render turns a computed chart layout into files.
//
// # Overview
//
// The [sink] subpackage writes a [layout.Layout] as SVG, JSON, PNG or PDF,
// renders the hierarchy as a Graphviz node-link diagram, and produces the
// HTML directory page. The [styles] subpackage controls how employee boxes
// are drawn.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(l, sink.WithStyle(styles.Card{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [sink]: github.com/matzehuels/trombinoscope/pkg/render/sink
// [styles]: github.com/matzehuels/trombinoscope/pkg/render/styles
// [layout.Layout]: github.com/matzehuels/trombinoscope/pkg/layout.Layout
package render
