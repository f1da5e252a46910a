// Package sink writes organization chart layouts in output formats.
//
// # Formats
//
//   - [RenderSVG]: the chart, connectors below boxes, drawn by a [styles.Style]
//   - [RenderJSON]: node positions and connector paths for external renderers
//   - [ToDOT] and [RenderGraphviz]: a node-link view laid out by Graphviz
//   - [RenderPNG] and [RenderPDF]: the SVG chart converted with rsvg-convert
//   - [RenderHTML]: the directory page, with a cards view and a chart view
//
// All renderers are pure functions of their input and safe for concurrent
// use. Only PNG and PDF depend on an external tool.
//
// [styles.Style]: github.com/matzehuels/trombinoscope/pkg/render/styles.Style
package sink
