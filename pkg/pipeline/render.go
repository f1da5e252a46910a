package pipeline

import (
	"context"
	"fmt"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
	"github.com/matzehuels/trombinoscope/pkg/hierarchy"
	"github.com/matzehuels/trombinoscope/pkg/layout"
	"github.com/matzehuels/trombinoscope/pkg/render/sink"
	"github.com/matzehuels/trombinoscope/pkg/render/styles"
)

// Render generates output artifacts in the requested formats. The SVG is
// rendered once and shared by the formats derived from it.
func Render(ctx context.Context, t *hierarchy.Tree, l layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	svgOpts, err := buildSVGOptions(opts)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var chart []byte
	svg := func() []byte {
		if chart == nil {
			chart = sink.RenderSVG(l, svgOpts...)
		}
		return chart
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svg()
		case FormatJSON:
			data, err = sink.RenderJSON(l, sink.WithJSONStyle(opts.Style), sink.WithJSONNow(opts.Now))
		case FormatDOT:
			data = []byte(sink.ToDOT(t, dotOptions(opts)))
		case FormatGraphviz:
			data, err = sink.RenderGraphviz(ctx, sink.ToDOT(t, dotOptions(opts)))
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, l, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, l, sink.WithPDFSVGOptions(svgOpts...))
		case FormatHTML:
			data, err = sink.RenderHTML(sink.Page{
				Title: opts.Title,
				View:  sink.ViewChart,
				Chart: sink.RenderSVG(l, append(svgOpts, sink.WithInteraction())...),
				Now:   opts.Now,
			})
		default:
			return nil, terrors.New(terrors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) ([]sink.SVGOption, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, err
	}
	return []sink.SVGOption{sink.WithStyle(style), sink.WithNow(opts.Now)}, nil
}

func dotOptions(opts Options) sink.DOTOptions {
	return sink.DOTOptions{Detailed: opts.Detailed, Now: opts.Now}
}
