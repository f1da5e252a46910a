package sink

import (
	"bytes"
	"fmt"
	"time"

	"github.com/matzehuels/trombinoscope/pkg/layout"
	"github.com/matzehuels/trombinoscope/pkg/render/styles"
)

const nodeInteractionCSS = `
    .node { transition: opacity 0.2s ease; }
    svg.focus .node:not(.highlight), svg.focus .connector:not(.highlight) { opacity: 0.35; }`

const nodeInteractionJS = `
    (function () {
      var svg = document.currentScript.ownerSVGElement || document.querySelector('svg');
      function clear() {
        svg.classList.remove('focus');
        svg.querySelectorAll('.highlight').forEach(function (el) { el.classList.remove('highlight'); });
      }
      svg.querySelectorAll('.node').forEach(function (el) {
        var id = el.id.replace('node-', '');
        el.addEventListener('mouseenter', function () {
          svg.classList.add('focus');
          el.classList.add('highlight');
          svg.querySelectorAll('.connector[data-parent="' + id + '"], .connector[data-child="' + id + '"]')
            .forEach(function (c) { c.classList.add('highlight'); });
        });
        el.addEventListener('mouseleave', clear);
      });
    })();`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       styles.Style
	now         time.Time
	interactive bool
}

// WithStyle selects the node style (default [styles.Simple]).
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithNow fixes the date used to compute ages.
func WithNow(t time.Time) SVGOption { return func(r *svgRenderer) { r.now = t } }

// WithInteraction adds hover highlighting of a node and its connectors.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// RenderSVG renders the chart as a standalone SVG document sized to the
// layout canvas. Connectors are drawn first so boxes cover their ends.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)

	r.style.RenderDefs(&buf)
	for _, c := range styleConnectors(l) {
		r.style.RenderConnector(&buf, c)
	}
	for _, n := range styleNodes(l, r.now) {
		r.style.RenderNode(&buf, n)
	}
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", nodeInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}
	if r.now.IsZero() {
		r.now = time.Now()
	}
	return r
}
