package layout

import (
	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
	"github.com/matzehuels/trombinoscope/pkg/hierarchy"
)

// Layout is the complete output of the layout passes: everything a renderer
// needs to draw the chart.
type Layout struct {
	Config     Config
	Nodes      []PositionedNode
	Connectors []Connector

	// Width and Height bound every node box, plus Config.Margin.
	Width, Height float64
}

// Box is the rectangle occupied by a positioned node.
type Box struct {
	Left, Top, Right, Bottom float64
}

// Width returns the horizontal span of the box.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the box.
func (b Box) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center point of the box.
func (b Box) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center point of the box.
func (b Box) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Box returns the rectangle of n under the layout's node size.
func (l Layout) Box(n PositionedNode) Box {
	return Box{
		Left:   n.X,
		Top:    n.Y,
		Right:  n.X + l.Config.NodeWidth,
		Bottom: n.Y + l.Config.NodeHeight,
	}
}

// Node returns the positioned node of the record with the given ID.
func (l Layout) Node(id int) (PositionedNode, bool) {
	for _, n := range l.Nodes {
		if n.Record.ID == id {
			return n, true
		}
	}
	return PositionedNode{}, false
}

// Build sizes and positions t. The default [Config] applies unless
// overridden by options; an invalid configuration is rejected.
func Build(t *hierarchy.Tree, opts ...Option) (Layout, error) {
	o := options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return Layout{}, err
	}
	if t == nil || t.Len() == 0 {
		return Layout{}, terrors.New(terrors.ErrCodeInvalidInput, "cannot lay out an empty tree")
	}

	ext := Size(t, o.cfg)
	nodes, conns := Position(t, ext, o.cfg, o.left, o.top)

	l := Layout{Config: o.cfg, Nodes: nodes, Connectors: conns}
	l.Width, l.Height = bounds(nodes, o.cfg)
	return l, nil
}

func bounds(nodes []PositionedNode, cfg Config) (w, h float64) {
	for _, n := range nodes {
		w = max(w, n.X+cfg.NodeWidth)
		h = max(h, n.Y+cfg.NodeHeight)
	}
	return w + cfg.Margin, h + cfg.Margin
}
