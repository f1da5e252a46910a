package layout

import (
	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

// Default dimensions, in user units (pixels in SVG).
const (
	DefaultNodeWidth      = 200.0
	DefaultNodeHeight     = 120.0
	DefaultLevelSpacing   = 100.0
	DefaultSiblingSpacing = 40.0
	DefaultMargin         = 100.0
)

// Config holds the fixed dimensions consumed by the layout passes.
type Config struct {
	NodeWidth      float64 `json:"node_width" toml:"node_width"`
	NodeHeight     float64 `json:"node_height" toml:"node_height"`
	LevelSpacing   float64 `json:"level_spacing" toml:"level_spacing"`
	SiblingSpacing float64 `json:"sibling_spacing" toml:"sibling_spacing"`
	Margin         float64 `json:"margin" toml:"margin"`
}

// DefaultConfig returns the standard org chart dimensions.
func DefaultConfig() Config {
	return Config{
		NodeWidth:      DefaultNodeWidth,
		NodeHeight:     DefaultNodeHeight,
		LevelSpacing:   DefaultLevelSpacing,
		SiblingSpacing: DefaultSiblingSpacing,
		Margin:         DefaultMargin,
	}
}

// Validate rejects degenerate boxes and negative spacings. Level spacing
// must be positive so every connector runs strictly downwards.
func (c Config) Validate() error {
	if c.NodeWidth <= 0 || c.NodeHeight <= 0 {
		return terrors.New(terrors.ErrCodeInvalidConfig, "node size must be positive, got %gx%g", c.NodeWidth, c.NodeHeight)
	}
	if c.LevelSpacing <= 0 {
		return terrors.New(terrors.ErrCodeInvalidConfig, "level spacing must be positive, got %g", c.LevelSpacing)
	}
	if c.SiblingSpacing < 0 {
		return terrors.New(terrors.ErrCodeInvalidConfig, "sibling spacing must not be negative, got %g", c.SiblingSpacing)
	}
	if c.Margin < 0 {
		return terrors.New(terrors.ErrCodeInvalidConfig, "margin must not be negative, got %g", c.Margin)
	}
	return nil
}

// Option configures [Build].
type Option func(*options)

type options struct {
	cfg       Config
	left, top float64
}

// WithConfig replaces all dimensions at once.
func WithConfig(c Config) Option { return func(o *options) { o.cfg = c } }

// WithNodeSize sets the width and height of every node box.
func WithNodeSize(w, h float64) Option {
	return func(o *options) { o.cfg.NodeWidth, o.cfg.NodeHeight = w, h }
}

// WithLevelSpacing sets the vertical gap between a node and its children.
func WithLevelSpacing(v float64) Option { return func(o *options) { o.cfg.LevelSpacing = v } }

// WithSiblingSpacing sets the horizontal gap between adjacent subtrees.
func WithSiblingSpacing(v float64) Option { return func(o *options) { o.cfg.SiblingSpacing = v } }

// WithMargin sets the padding added to the right and bottom of the canvas.
func WithMargin(v float64) Option { return func(o *options) { o.cfg.Margin = v } }

// WithOrigin moves the top-left corner of the root subtree (default 0,0).
func WithOrigin(left, top float64) Option {
	return func(o *options) { o.left, o.top = left, top }
}
