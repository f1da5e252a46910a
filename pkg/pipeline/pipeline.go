// Package pipeline turns a list of employees into organization chart files.
//
// This package implements the complete build → layout → render pipeline used
// by the CLI and the HTTP server. Centralizing it keeps both entry points
// consistent: same defaults, same cache keys, same hooks.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Assemble the hierarchy from flat manager references
//  2. Layout: Compute box positions and connectors
//  3. Render: Generate output in various formats (SVG, JSON, DOT, PNG, PDF, HTML)
//
// Build and layout are linear in the number of employees and always run.
// Rendered artifacts are cached, keyed by the records and every option that
// changes the output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, employees, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	    Style:   "card",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	tree, err := pipeline.Build(employees, opts)
//	l, err := pipeline.ComputeLayout(tree, opts)
//	artifacts, err := pipeline.Render(ctx, tree, l, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trombinoscope/pkg/cache"
	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
	"github.com/matzehuels/trombinoscope/pkg/hierarchy"
	"github.com/matzehuels/trombinoscope/pkg/layout"
	"github.com/matzehuels/trombinoscope/pkg/render/styles"
)

// DefaultStyle is the default visual style.
const DefaultStyle = styles.StyleSimple

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz" // node-link SVG laid out by Graphviz
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatHTML     = "html"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatSVG, FormatJSON, FormatDOT, FormatGraphviz, FormatPNG, FormatPDF, FormatHTML}

// Extension returns the file extension used when writing format to disk.
func Extension(format string) string {
	if format == FormatGraphviz {
		return "graphviz.svg"
	}
	return format
}

// ContentType returns the MIME type of a rendered format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatGraphviz:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Options contains all configuration for the chart pipeline.
type Options struct {
	// Build options
	LastRootWins  bool `json:"last_root_wins,omitempty"`
	StrictOrphans bool `json:"strict_orphans,omitempty"`

	// Layout options
	Layout layout.Config `json:"layout"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // titles and ages in node-link labels
	Scale    float64  `json:"scale,omitempty"`    // PNG scale factor
	Title    string   `json:"title,omitempty"`    // HTML page title

	// Runtime options (not serialized)
	Now     time.Time   `json:"-"` // reference date for ages
	NoCache bool        `json:"-"`
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Tree   *hierarchy.Tree
	Layout layout.Layout

	// RecordsHash is the content hash of the input employees.
	RecordsHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int
	Nodes      int
	Orphans    int
	Detached   int
	Width      float64
	Height     float64
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return terrors.New(terrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	_, err := styles.ByName(style)
	return err
}

// ValidateAndSetDefaults checks options and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = 2.0
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one rendered format.
// Ages depend on the date, so the day is part of the key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:        format,
		Style:         o.Style,
		Layout:        o.Layout,
		LastRootWins:  o.LastRootWins,
		StrictOrphans: o.StrictOrphans,
		Detailed:      o.Detailed,
		Scale:         o.Scale,
		Title:         o.Title,
		Date:          o.Now.Format(terrors.DateLayout),
	}
}
