package cache

import "strings"

// Key prefixes.
const (
	prefixSource   = "source"
	prefixArtifact = "artifact"
)

// Keyer derives cache keys.
type Keyer interface {
	// SourceKey keys the raw body fetched from a remote employee source.
	SourceKey(location string) string

	// ArtifactKey keys one rendered output of the chart.
	ArtifactKey(recordsHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format        string  `json:"format"`
	Style         string  `json:"style,omitempty"`
	Layout        any     `json:"layout,omitempty"`
	LastRootWins  bool    `json:"last_root_wins,omitempty"`
	StrictOrphans bool    `json:"strict_orphans,omitempty"`
	Detailed      bool    `json:"detailed,omitempty"`
	Scale         float64 `json:"scale,omitempty"`
	Title         string  `json:"title,omitempty"`
	Date          string  `json:"date,omitempty"` // ages change daily
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SourceKey returns "source:<location>" with surrounding space trimmed.
func (DefaultKeyer) SourceKey(location string) string {
	return prefixSource + ":" + strings.TrimSpace(location)
}

// ArtifactKey returns "artifact:<hash of recordsHash and opts>".
func (DefaultKeyer) ArtifactKey(recordsHash string, opts ArtifactKeyOpts) string {
	return hashKey(prefixArtifact, recordsHash, opts)
}
