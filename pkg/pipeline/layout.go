package pipeline

import (
	"github.com/matzehuels/trombinoscope/pkg/hierarchy"
	"github.com/matzehuels/trombinoscope/pkg/layout"
)

// ComputeLayout sizes and positions the tree with the configured box
// dimensions and spacing.
func ComputeLayout(t *hierarchy.Tree, opts Options) (layout.Layout, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Layout{}, err
	}
	return layout.Build(t, layout.WithConfig(opts.Layout))
}
