package layout

import "github.com/matzehuels/trombinoscope/pkg/hierarchy"

// Extent is the bounding box needed to draw a node and all its descendants.
type Extent struct {
	Width, Height float64
}

// Size computes the extent of every subtree of t, indexed like t.Nodes.
// Children follow their parent in the arena, so a single backward sweep
// sees every child before its parent.
func Size(t *hierarchy.Tree, cfg Config) []Extent {
	ext := make([]Extent, t.Len())
	for i := t.Len() - 1; i >= 0; i-- {
		n := t.Nodes[i]
		if n.IsLeaf() {
			ext[i] = Extent{Width: cfg.NodeWidth, Height: cfg.NodeHeight}
			continue
		}

		var sum, tallest float64
		for _, c := range n.Children {
			sum += ext[c].Width
			tallest = max(tallest, ext[c].Height)
		}
		sum += cfg.SiblingSpacing * float64(len(n.Children)-1)

		ext[i] = Extent{
			Width:  max(cfg.NodeWidth, sum),
			Height: cfg.NodeHeight + cfg.LevelSpacing + tallest,
		}
	}
	return ext
}
