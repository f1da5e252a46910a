package layout_test

import (
	"fmt"

	"github.com/matzehuels/trombinoscope/pkg/hierarchy"
	"github.com/matzehuels/trombinoscope/pkg/layout"
)

func ExampleBuild() {
	tree, _ := hierarchy.Build([]hierarchy.Record{
		{ID: 1},
		{ID: 2, ParentID: hierarchy.Parent(1)},
		{ID: 3, ParentID: hierarchy.Parent(1)},
	})

	l, _ := layout.Build(tree)
	for _, n := range l.Nodes {
		fmt.Printf("%d at (%g, %g)\n", n.Record.ID, n.X, n.Y)
	}
	for _, c := range l.Connectors {
		fmt.Printf("%d -> %d: %s\n", c.ParentID, c.ChildID, c.Path())
	}
	fmt.Printf("canvas %gx%g\n", l.Width, l.Height)
	// Output:
	// 1 at (120, 0)
	// 2 at (0, 220)
	// 3 at (240, 220)
	// 1 -> 2: M 220 120 L 220 170 L 100 170 L 100 220
	// 1 -> 3: M 220 120 L 220 170 L 340 170 L 340 220
	// canvas 540x440
}

func ExampleBuild_compact() {
	tree, _ := hierarchy.Build([]hierarchy.Record{
		{ID: 1},
		{ID: 2, ParentID: hierarchy.Parent(1)},
	})

	l, _ := layout.Build(tree, layout.WithNodeSize(100, 50), layout.WithLevelSpacing(20), layout.WithMargin(0))
	fmt.Printf("canvas %gx%g\n", l.Width, l.Height)
	// Output:
	// canvas 100x120
}
