package layout

import "github.com/matzehuels/trombinoscope/pkg/hierarchy"

// PositionedNode is a record placed on the canvas. X and Y are the top-left
// corner of its box; Index is its slot in the source tree arena.
type PositionedNode struct {
	Index  int
	Record hierarchy.Record
	X, Y   float64
}

// Position assigns coordinates to every node of t, given the subtree extents
// from [Size] and the top-left corner of the root's band.
//
// Nodes are returned root first, depth-first. Connectors are returned in the
// same order as their child node: the connector into a node immediately
// precedes the connectors of its own subtree.
func Position(t *hierarchy.Tree, ext []Extent, cfg Config, left, top float64) ([]PositionedNode, []Connector) {
	n := t.Len()
	if n == 0 {
		return nil, nil
	}

	lefts := make([]float64, n)
	tops := make([]float64, n)
	lefts[0], tops[0] = left, top

	nodes := make([]PositionedNode, n)
	for i, node := range t.Nodes {
		x := lefts[i] + ext[i].Width/2 - cfg.NodeWidth/2
		y := tops[i]
		nodes[i] = PositionedNode{Index: i, Record: node.Record, X: x, Y: y}

		cursor := lefts[i]
		for _, c := range node.Children {
			lefts[c] = cursor
			tops[c] = y + cfg.NodeHeight + cfg.LevelSpacing
			cursor += ext[c].Width + cfg.SiblingSpacing
		}
	}

	conns := make([]Connector, 0, n-1)
	for i := 1; i < n; i++ {
		p := t.Nodes[i].Parent
		parent, child := nodes[p], nodes[i]
		conns = append(conns, Connector{
			ParentID: parent.Record.ID,
			ChildID:  child.Record.ID,
			X1:       parent.X + cfg.NodeWidth/2,
			Y1:       parent.Y + cfg.NodeHeight,
			X2:       child.X + cfg.NodeWidth/2,
			Y2:       child.Y,
		})
	}
	return nodes, conns
}
