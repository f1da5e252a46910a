package hierarchy

// Node is one slot of a [Tree] arena.
type Node struct {
	Record   Record
	Parent   int   // arena index of the parent, -1 for the root
	Children []int // arena indices, in input order
	Depth    int   // 0 for the root
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool { return len(n.Children) == 0 }

// Tree is a rooted hierarchy stored as a depth-first arena.
// Nodes[0] is the root; every parent precedes its children.
type Tree struct {
	Nodes []Node

	// Orphans lists records dropped because their parent does not exist.
	Orphans []OrphanRecordWarning
	// Detached lists IDs of records dropped because they are not reachable
	// from the root (descendants of orphans, or extra roots with
	// [WithLastRootWins]).
	Detached []int

	index map[int]int
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.Nodes) }

// Root returns the root node.
func (t *Tree) Root() *Node { return &t.Nodes[0] }

// Index returns the arena index of the record with the given ID.
func (t *Tree) Index(id int) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// Node returns the node of the record with the given ID.
func (t *Tree) Node(id int) (*Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return &t.Nodes[i], true
}

// Records returns the records of the tree in depth-first order.
func (t *Tree) Records() []Record {
	out := make([]Record, len(t.Nodes))
	for i, n := range t.Nodes {
		out[i] = n.Record
	}
	return out
}

// Height returns the number of levels in the tree.
func (t *Tree) Height() int {
	h := 0
	for _, n := range t.Nodes {
		h = max(h, n.Depth+1)
	}
	return h
}

// Leaves returns the number of nodes without children.
func (t *Tree) Leaves() int {
	var count int
	for _, n := range t.Nodes {
		if n.IsLeaf() {
			count++
		}
	}
	return count
}

// Walk visits nodes depth-first, root first, until fn returns false.
func (t *Tree) Walk(fn func(index int, n *Node) bool) {
	for i := range t.Nodes {
		if !fn(i, &t.Nodes[i]) {
			return
		}
	}
}

// Dropped returns the number of input records that are not part of the tree.
func (t *Tree) Dropped() int { return len(t.Orphans) + len(t.Detached) }
