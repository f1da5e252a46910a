package hierarchy

import "slices"

// Option configures [Build].
type Option func(*options)

type options struct {
	lastRootWins  bool
	strictOrphans bool
	warn          func(OrphanRecordWarning)
}

// WithLastRootWins picks the last parentless record as root when several
// exist, instead of failing with [AmbiguousRootError]. The other parentless
// records and their subtrees end up in [Tree.Detached].
func WithLastRootWins() Option { return func(o *options) { o.lastRootWins = true } }

// WithStrictOrphans makes [Build] return the first [OrphanRecordWarning]
// as an error instead of dropping the orphan.
func WithStrictOrphans() Option { return func(o *options) { o.strictOrphans = true } }

// WithWarningFunc registers fn to be called once per dropped orphan after a
// successful build.
func WithWarningFunc(fn func(OrphanRecordWarning)) Option {
	return func(o *options) { o.warn = fn }
}

// Build converts a flat list of records into a rooted [Tree].
//
// Records are indexed by ID, checked for duplicate IDs and parent cycles,
// then attached to their parents in input order. See the package
// documentation for the error contract.
func Build(records []Record, opts ...Option) (*Tree, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	index := make(map[int]int, len(records))
	for i, r := range records {
		if _, dup := index[r.ID]; dup {
			return nil, &DuplicateIDError{ID: r.ID}
		}
		index[r.ID] = i
	}

	if cycle := findCycle(records, index); cycle != nil {
		return nil, &CyclicHierarchyError{Cycle: cycle}
	}

	var (
		roots    []int
		orphans  []OrphanRecordWarning
		children = make(map[int][]int, len(records))
	)
	for i, r := range records {
		if r.IsRoot() {
			roots = append(roots, i)
			continue
		}
		p, ok := index[*r.ParentID]
		if !ok {
			w := OrphanRecordWarning{ID: r.ID, ParentID: *r.ParentID}
			if o.strictOrphans {
				return nil, w
			}
			orphans = append(orphans, w)
			continue
		}
		children[p] = append(children[p], i)
	}

	switch {
	case len(roots) == 0:
		return nil, &NoRootError{Records: len(records)}
	case len(roots) > 1 && !o.lastRootWins:
		ids := make([]int, len(roots))
		for i, pos := range roots {
			ids[i] = records[pos].ID
		}
		return nil, &AmbiguousRootError{IDs: ids}
	}

	t := assemble(records, roots[len(roots)-1], children)
	t.Orphans = orphans

	orphaned := make(map[int]bool, len(orphans))
	for _, w := range orphans {
		orphaned[w.ID] = true
	}
	for _, r := range records {
		if _, ok := t.index[r.ID]; !ok && !orphaned[r.ID] {
			t.Detached = append(t.Detached, r.ID)
		}
	}

	if o.warn != nil {
		for _, w := range orphans {
			o.warn(w)
		}
	}
	return t, nil
}

// assemble lays the subtree reachable from root into a depth-first arena.
// children maps a record position to its child record positions.
func assemble(records []Record, root int, children map[int][]int) *Tree {
	t := &Tree{
		Nodes: make([]Node, 0, len(records)),
		index: make(map[int]int, len(records)),
	}

	type frame struct{ pos, parent, depth int }
	stack := []frame{{pos: root, parent: -1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx := len(t.Nodes)
		t.Nodes = append(t.Nodes, Node{Record: records[f.pos], Parent: f.parent, Depth: f.depth})
		t.index[records[f.pos].ID] = idx
		if f.parent >= 0 {
			t.Nodes[f.parent].Children = append(t.Nodes[f.parent].Children, idx)
		}

		kids := children[f.pos]
		for k := len(kids) - 1; k >= 0; k-- {
			stack = append(stack, frame{pos: kids[k], parent: idx, depth: f.depth + 1})
		}
	}
	return t
}

// findCycle follows every parent chain once and returns the IDs of the first
// loop found, or nil. Chains end at a root or at a missing parent.
func findCycle(records []Record, index map[int]int) []int {
	const (
		unseen = iota
		onChain
		done
	)
	state := make([]uint8, len(records))

	for start := range records {
		if state[start] != unseen {
			continue
		}

		var chain []int
		for i := start; ; {
			if state[i] == done {
				break
			}
			if state[i] == onChain {
				loop := chain[slices.Index(chain, i):]
				ids := make([]int, len(loop))
				for k, pos := range loop {
					ids[k] = records[pos].ID
				}
				return ids
			}
			state[i] = onChain
			chain = append(chain, i)

			p := records[i].ParentID
			if p == nil {
				break
			}
			next, ok := index[*p]
			if !ok {
				break
			}
			i = next
		}

		for _, pos := range chain {
			state[pos] = done
		}
	}
	return nil
}
