// Package hierarchy builds rooted trees from flat parent-pointer records.
//
// # Overview
//
// A directory of employees is stored as a flat list: every record carries its
// own ID and the ID of its manager, or no parent for the head of the
// organisation. Before an org chart can be drawn, that list has to become a
// tree. [Build] does this in two passes over the input:
//
//  1. Index every record by ID (rejecting duplicates).
//  2. Attach every non-root record to its parent's children, in input order.
//
// # Tree Representation
//
// The resulting [Tree] is an arena: a flat slice of [Node] values in
// depth-first order (root first), where parent and child relationships are
// integer indices into that slice. Parents therefore always precede their
// children, which lets downstream passes (see the layout package) run as
// simple forward or backward sweeps without recursion or shared pointers.
//
//	tree, err := hierarchy.Build([]hierarchy.Record{
//	    {ID: 1},
//	    {ID: 2, ParentID: hierarchy.Parent(1)},
//	    {ID: 3, ParentID: hierarchy.Parent(1)},
//	})
//
// Each [Record] carries an opaque Payload (for example a directory employee)
// that is passed through to the tree untouched.
//
// # Validation
//
// Construction fails fast on inputs that cannot produce a single chart:
//
//   - [NoRootError]: no record without a parent (including empty input)
//   - [AmbiguousRootError]: more than one record without a parent
//   - [CyclicHierarchyError]: a parent chain loops back on itself
//   - [DuplicateIDError]: two records share an ID
//
// [WithLastRootWins] restores the permissive behaviour of picking the last
// parentless record as root and detaching the others.
//
// Records whose parent does not exist (orphans) are not fatal: they are
// dropped from the tree, listed in [Tree.Orphans] and reported to the
// callback registered with [WithWarningFunc]. Their descendants are dropped
// with them and listed in [Tree.Detached]. [WithStrictOrphans] turns the
// first orphan into an error instead.
//
// All error types implement Code() and match the corresponding codes of the
// errors package, so callers can test them with errors.Is(err, code).
//
// # Concurrency
//
// Build is a pure function of its input. A Tree is immutable after
// construction and may be read from multiple goroutines.
package hierarchy
