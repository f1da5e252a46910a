// Package layout computes node positions for org chart visualizations.
//
// # Overview
//
// Once a flat list of records has been turned into a [hierarchy.Tree], this
// package computes the coordinates of every node and the connectors between
// managers and their reports. The result is a [Layout] containing all the
// information a renderer needs:
//
//   - Node positions (top-left corner of each box)
//   - Parent-child connectors (bottom-center of parent to top-center of child)
//   - Canvas dimensions, including a fixed margin
//
// # Algorithm
//
// Layout is a two-pass pipeline over the tree arena:
//
//  1. [Size] sweeps bottom-up. A leaf occupies exactly one node box; an inner
//     node occupies max(node width, sum of child widths + sibling spacing
//     between them), and one node height plus level spacing above its
//     tallest child.
//  2. [Position] sweeps top-down. Each node is centered horizontally in the
//     band its subtree was allocated; children are packed left to right in
//     that band, one level below the parent.
//
// Siblings never overlap by construction, since every child band is exactly
// as wide as the child's subtree and bands are separated by sibling spacing.
// Both passes are linear in the number of nodes and fully deterministic for
// a given input order.
//
// # Building a Layout
//
// Use [Build] with a tree and optional overrides of the default
// [Config] (200×120 boxes, 100 level spacing, 40 sibling spacing, 100 margin):
//
//	l, err := layout.Build(tree,
//	    layout.WithNodeSize(180, 90),
//	    layout.WithSiblingSpacing(20),
//	)
//
// # Connectors
//
// Each [Connector] describes a straight parent-to-child relation. Renderers
// draw it as an orthogonal elbow with [Connector.Path]: down to the vertical
// midpoint, across to the child, down to the child.
//
// # Integration
//
// The layout package sits between hierarchy construction and rendering:
//
//	directory.Repository → hierarchy.Build → layout.Build → sink.RenderSVG
//
// [hierarchy.Tree]: github.com/matzehuels/trombinoscope/pkg/hierarchy
package layout
