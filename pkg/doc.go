// Package pkg provides the core libraries for Trombinoscope, an employee
// directory with an organization chart.
//
// # Overview
//
// Trombinoscope turns a flat list of employees, each naming its manager,
// into a top-down org chart. The pkg directory is organized into:
//
//  1. [directory] - Employees, validation and storage backends
//  2. [hierarchy] - Tree assembly from parent links (roots, orphans, cycles)
//  3. [layout] - Subtree-width layout of boxes and elbow connectors
//  4. [render] - SVG, JSON, DOT, PNG, PDF and HTML output
//  5. [pipeline] - Orchestration (build → layout → render) with caching
//  6. [cache], [config], [source], [query], [io] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Employee list (JSON/YAML file, URL, database)
//	         ↓
//	    [directory] package (validate + store)
//	         ↓
//	    [hierarchy] package (records → rooted tree)
//	         ↓
//	    [layout] package (tree → positioned boxes + connectors)
//	         ↓
//	    [render/sink] package (SVG/JSON/DOT/PNG/PDF/HTML)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/trombinoscope/pkg/directory"
//	    "github.com/matzehuels/trombinoscope/pkg/hierarchy"
//	    "github.com/matzehuels/trombinoscope/pkg/layout"
//	    "github.com/matzehuels/trombinoscope/pkg/render/sink"
//	)
//
//	// 1. Build the hierarchy
//	tree, err := hierarchy.Build(directory.Records(employees))
//	if err != nil {
//	    // NoRootError, AmbiguousRootError, CyclicHierarchyError, ...
//	}
//
//	// 2. Compute layout
//	l, err := layout.Build(tree)
//
//	// 3. Render to SVG
//	svg := sink.RenderSVG(l)
//
// Or run the whole pipeline with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, employees, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//
// # Error Handling
//
// Errors carry a code from [errors]; use errors.Is(err, code) to branch.
// Hierarchy failures (no root, several roots, cycles) mean "no chart to
// render", not a broken directory.
//
// [directory]: https://pkg.go.dev/github.com/matzehuels/trombinoscope/pkg/directory
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/trombinoscope/pkg/hierarchy
// [layout]: https://pkg.go.dev/github.com/matzehuels/trombinoscope/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/trombinoscope/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/trombinoscope/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/trombinoscope/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/trombinoscope/pkg/config
// [source]: https://pkg.go.dev/github.com/matzehuels/trombinoscope/pkg/source
// [query]: https://pkg.go.dev/github.com/matzehuels/trombinoscope/pkg/query
// [io]: https://pkg.go.dev/github.com/matzehuels/trombinoscope/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/trombinoscope/pkg/errors
package pkg
