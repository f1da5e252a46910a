package pipeline

import (
	"github.com/matzehuels/trombinoscope/pkg/directory"
	"github.com/matzehuels/trombinoscope/pkg/hierarchy"
)

// Build assembles the hierarchy of employees. Orphans are logged as
// warnings and left out of the tree unless opts.StrictOrphans is set.
func Build(employees []directory.Employee, opts Options) (*hierarchy.Tree, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	hopts := []hierarchy.Option{
		hierarchy.WithWarningFunc(func(w hierarchy.OrphanRecordWarning) {
			logger.Warn("employee left out of the chart", "id", w.ID, "manager", w.ParentID)
		}),
	}
	if opts.LastRootWins {
		hopts = append(hopts, hierarchy.WithLastRootWins())
	}
	if opts.StrictOrphans {
		hopts = append(hopts, hierarchy.WithStrictOrphans())
	}

	return hierarchy.Build(directory.Records(employees), hopts...)
}
