// Package directory holds the employee records behind the org chart.
//
// An [Employee] is the typed payload of a [hierarchy.Record]: its ParentID
// is the manager link used to build the chart. Employees live in a
// [Repository], of which several backends exist:
//
//   - memory: an in-process slice, used in tests and by the server when no
//     storage is configured
//   - file: a single JSON document on disk, the CLI default
//   - sqlite: a local database file (pure Go driver, no cgo)
//   - postgres: a shared database for multi-instance deployments
//   - mongo: a document collection
//
// Use [Open] to pick a backend from a [StorageConfig], and wrap it in a
// [Service] to get validation, ID allocation and seeding:
//
//	repo, err := directory.Open(ctx, directory.StorageConfig{Backend: "file", Path: "employees.json"})
//	if err != nil {
//	    return err
//	}
//	defer repo.Close()
//
//	svc := directory.NewService(repo)
//	e, err := svc.Create(ctx, directory.Employee{FirstName: "Ada", LastName: "Lovelace", ...})
//
// Every repository lists employees in insertion order, which is the order
// siblings appear in on the chart.
//
// [hierarchy.Record]: github.com/matzehuels/trombinoscope/pkg/hierarchy.Record
package directory
