// Package io imports and exports employee lists as JSON or YAML.
//
// # Format
//
// A file holds a flat array of employees. Field names follow the historical
// directory data files:
//
//	[
//	  {"id": 1, "lienHierarchique": null, "prenom": "Alice", "nom": "Martin",
//	   "poste": "CEO", "photo": "/assets/images/photo_1.webp",
//	   "dateNaissance": "1970-03-12"},
//	  {"id": 2, "lienHierarchique": 1, "prenom": "Bob", "nom": "Durand",
//	   "poste": "CTO", "dateNaissance": "1980-07-01"}
//	]
//
// lienHierarchique is the id of the employee's manager, or null for the
// head of the organization. The YAML form uses the same keys.
//
// # Import
//
// Use [ImportFile] to read from a path (format from the extension), or
// [ReadEmployees] to read from any io.Reader:
//
//	list, err := io.ImportFile("employees.yaml")
//
// An empty document decodes to an empty list. Decoding does not validate
// the records; see [directory.Validate].
//
// # Export
//
// Use [ExportFile] or [WriteEmployees]. Exported files re-import to the same
// list, in the same order.
//
// [directory.Validate]: github.com/matzehuels/trombinoscope/pkg/directory.Validate
package io
