// Package source loads the initial employee list of a directory.
//
// A location is either an http(s) URL or a local path:
//
//	list, err := source.Load(ctx, "https://intranet.example.com/assets/data/employees.json")
//	list, err := source.Load(ctx, "testdata/employees.yaml")
//
// The encoding follows the extension (".yaml"/".yml" for YAML, JSON
// otherwise); for URLs a YAML Content-Type also selects YAML.
//
// Remote fetches retry network failures and 5xx responses with exponential
// backoff and report every request through the observability HTTP hooks.
// A [Client] configured with a cache keeps fetched bodies for a TTL.
package source
