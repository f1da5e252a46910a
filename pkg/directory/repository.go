package directory

import (
	"context"
	"slices"
	"strings"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

// Repository stores employees.
//
// List returns employees in insertion order. Add fails with DUPLICATE_ID
// when the ID is taken. Remove of an unknown ID is a no-op. NextID returns
// one more than the largest stored ID, or 1 for an empty repository.
//
// Implementations are safe for concurrent use.
type Repository interface {
	List(ctx context.Context) ([]Employee, error)
	Add(ctx context.Context, e Employee) error
	Remove(ctx context.Context, id int) error
	NextID(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Backends lists the supported backend names.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendMongo}

// StorageConfig selects and parameterizes a repository backend.
type StorageConfig struct {
	Backend    string `toml:"backend"`
	Path       string `toml:"path"`       // file, sqlite
	DSN        string `toml:"dsn"`        // postgres, mongo
	Database   string `toml:"database"`   // mongo
	Collection string `toml:"collection"` // mongo
}

// Open returns the repository selected by cfg.Backend. An empty backend
// means memory.
func Open(ctx context.Context, cfg StorageConfig) (Repository, error) {
	var (
		repo Repository
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendMemory:
		repo = NewMemory()
	case BackendFile:
		repo, err = asRepo(NewFileStore(cfg.Path))
	case BackendSQLite:
		repo, err = asRepo(OpenSQLite(ctx, cfg.Path))
	case BackendPostgres:
		repo, err = asRepo(OpenPostgres(ctx, cfg.DSN))
	case BackendMongo:
		repo, err = asRepo(OpenMongo(ctx, cfg.DSN, cfg.Database, cfg.Collection))
	default:
		err = terrors.New(terrors.ErrCodeInvalidConfig, "unknown storage backend %q (want one of %s)",
			cfg.Backend, strings.Join(Backends, ", "))
	}
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func asRepo[R Repository](r R, err error) (Repository, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}

func duplicateID(id int) error {
	return terrors.New(terrors.ErrCodeDuplicateID, "employee %d already exists", id)
}

func storageErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if terrors.GetCode(err) != "" {
		return err
	}
	return terrors.Wrap(terrors.ErrCodeStorage, err, "%s", op)
}

// nextID applies the NextID rule to an in-memory list.
func nextID(list []Employee) int {
	if len(list) == 0 {
		return 1
	}
	return slices.MaxFunc(list, func(a, b Employee) int { return a.ID - b.ID }).ID + 1
}
