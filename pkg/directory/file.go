package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/matzehuels/trombinoscope/pkg/buildinfo"
)

// FileStore is a Repository persisted as a JSON array in a single file.
// A missing file reads as an empty directory; Clear deletes the file.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore opens the store at path.
// If path is empty, defaults to ~/.config/trombinoscope/employees.json.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := buildinfo.ConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get config dir: %w", err)
		}
		path = filepath.Join(dir, "employees.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, storageErr(err, "create data dir")
	}
	return &FileStore{path: path}, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) List(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read()
}

func (s *FileStore) Add(ctx context.Context, e Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read()
	if err != nil {
		return err
	}
	if indexOf(list, e.ID) >= 0 {
		return duplicateID(e.ID)
	}
	return s.write(append(list, e))
}

func (s *FileStore) Remove(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read()
	if err != nil {
		return err
	}
	if indexOf(list, id) < 0 {
		return nil
	}
	return s.write(slices.DeleteFunc(list, func(e Employee) bool { return e.ID == id }))
}

func (s *FileStore) NextID(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, err := s.read()
	if err != nil {
		return 0, err
	}
	return nextID(list), nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return storageErr(err, "remove data file")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() ([]Employee, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, storageErr(err, "read data file")
	}
	if len(data) == 0 {
		return nil, nil
	}

	var list []Employee
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, storageErr(err, "parse data file "+s.path)
	}
	return list, nil
}

// write replaces the file atomically through a temp file in the same dir.
func (s *FileStore) write(list []Employee) error {
	if list == nil {
		list = []Employee{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return storageErr(err, "marshal employees")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".employees-*.json")
	if err != nil {
		return storageErr(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storageErr(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return storageErr(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return storageErr(err, "replace data file")
	}
	return nil
}

var _ Repository = (*FileStore)(nil)
