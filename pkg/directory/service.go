package directory

import (
	"context"
	"sync"
	"time"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

// Service applies the directory rules on top of a Repository.
type Service struct {
	repo Repository
	now  func() time.Time

	// mu serializes check-then-write sequences on the repository.
	mu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source used for birth date validation.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService wraps repo.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository returns the wrapped repository.
func (s *Service) Repository() Repository { return s.repo }

// List returns all employees in insertion order.
func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.repo.List(ctx)
}

// Get returns the employee with the given ID.
func (s *Service) Get(ctx context.Context, id int) (Employee, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return Employee{}, err
	}
	if i := indexOf(list, id); i >= 0 {
		return list[i], nil
	}
	return Employee{}, terrors.New(terrors.ErrCodeEmployeeNotFound, "employee %d not found", id)
}

// Create validates e, allocates an ID when e.ID is zero, applies the default
// photo and stores it. The manager, if any, must already exist.
func (s *Service) Create(ctx context.Context, e Employee) (Employee, error) {
	if err := Validate(e, s.now()); err != nil {
		return Employee{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.List(ctx)
	if err != nil {
		return Employee{}, err
	}
	if e.ParentID != nil && indexOf(list, *e.ParentID) < 0 {
		return Employee{}, terrors.New(terrors.ErrCodeInvalidEmployee, "manager %d does not exist", *e.ParentID)
	}
	if e.ID == 0 {
		if e.ID, err = s.repo.NextID(ctx); err != nil {
			return Employee{}, err
		}
	}
	e.Photo = e.PhotoOrDefault()

	if err := s.repo.Add(ctx, e); err != nil {
		return Employee{}, err
	}
	return e, nil
}

// Delete removes the employee with the given ID. Reports of that employee
// are kept; they become orphans and drop out of the chart.
func (s *Service) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if indexOf(list, id) < 0 {
		return terrors.New(terrors.ErrCodeEmployeeNotFound, "employee %d not found", id)
	}
	return s.repo.Remove(ctx, id)
}

// Reset removes every employee.
func (s *Service) Reset(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Loader fetches an initial employee list.
type Loader func(ctx context.Context) ([]Employee, error)

// Seed fills an empty repository from load. A repository that already holds
// employees is left untouched and Seed reports 0. Employees without a photo
// get [DefaultPhoto]. A batch with repeated IDs is rejected before anything
// is written.
func (s *Service) Seed(ctx context.Context, load Loader) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(list) > 0 {
		return 0, nil
	}

	employees, err := load(ctx)
	if err != nil {
		return 0, err
	}
	return s.store(ctx, list, employees, false)
}

// Import stores employees as given, keeping their IDs. With replace set the
// previous content is dropped; otherwise IDs already present are rejected.
// Every record and every ID is checked before anything is written, and a
// failed write restores the previous content, so Import either stores the
// whole batch or nothing.
func (s *Service) Import(ctx context.Context, employees []Employee, replace bool) (int, error) {
	now := s.now()
	for _, e := range employees {
		if e.ID <= 0 {
			return 0, terrors.New(terrors.ErrCodeInvalidEmployee, "imported employee %q has no id", e.Name())
		}
		if err := Validate(e, now); err != nil {
			return 0, terrors.Wrap(terrors.ErrCodeInvalidEmployee, err, "employee %d", e.ID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return s.store(ctx, list, employees, replace)
}

// store writes batch on top of previous (or in its place with replace).
// Callers hold s.mu.
func (s *Service) store(ctx context.Context, previous, batch []Employee, replace bool) (int, error) {
	var existing []Employee
	if !replace {
		existing = previous
	}
	if err := checkIDs(existing, batch); err != nil {
		return 0, err
	}

	if replace {
		if err := s.repo.Clear(ctx); err != nil {
			return 0, err
		}
	}
	for i, e := range batch {
		e.Photo = e.PhotoOrDefault()
		if err := s.repo.Add(ctx, e); err != nil {
			s.rollback(ctx, previous, batch[:i], replace)
			return 0, err
		}
	}
	return len(batch), nil
}

// rollback undoes a partly written batch: added records are removed and,
// after a replace, the previous content is written back.
func (s *Service) rollback(ctx context.Context, previous, added []Employee, replace bool) {
	if replace {
		_ = s.repo.Clear(ctx)
		for _, e := range previous {
			_ = s.repo.Add(ctx, e)
		}
		return
	}
	for _, e := range added {
		_ = s.repo.Remove(ctx, e.ID)
	}
}

// checkIDs rejects a batch that repeats an ID or reuses one from existing.
func checkIDs(existing, batch []Employee) error {
	seen := make(map[int]bool, len(existing)+len(batch))
	for _, e := range existing {
		seen[e.ID] = true
	}
	for _, e := range batch {
		if seen[e.ID] {
			return duplicateID(e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}
