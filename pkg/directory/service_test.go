package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

func newTestService(employees ...Employee) *Service {
	return NewService(NewMemory(employees...), WithClock(func() time.Time { return testNow }))
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	ceo, err := svc.Create(ctx, Employee{FirstName: "Alice", LastName: "Martin", Title: "CEO", BirthDate: "1970-01-01"})
	if err != nil {
		t.Fatalf("Create(ceo) error: %v", err)
	}
	if ceo.ID != 1 {
		t.Errorf("first id = %d, want 1", ceo.ID)
	}
	if ceo.Photo != DefaultPhoto {
		t.Errorf("photo = %q, want default", ceo.Photo)
	}

	cto, err := svc.Create(ctx, Employee{ParentID: IntPtr(ceo.ID), FirstName: "Bob", LastName: "Durand", Title: "CTO", BirthDate: "1980-01-01", Photo: "/b.png"})
	if err != nil {
		t.Fatalf("Create(cto) error: %v", err)
	}
	if cto.ID != 2 || cto.Photo != "/b.png" {
		t.Errorf("cto = %+v", cto)
	}

	got, err := svc.Get(ctx, 2)
	if err != nil || got.FirstName != "Bob" {
		t.Errorf("Get(2) = %+v, %v", got, err)
	}
}

func TestServiceCreateRejects(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(Employee{ID: 1, FirstName: "A", LastName: "B", Title: "C", BirthDate: "1970-01-01"})

	tests := []struct {
		name string
		e    Employee
		code terrors.Code
	}{
		{"invalid fields", Employee{FirstName: "x"}, terrors.ErrCodeInvalidEmployee},
		{"missing manager", Employee{ParentID: IntPtr(99), FirstName: "x", LastName: "y", Title: "z", BirthDate: "1990-01-01"}, terrors.ErrCodeInvalidEmployee},
		{"explicit duplicate id", Employee{ID: 1, FirstName: "x", LastName: "y", Title: "z", BirthDate: "1990-01-01"}, terrors.ErrCodeDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.e)
			if !terrors.Is(err, tt.code) {
				t.Errorf("Create() error = %v, want %s", err, tt.code)
			}
		})
	}

	list, _ := svc.List(ctx)
	if len(list) != 1 {
		t.Errorf("rejected creates changed the repository: %v", ids(list))
	}
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(
		Employee{ID: 1, FirstName: "A"},
		Employee{ID: 2, ParentID: IntPtr(1), FirstName: "B"},
	)

	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete(1) error: %v", err)
	}
	list, _ := svc.List(ctx)
	if got := ids(list); !equalInts(got, []int{2}) {
		t.Errorf("after Delete(1) = %v, want [2]", got)
	}

	if err := svc.Delete(ctx, 1); !terrors.Is(err, terrors.ErrCodeEmployeeNotFound) {
		t.Errorf("Delete(missing) error = %v, want EMPLOYEE_NOT_FOUND", err)
	}
	if _, err := svc.Get(ctx, 1); !terrors.Is(err, terrors.ErrCodeEmployeeNotFound) {
		t.Errorf("Get(missing) error = %v, want EMPLOYEE_NOT_FOUND", err)
	}
}

func TestServiceSeed(t *testing.T) {
	ctx := context.Background()
	seed := []Employee{{ID: 1, FirstName: "A"}, {ID: 2, ParentID: IntPtr(1), FirstName: "B"}}
	calls := 0
	load := func(context.Context) ([]Employee, error) {
		calls++
		return seed, nil
	}

	svc := newTestService()
	n, err := svc.Seed(ctx, load)
	if err != nil || n != 2 {
		t.Fatalf("Seed() = %d, %v, want 2", n, err)
	}

	// A populated directory is never overwritten.
	n, err = svc.Seed(ctx, load)
	if err != nil || n != 0 {
		t.Errorf("second Seed() = %d, %v, want 0", n, err)
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}

	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	if n, _ := svc.Seed(ctx, load); n != 2 {
		t.Errorf("Seed() after Reset = %d, want 2", n)
	}
}

func TestServiceSeedLoaderError(t *testing.T) {
	boom := errors.New("boom")
	svc := newTestService()
	_, err := svc.Seed(context.Background(), func(context.Context) ([]Employee, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("Seed() error = %v, want boom", err)
	}
}

func TestServiceImport(t *testing.T) {
	ctx := context.Background()
	valid := []Employee{
		{ID: 10, FirstName: "A", LastName: "B", Title: "C", BirthDate: "1970-01-01"},
		{ID: 11, ParentID: IntPtr(10), FirstName: "D", LastName: "E", Title: "F", BirthDate: "1980-01-01"},
	}

	svc := newTestService(Employee{ID: 1, FirstName: "Old"})
	n, err := svc.Import(ctx, valid, true)
	if err != nil || n != 2 {
		t.Fatalf("Import(replace) = %d, %v", n, err)
	}
	list, _ := svc.List(ctx)
	if got := ids(list); !equalInts(got, []int{10, 11}) {
		t.Errorf("after replace import = %v, want [10 11]", got)
	}

	_, err = svc.Import(ctx, []Employee{{ID: 12}}, false)
	if !terrors.Is(err, terrors.ErrCodeInvalidEmployee) {
		t.Errorf("Import(invalid) error = %v, want INVALID_EMPLOYEE", err)
	}
	_, err = svc.Import(ctx, []Employee{{FirstName: "A", LastName: "B", Title: "C", BirthDate: "1970-01-01"}}, false)
	if !terrors.Is(err, terrors.ErrCodeInvalidEmployee) {
		t.Errorf("Import(no id) error = %v, want INVALID_EMPLOYEE", err)
	}
	list, _ = svc.List(ctx)
	if len(list) != 2 {
		t.Errorf("failed imports changed the repository: %v", ids(list))
	}
}

// flakyRepo fails a single Add once okAdds inserts went through. A negative
// okAdds never fails.
type flakyRepo struct {
	Repository
	okAdds int
}

func (r *flakyRepo) Add(ctx context.Context, e Employee) error {
	if r.okAdds == 0 {
		r.okAdds = -1
		return errors.New("disk full")
	}
	if r.okAdds > 0 {
		r.okAdds--
	}
	return r.Repository.Add(ctx, e)
}

func TestServiceImportIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	person := func(id int) Employee {
		return Employee{ID: id, FirstName: "A", LastName: "B", Title: "C", BirthDate: "1970-01-01"}
	}
	before := []Employee{person(1), person(2)}

	tests := []struct {
		name    string
		okAdds  int
		batch   []Employee
		replace bool
		code    terrors.Code
	}{
		{"repeated id with replace", -1, []Employee{person(5), person(5)}, true, terrors.ErrCodeDuplicateID},
		{"repeated id", -1, []Employee{person(5), person(5)}, false, terrors.ErrCodeDuplicateID},
		{"id already stored", -1, []Employee{person(5), person(2)}, false, terrors.ErrCodeDuplicateID},
		{"write fails midway", 1, []Employee{person(5), person(6)}, false, ""},
		{"write fails midway with replace", 1, []Employee{person(5), person(6)}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &flakyRepo{Repository: NewMemory(before...), okAdds: tt.okAdds}
			svc := NewService(repo, WithClock(func() time.Time { return testNow }))

			n, err := svc.Import(ctx, tt.batch, tt.replace)
			if err == nil || n != 0 {
				t.Fatalf("Import() = %d, %v, want 0 and an error", n, err)
			}
			if tt.code != "" && !terrors.Is(err, tt.code) {
				t.Errorf("Import() error = %v, want %s", err, tt.code)
			}

			list, _ := svc.List(ctx)
			if got := ids(list); !equalInts(got, []int{1, 2}) {
				t.Errorf("directory after failed import = %v, want [1 2]", got)
			}
		})
	}
}

func TestServiceSeedRejectsRepeatedIDs(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	_, err := svc.Seed(ctx, func(context.Context) ([]Employee, error) {
		return []Employee{{ID: 1, FirstName: "A"}, {ID: 1, FirstName: "B"}}, nil
	})
	if !terrors.Is(err, terrors.ErrCodeDuplicateID) {
		t.Errorf("Seed() error = %v, want DUPLICATE_ID", err)
	}
	if list, _ := svc.List(ctx); len(list) != 0 {
		t.Errorf("failed seed wrote %v", ids(list))
	}
}
