// Package query filters employees with CEL expressions.
//
// An expression sees one variable, e, a map with the keys
//
//	id, parent_id, first_name, last_name, name, title, birth_date, age
//
// parent_id is null for the head of the organization and age is -1 when
// the birth date is unreadable. Examples:
//
//	e.age >= 40
//	e.title.contains("Développeur") && e.parent_id == 3
//	e.last_name.startsWith("M") || e.parent_id == null
package query

import (
	"strings"
	"sync"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/matzehuels/trombinoscope/pkg/directory"
	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

// Filter is a compiled employee predicate. The zero Filter and a Filter
// compiled from an empty expression match everything.
type Filter struct {
	expr string
	prg  cel.Program
	now  func() time.Time
}

var (
	envOnce sync.Once
	env     *cel.Env
	envErr  error

	programs sync.Map // expression -> cel.Program
)

func newEnv() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(cel.Variable("e", cel.MapType(cel.StringType, cel.DynType)))
	})
	return env, envErr
}

// Compile parses and type-checks expr. Compiled programs are shared across
// calls with the same expression.
func Compile(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	f := &Filter{expr: expr, now: time.Now}
	if expr == "" {
		return f, nil
	}
	if cached, ok := programs.Load(expr); ok {
		f.prg = cached.(cel.Program)
		return f, nil
	}

	e, err := newEnv()
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInternal, err, "create filter environment")
	}
	ast, issues := e.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInvalidFilter, issues.Err(), "compile filter %q", expr)
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, terrors.New(terrors.ErrCodeInvalidFilter, "filter %q must be a boolean expression, got %s", expr, out)
	}
	prg, err := e.Program(ast)
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInvalidFilter, err, "build filter %q", expr)
	}

	programs.Store(expr, prg)
	f.prg = prg
	return f, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) *Filter {
	f, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// At fixes the time used to compute ages. A nil filter stays nil.
func (f *Filter) At(now time.Time) *Filter {
	if f == nil {
		return nil
	}
	g := *f
	g.now = func() time.Time { return now }
	return &g
}

// Match evaluates the filter against e.
func (f *Filter) Match(e directory.Employee) (bool, error) {
	if f == nil || f.prg == nil {
		return true, nil
	}
	out, _, err := f.prg.Eval(map[string]any{"e": Vars(e, f.now())})
	if err != nil {
		return false, terrors.Wrap(terrors.ErrCodeInvalidFilter, err, "evaluate filter %q on employee %d", f.expr, e.ID)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, terrors.New(terrors.ErrCodeInvalidFilter, "filter %q returned %v, not a boolean", f.expr, out.Value())
	}
	return b, nil
}

// Apply returns the employees matching the filter, in input order.
func (f *Filter) Apply(employees []directory.Employee) ([]directory.Employee, error) {
	if f == nil || f.prg == nil {
		return employees, nil
	}
	out := make([]directory.Employee, 0, len(employees))
	for _, e := range employees {
		ok, err := f.Match(e)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// Vars returns the CEL variables exposed for e.
func Vars(e directory.Employee, now time.Time) map[string]any {
	var parent any
	if e.ParentID != nil {
		parent = int64(*e.ParentID)
	}
	return map[string]any{
		"id":         int64(e.ID),
		"parent_id":  parent,
		"first_name": e.FirstName,
		"last_name":  e.LastName,
		"name":       e.Name(),
		"title":      e.Title,
		"birth_date": e.BirthDate,
		"age":        int64(e.Age(now)),
	}
}
