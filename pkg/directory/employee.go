package directory

import (
	"strings"
	"time"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
	"github.com/matzehuels/trombinoscope/pkg/hierarchy"
)

// DefaultPhoto is used for employees created without a picture.
const DefaultPhoto = "/assets/images/photo_1.webp"

// Employee is one person of the directory. The JSON field names follow the
// historical data files so existing exports load unchanged.
type Employee struct {
	ID        int    `json:"id" yaml:"id" bson:"id"`
	ParentID  *int   `json:"lienHierarchique" yaml:"lienHierarchique" bson:"parent_id"`
	FirstName string `json:"prenom" yaml:"prenom" bson:"first_name"`
	LastName  string `json:"nom" yaml:"nom" bson:"last_name"`
	Title     string `json:"poste" yaml:"poste" bson:"title"`
	Photo     string `json:"photo,omitempty" yaml:"photo,omitempty" bson:"photo,omitempty"`
	BirthDate string `json:"dateNaissance" yaml:"dateNaissance" bson:"birth_date"`

	// Level is informational only; the chart derives depth from ParentID.
	Level *int `json:"niveauHierarchique,omitempty" yaml:"niveauHierarchique,omitempty" bson:"level,omitempty"`
}

// Name returns "FirstName LastName".
func (e Employee) Name() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// IsRoot reports whether e has no manager.
func (e Employee) IsRoot() bool { return e.ParentID == nil }

// Record converts e into a hierarchy record carrying e as payload.
func (e Employee) Record() hierarchy.Record {
	r := hierarchy.Record{ID: e.ID, Payload: e}
	if e.ParentID != nil {
		r.ParentID = hierarchy.Parent(*e.ParentID)
	}
	return r
}

// Records converts a list of employees, keeping order.
func Records(employees []Employee) []hierarchy.Record {
	out := make([]hierarchy.Record, len(employees))
	for i, e := range employees {
		out[i] = e.Record()
	}
	return out
}

// FromRecord extracts the employee payload of r.
func FromRecord(r hierarchy.Record) (Employee, bool) {
	e, ok := r.Payload.(Employee)
	return e, ok
}

// Birth parses BirthDate.
func (e Employee) Birth() (time.Time, error) {
	t, err := time.Parse(terrors.DateLayout, strings.TrimSpace(e.BirthDate))
	if err != nil {
		return time.Time{}, terrors.Wrap(terrors.ErrCodeInvalidEmployee, err, "employee %d: invalid birth date %q", e.ID, e.BirthDate)
	}
	return t, nil
}

// Age returns the number of full years between the birth date and now.
// It returns -1 when the birth date cannot be parsed.
func (e Employee) Age(now time.Time) int {
	born, err := e.Birth()
	if err != nil {
		return -1
	}
	years := now.Year() - born.Year()
	if !sameOrLaterInYear(now, born) {
		years--
	}
	return max(years, 0)
}

func sameOrLaterInYear(now, born time.Time) bool {
	if now.Month() != born.Month() {
		return now.Month() > born.Month()
	}
	return now.Day() >= born.Day()
}

// PhotoOrDefault returns Photo, or DefaultPhoto when it is empty.
func (e Employee) PhotoOrDefault() string {
	if strings.TrimSpace(e.Photo) == "" {
		return DefaultPhoto
	}
	return e.Photo
}

// IntPtr returns a pointer to v, for building ParentID values.
func IntPtr(v int) *int { return &v }
