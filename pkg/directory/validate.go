package directory

import (
	"errors"
	"time"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

// Validate checks the form rules of a new or imported employee: names,
// title and birth date must be present, the birth date must be a past
// YYYY-MM-DD date and the photo must be a path, URL or data URL.
//
// All failing fields are reported, joined into a single error whose code is
// INVALID_EMPLOYEE.
func Validate(e Employee, now time.Time) error {
	var errs []error
	for _, f := range []struct{ name, value string }{
		{"first name", e.FirstName},
		{"last name", e.LastName},
		{"title", e.Title},
	} {
		if err := terrors.ValidateRequired(f.name, f.value); err != nil {
			errs = append(errs, err)
		}
	}
	if err := terrors.ValidateDate("birth date", e.BirthDate, now); err != nil {
		errs = append(errs, err)
	}
	if err := terrors.ValidatePhoto(e.Photo); err != nil {
		errs = append(errs, err)
	}
	if e.ParentID != nil && *e.ParentID == e.ID && e.ID != 0 {
		errs = append(errs, terrors.New(terrors.ErrCodeInvalidEmployee, "employee %d cannot manage itself", e.ID))
	}

	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return terrors.Wrap(terrors.ErrCodeInvalidEmployee, errors.Join(errs...), "%d invalid fields", len(errs))
}
