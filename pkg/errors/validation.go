package errors

import (
	"strings"
	"time"
	"unicode"
)

// DateLayout is the accepted layout for birth dates (HTML date inputs).
const DateLayout = "2006-01-02"

// maxFieldLength bounds free-text employee fields.
const maxFieldLength = 256

// ValidateRequired checks that a free-text form field is present.
// Blank values (only whitespace) are rejected the same way the directory
// form rejects them; control characters are refused outright.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return New(ErrCodeInvalidEmployee, "%s: field must not be empty", field)
	}

	if len(value) > maxFieldLength {
		return New(ErrCodeInvalidEmployee, "%s: too long (max %d characters)", field, maxFieldLength)
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidEmployee, "%s: contains invalid control characters", field)
		}
	}

	return nil
}

// ValidateDate checks that value is a calendar date in [DateLayout] form
// that does not lie after now.
func ValidateDate(field, value string, now time.Time) error {
	if err := ValidateRequired(field, value); err != nil {
		return err
	}

	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return New(ErrCodeInvalidEmployee, "%s: expected YYYY-MM-DD, got %q", field, value)
	}
	if d.After(now) {
		return New(ErrCodeInvalidEmployee, "%s: date lies in the future", field)
	}
	return nil
}

// ValidatePhoto accepts an empty value (a default is applied later), a
// site-relative path, an http(s) URL or a base64 data URL.
func ValidatePhoto(value string) error {
	switch {
	case value == "":
		return nil
	case strings.HasPrefix(value, "data:image/"):
		if !strings.Contains(value, ";base64,") {
			return New(ErrCodeInvalidEmployee, "photo: data URL must be base64 encoded")
		}
		return nil
	case strings.HasPrefix(value, "/"):
		if strings.Contains(value, "..") {
			return New(ErrCodeInvalidEmployee, "photo: path cannot contain traversal sequences (..)")
		}
		return nil
	default:
		if err := ValidateURL(value); err != nil {
			return New(ErrCodeInvalidEmployee, "photo: must be a path, an http(s) URL or a data URL")
		}
		return nil
	}
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidatePath validates a local file path given on the command line or in
// configuration. It rejects empty paths and embedded control characters.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
