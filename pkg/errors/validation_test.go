package errors

import (
	"strings"
	"testing"
	"time"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Martin", false},
		{"valid accents", "Hélène", false},
		{"valid with space", "Directeur Général", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"tab only", "\t", true},
		{"too long", strings.Repeat("a", 300), true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired("nom", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidEmployee) {
				t.Errorf("ValidateRequired(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidEmployee)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "1980-04-12", false},
		{"today", "2025-06-01", false},

		{"empty", "", true},
		{"wrong layout", "12/04/1980", true},
		{"impossible day", "1980-02-31", true},
		{"future", "2030-01-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDate("dateNaissance", tt.input, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePhoto(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty uses default", "", false},
		{"site path", "/assets/images/photo_1.webp", false},
		{"https", "https://example.com/p.png", false},
		{"data url", "data:image/png;base64,iVBORw0KGgo=", false},

		{"traversal", "/assets/../secret", true},
		{"data url not base64", "data:image/svg+xml,<svg/>", true},
		{"ftp", "ftp://example.com/p.png", true},
		{"bare word", "photo.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhoto(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePhoto(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid https", "https://example.com/data.json", false},
		{"valid http", "http://localhost:8080/data.json", false},

		{"empty", "", true},
		{"no scheme", "example.com", true},
		{"file scheme", "file:///etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data/employees.json", false},
		{"absolute", "/tmp/employees.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
