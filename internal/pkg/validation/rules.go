package validation

import (
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern - configurable
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// URL pattern - http(s) links only, used for the Facebook profile link
	URLPattern = `^https?://[^\s]+\.[^\s]+$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email *regexp.Regexp
	URL   *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
	URL:   regexp.MustCompile(URLPattern),
}

// IsValidEmail reports whether the value is a plausible email address.
func IsValidEmail(value string) bool {
	return CompiledPatterns.Email.MatchString(strings.TrimSpace(value))
}

// IsValidURL reports whether the value is a plausible http(s) URL.
func IsValidURL(value string) bool {
	return CompiledPatterns.URL.MatchString(strings.TrimSpace(value))
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	trimmed := strings.TrimSpace(v.Value)

	// Check if required
	if v.Required && trimmed == "" {
		return false
	}

	// Skip other validations for empty optional values
	if !v.Required && trimmed == "" {
		return true
	}

	// Check min length
	if v.MinLen > 0 && len(trimmed) < v.MinLen {
		return false
	}

	// Check max length
	if v.MaxLen > 0 && len(trimmed) > v.MaxLen {
		return false
	}

	// Check pattern
	if v.Pattern != nil && !v.Pattern.MatchString(trimmed) {
		return false
	}

	return true
}

// Image upload constraints for the personal photo field.
const (
	MaxPhotoBytes = 2 << 20 // 2MB
)

// allowedPhotoExtensions maps acceptable photo file extensions.
var allowedPhotoExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

// allowedPhotoMimeTypes maps acceptable photo content types.
var allowedPhotoMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// PhotoIssue describes why an uploaded photo was rejected.
type PhotoIssue string

const (
	PhotoOK       PhotoIssue = ""
	PhotoMissing  PhotoIssue = "missing"
	PhotoBadType  PhotoIssue = "type"
	PhotoTooLarge PhotoIssue = "size"
)

// CheckPhoto validates the uploaded personal photo header against the
// jpeg/jpg/png and 2MB constraints. The content type reported by the client
// is checked alongside the extension; the stored file is renamed anyway.
func CheckPhoto(fh *multipart.FileHeader) PhotoIssue {
	if fh == nil || fh.Size == 0 {
		return PhotoMissing
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedPhotoExtensions[ext] {
		return PhotoBadType
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && !allowedPhotoMimeTypes[strings.ToLower(ct)] {
		return PhotoBadType
	}
	if fh.Size > MaxPhotoBytes {
		return PhotoTooLarge
	}
	return PhotoOK
}
