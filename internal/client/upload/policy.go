package upload

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/shipseva/docupload/internal/common"
)

type Reason int

const (
	ReasonNone Reason = iota
	ReasonTooLarge
	ReasonDisallowedType
	ReasonDisallowedExtension
)

func (r Reason) String() string {
	switch r {
	case ReasonTooLarge:
		return "TooLarge"
	case ReasonDisallowedType:
		return "DisallowedType"
	case ReasonDisallowedExtension:
		return "DisallowedExtension"
	default:
		return "None"
	}
}

// Policy is what a field accepts.
type Policy struct {
	MaxSize           int64
	AllowedTypes      []string
	AllowedExtensions []string
}

var (
	imageTypes      = []string{"image/jpeg", "image/jpg", "image/png"}
	imageExtensions = []string{"jpg", "jpeg", "png"}
)

// DefaultPolicy accepts JPEG, PNG and PDF up to 5 MiB.
func DefaultPolicy() Policy {
	return Policy{
		MaxSize:           common.MaxUploadSize,
		AllowedTypes:      append(slices.Clone(imageTypes), "application/pdf"),
		AllowedExtensions: append(slices.Clone(imageExtensions), "pdf"),
	}
}

// ImagePolicy accepts JPEG and PNG only.
func ImagePolicy() Policy {
	return Policy{
		MaxSize:           common.MaxUploadSize,
		AllowedTypes:      slices.Clone(imageTypes),
		AllowedExtensions: slices.Clone(imageExtensions),
	}
}

// DocumentPolicy accepts PDF only.
func DocumentPolicy() Policy {
	return Policy{
		MaxSize:           common.MaxUploadSize,
		AllowedTypes:      []string{"application/pdf"},
		AllowedExtensions: []string{"pdf"},
	}
}

type ValidationResult struct {
	Valid   bool
	Reason  Reason
	Message string
}

// Err is nil for a valid result and a *ValidationError otherwise.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Reason: r.Reason, Message: r.Message}
}

type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return common.ErrValidation }

// Validate checks size, then MIME type, then extension. The first failing
// rule wins.
func Validate(f *File, p Policy) ValidationResult {
	if f.Size > p.MaxSize {
		mb := int64(math.Round(float64(p.MaxSize) / (1024 * 1024)))
		return ValidationResult{Reason: ReasonTooLarge, Message: fmt.Sprintf("File size must be less than %dMB", mb)}
	}

	if !slices.Contains(p.AllowedTypes, f.ContentType) {
		return ValidationResult{Reason: ReasonDisallowedType, Message: fmt.Sprintf("File type %s is not allowed", f.ContentType)}
	}

	ext := f.Extension()
	if ext == "" || !slices.Contains(p.AllowedExtensions, ext) {
		return ValidationResult{Reason: ReasonDisallowedExtension, Message: fmt.Sprintf("File extension .%s is not allowed", ext)}
	}

	return ValidationResult{Valid: true}
}

// FormatSize renders a byte count for people, e.g. "1.5 MB".
func FormatSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}

	units := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	i = min(i, len(units)-1)

	v := float64(n) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + units[i]
}
