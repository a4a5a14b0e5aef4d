package kyc

import (
	"fmt"
	"strings"
)

// FieldFailure names a field and why it did not make it into a submission.
type FieldFailure struct {
	Field   string
	Message string
}

// AbortError stops a submission before the backend is called. Kind is
// common.ErrValidation, common.ErrMandatoryMissing or common.ErrUploadsFailed.
type AbortError struct {
	Kind     error
	Failures []FieldFailure
}

func (e *AbortError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%v: %s", e.Kind, strings.Join(parts, "; "))
}

func (e *AbortError) Unwrap() error { return e.Kind }

// Fields returns the names of the failing fields.
func (e *AbortError) Fields() []string {
	out := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		if f.Field != "" {
			out = append(out, f.Field)
		}
	}
	return out
}

// BackendError is a non-2xx answer from the KYC backend. Message is the
// backend's own text.
type BackendError struct {
	Kind       error
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendError) Error() string { return e.Message }

func (e *BackendError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
