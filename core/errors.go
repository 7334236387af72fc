package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
// Value carries the offending input so the UI can re-display it.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
	Value string `json:"value,omitempty"`
}

// Adjustment records a silent, acceptable correction made to a field.
type Adjustment struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
	Old    string `json:"old"`
	New    string `json:"new"`
}

// Adjustment reasons.
const (
	AdjustTrimmed      = "whitespace trimmed"
	AdjustTruncated    = "text truncated"
	AdjustPhoneFormat  = "phone reformatted"
	AdjustPublishMoved = "publish date moved to now"
	AdjustEmailCase    = "email normalized"
)

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
