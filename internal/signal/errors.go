package signal

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySignal is returned when the whole input is blank
	ErrEmptySignal = errors.New("signal cannot be empty")

	// ErrEmptyValue is returned when a comma-delimited slot is blank
	ErrEmptyValue = errors.New("invalid signal: empty value")

	// ErrNotAnInteger is the kind carried by ParseError for non-integer slots
	ErrNotAnInteger = errors.New("invalid signal: not an integer")
)

// User-facing messages for analysis service failures
const (
	MsgServiceError    = "An error occurred"
	MsgNetworkError    = "Network error. Please check your connection."
	MsgUnexpectedError = "An unexpected error occurred"
)

// ParseError reports the first slot that failed integer conversion
type ParseError struct {
	// Kind is the sentinel this error matches with errors.Is
	Kind error

	// Value is the offending piece, verbatim after trimming
	Value string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf(`invalid signal: "%s". Enter integers separated by commas.`, e.Value)
}

// Is matches the error against its kind
func (e *ParseError) Is(target error) bool {
	return target == e.Kind
}
