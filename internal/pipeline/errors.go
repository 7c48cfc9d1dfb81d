package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNoClauses is returned when segmentation keeps no clause
	ErrNoClauses = errors.New("no clauses found")
	// ErrInternal marks a broken invariant inside the analysis
	ErrInternal = errors.New("internal analysis error")
)

// InputError marks a request rejected because of its input,
// as opposed to a failure of the analyzer itself
type InputError struct {
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err is, or wraps, an *InputError
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// Reason returns the user-facing reason for an input error, or "" otherwise
func Reason(err error) string {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Reason
	}
	return ""
}
