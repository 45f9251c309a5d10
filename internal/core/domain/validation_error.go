package domain

import "fmt"

// ValidationFailed is returned when the pipeline refuses to proceed
// because rule violations were accumulated. It carries the full report
// so callers can print every violated rule, not just a count.
type ValidationFailed struct {
	Report *Report
}

// Error implements the error interface.
func (e *ValidationFailed) Error() string {
	n := len(e.Report.Errors())
	return fmt.Sprintf("validation failed with %d error(s)", n)
}

// Unwrap links the typed error to the ErrValidation sentinel.
func (e *ValidationFailed) Unwrap() error {
	return ErrValidation
}
