package purge

import "fmt"

// EnumerationError reports that the top-level scope of a run could not be
// enumerated. It is fatal: the run produces no outcomes at all. Failures
// on individual items are never wrapped in it; they become error outcomes
// instead.
type EnumerationError struct {
	Scope string
	Err   error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("failed to enumerate %s scope: %v", e.Scope, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }
