package txmanager

import "fmt"

// UnknownCommitStateError is raised when commit() failed on a non-idempotent
// plan: whether the commit actually landed is unknown, so retrying would
// risk silently duplicating effects. Manual reconciliation is required.
type UnknownCommitStateError struct {
	Cause error
}

func (e *UnknownCommitStateError) Error() string {
	return fmt.Sprintf("commit failed in unknown state; manual reconciliation required because the operation is not idempotent: %v", e.Cause)
}

// Unwrap exposes the original commit error for errors.Is/errors.As.
func (e *UnknownCommitStateError) Unwrap() error {
	return e.Cause
}
