package txmanager

import (
	"errors"
	"fmt"

	"github.com/AEATech/transaction-manager-core/backoff"
)

// IsolationLevel selects the SQL transaction isolation level to apply when
// beginning a transaction. None means "do not override the session
// default."
type IsolationLevel int

const (
	// IsolationNone leaves the session default isolation level untouched.
	IsolationNone IsolationLevel = iota
	IsolationReadUncommitted
	IsolationReadCommitted
	IsolationRepeatableRead
	IsolationSerializable
)

// ErrInvalidArgument is wrapped by RetryPolicy construction failures.
var ErrInvalidArgument = errors.New("invalid argument")

// RetryPolicy bounds the number of retries and supplies the backoff
// strategy between them. MaxRetries is the number of additional attempts
// after the first; total attempts = 1 + MaxRetries.
type RetryPolicy struct {
	MaxRetries int
	Backoff    backoff.Strategy
}

// NewRetryPolicy validates maxRetries and returns a ready RetryPolicy. A nil
// strategy falls back to backoff.NoBackoff{}.
func NewRetryPolicy(maxRetries int, strategy backoff.Strategy) (RetryPolicy, error) {
	if maxRetries < 0 {
		return RetryPolicy{}, fmt.Errorf("%w: maxRetries must be >= 0, got %d", ErrInvalidArgument, maxRetries)
	}
	if strategy == nil {
		strategy = backoff.NoBackoff{}
	}
	return RetryPolicy{MaxRetries: maxRetries, Backoff: strategy}, nil
}

// TxOptions carries per-run transaction configuration. The zero value is
// meaningful: IsolationNone and a nil RetryPolicy (meaning "use the
// manager's configured default").
type TxOptions struct {
	IsolationLevel IsolationLevel
	RetryPolicy    *RetryPolicy
}
