package demo

import (
	"context"
	"fmt"

	"github.com/AEATech/transaction-manager-core/plan"
	"github.com/AEATech/transaction-manager-core/txmanager"
)

// flakyConnection wraps a real Connection and fails the first failures
// calls to ExecuteQuery with a transient-looking error, so the demo binary
// can show the retry state machine actually retrying instead of only
// exercising the happy path.
type flakyConnection struct {
	txmanager.Connection
	failuresRemaining int
}

func newFlakyConnection(inner txmanager.Connection, failures int) *flakyConnection {
	return &flakyConnection{Connection: inner, failuresRemaining: failures}
}

func (c *flakyConnection) ExecuteQuery(ctx context.Context, q plan.Query) (int64, error) {
	if c.failuresRemaining > 0 {
		c.failuresRemaining--
		return 0, fmt.Errorf("simulated deadlock: try restarting transaction")
	}
	return c.Connection.ExecuteQuery(ctx, q)
}
