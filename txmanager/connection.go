package txmanager

import (
	"context"

	"github.com/AEATech/transaction-manager-core/plan"
)

// Connection is the database session the manager drives through one
// attempt at a time. It is owned, for the duration of Run, exclusively by
// the manager: concurrent use by any other actor is undefined behaviour.
type Connection interface {
	// BeginTransactionWithOptions opens a transaction and, if
	// options.IsolationLevel is not IsolationNone, applies it to this
	// transaction only. It MUST NOT implicitly reconnect while a
	// transaction is already active.
	BeginTransactionWithOptions(ctx context.Context, options TxOptions) error
	// ExecuteQuery executes q against the active transaction and returns
	// the number of affected rows.
	ExecuteQuery(ctx context.Context, q plan.Query) (int64, error)
	// Commit commits the active transaction.
	Commit(ctx context.Context) error
	// RollBack rolls back the active transaction.
	RollBack(ctx context.Context) error
	// Close forces a fresh physical session on the next call. It MUST be
	// idempotent: closing an already-closed Connection is a no-op.
	Close() error
}
