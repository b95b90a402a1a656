package demo

import "github.com/AEATech/transaction-manager-core/plan"

// staticOperation wraps a fixed plan.Query that never needs deferred build.
type staticOperation struct {
	query      plan.Query
	idempotent bool
}

func (o staticOperation) Build() (plan.Query, error) { return o.query, nil }
func (o staticOperation) IsIdempotent() bool         { return o.idempotent }

func createLedgerTable() plan.Operation {
	return staticOperation{
		query:      plan.NewQuery("CREATE TABLE IF NOT EXISTS ledger (id INTEGER PRIMARY KEY, amount INTEGER)", nil, nil, plan.ReuseNone),
		idempotent: true,
	}
}

func insertLedgerEntry(amount int) plan.Operation {
	return staticOperation{
		query:      plan.NewQuery("INSERT INTO ledger (amount) VALUES (?)", []any{amount}, nil, plan.ReuseNone),
		idempotent: false,
	}
}

// deferredCounterInsert increments counter on every Build call and inserts
// the new value, so each attempt builds a fresh query inside its own
// transaction rather than replaying one captured before the attempt began.
type deferredCounterInsert struct {
	counter *int
}

func (deferredCounterInsert) DeferredBuild() bool { return true }

func (o deferredCounterInsert) Build() (plan.Query, error) {
	*o.counter++
	return plan.NewQuery("INSERT INTO ledger (amount) VALUES (?)", []any{*o.counter}, nil, plan.ReuseNone), nil
}

func (deferredCounterInsert) IsIdempotent() bool { return false }
