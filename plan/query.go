// Package plan freezes a set of operations into an ordered, replayable
// ExecutionPlan, with an aggregate idempotency flag and support for
// per-operation deferred rebuild.
package plan

// ReuseHint is an advisory signal about how a Query's prepared form might
// be reused by a driver. It MUST NOT affect correctness.
type ReuseHint int

const (
	// ReuseNone gives no reuse advice.
	ReuseNone ReuseHint = iota
	// ReusePerTransaction hints the statement is worth preparing once per
	// transaction.
	ReusePerTransaction
	// ReusePerConnection hints the statement is worth preparing once per
	// physical connection and reused across transactions.
	ReusePerConnection
)

// Query is an immutable unit of SQL work: text, positional parameters, and
// same-arity driver-specific type tags.
type Query struct {
	SQL       string
	Params    []any
	Types     []string
	ReuseHint ReuseHint
}

// NewQuery constructs a Query. len(params) and len(types) must match; types
// may be nil when the caller has no driver-specific tags to supply.
func NewQuery(sql string, params []any, types []string, hint ReuseHint) Query {
	return Query{
		SQL:       sql,
		Params:    append([]any(nil), params...),
		Types:     append([]string(nil), types...),
		ReuseHint: hint,
	}
}
