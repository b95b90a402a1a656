// Package txerror classifies an error raised during a transaction attempt
// into one of Fatal, Transient, or Connection, by walking its causal chain
// and consulting pluggable Heuristics.
package txerror

// Kind is the ternary classification used to drive the transaction
// manager's retry state machine.
type Kind int

const (
	// Fatal errors are never retried.
	Fatal Kind = iota
	// Transient errors may be retried within the configured budget.
	Transient
	// Connection errors may be retried within the configured budget, and
	// additionally cause the manager to close the Connection before
	// sleeping.
	Connection
)

func (k Kind) String() string {
	switch k {
	case Fatal:
		return "fatal"
	case Transient:
		return "transient"
	case Connection:
		return "connection"
	default:
		return "unknown"
	}
}
