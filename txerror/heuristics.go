package txerror

// Heuristics decides, for a single error frame's diagnostic tuple, whether
// that frame indicates a connection-level or transient-level issue.
// sqlState and driverCode are nil when the frame did not yield one.
type Heuristics interface {
	IsConnectionIssue(sqlState *string, driverCode *int, message string) bool
	IsTransientIssue(sqlState *string, driverCode *int, message string) bool
}

// DefaultHeuristics implements a conservative, widely applicable set of
// connection/transient signals based on common SQLSTATE classes and
// message substrings. Embedders with a specific driver in mind are
// expected to supply their own Heuristics; this default exists so the
// classifier is usable out of the box.
type DefaultHeuristics struct{}

var connectionSQLStates = map[string]bool{
	"08000": true, // connection exception
	"08003": true, // connection does not exist
	"08006": true, // connection failure
	"08001": true, // unable to establish connection
	"08004": true, // rejected connection
}

var transientSQLStates = map[string]bool{
	"40001": true, // serialization failure
	"40P01": true, // deadlock detected
	"55P03": true, // lock not available
}

var connectionSubstrings = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"server closed the connection",
	"server has gone away",
	"bad connection",
	"database is closed",
	"eof",
}

var transientSubstrings = []string{
	"deadlock",
	"lock wait timeout",
	"serialization failure",
	"try restarting transaction",
}

// IsConnectionIssue implements Heuristics.
func (DefaultHeuristics) IsConnectionIssue(sqlState *string, _ *int, message string) bool {
	if sqlState != nil && connectionSQLStates[*sqlState] {
		return true
	}
	return containsAnyFold(message, connectionSubstrings)
}

// IsTransientIssue implements Heuristics.
func (DefaultHeuristics) IsTransientIssue(sqlState *string, _ *int, message string) bool {
	if sqlState != nil && transientSQLStates[*sqlState] {
		return true
	}
	return containsAnyFold(message, transientSubstrings)
}
