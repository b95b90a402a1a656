package txerror

import "strings"

// Classifier reduces a thrown error to one of Fatal, Transient, Connection.
type Classifier struct {
	Heuristics Heuristics
}

// NewClassifier returns a Classifier backed by the given Heuristics. A nil
// Heuristics falls back to DefaultHeuristics.
func NewClassifier(h Heuristics) *Classifier {
	if h == nil {
		h = DefaultHeuristics{}
	}
	return &Classifier{Heuristics: h}
}

// Classify walks err's causal chain from the deepest cause outward,
// extracting a diagnostic tuple per frame and asking the Heuristics,
// connection first, transient second. The first positive answer decides
// the outcome; if no frame yields one, the result is Fatal.
func (c *Classifier) Classify(err error) Kind {
	if err == nil {
		return Fatal
	}

	for _, frame := range chainDeepestFirst(err) {
		d := extract(frame)
		if c.Heuristics.IsConnectionIssue(d.sqlStateOrNil(), d.driverCodeOrNil(), d.Message) {
			return Connection
		}
		if c.Heuristics.IsTransientIssue(d.sqlStateOrNil(), d.driverCodeOrNil(), d.Message) {
			return Transient
		}
	}

	return Fatal
}

// chainDeepestFirst returns err's causal chain ordered from the innermost
// (deepest) cause to the outermost wrapper, via repeated Unwrap.
func chainDeepestFirst(err error) []error {
	var outermostFirst []error
	for e := err; e != nil; e = unwrap(e) {
		outermostFirst = append(outermostFirst, e)
	}

	deepestFirst := make([]error, len(outermostFirst))
	for i, e := range outermostFirst {
		deepestFirst[len(outermostFirst)-1-i] = e
	}
	return deepestFirst
}

func unwrap(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}

func containsAnyFold(message string, substrings []string) bool {
	lower := strings.ToLower(message)
	for _, s := range substrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
