package plan

import "reflect"

// Operation is the unit of work a caller submits to a plan. Build is pure
// and deterministic unless the operation's concrete type is registered as
// deferred-build (see DeferredResolver), in which case it may observe
// intra-transaction state. IsIdempotent describes the effect on the
// database of executing the resulting Query, not of calling the method
// itself: true iff running the Query twice in sequence leaves the database
// in the same final state as running it once.
type Operation interface {
	Build() (Query, error)
	IsIdempotent() bool
}

// DeferredBuild is an optional capability a concrete Operation type may
// implement to mark itself as deferred-build: its Query must be
// reconstructed inside the active transaction on every attempt, typically
// because it depends on reads performed earlier within that same attempt.
// This is a type-level property, not a per-instance one: a DeferredResolver
// is expected to answer it once per concrete type.
type DeferredBuild interface {
	DeferredBuild() bool
}

// DeferredResolver decides, for a given Operation, whether its build must
// be deferred to iteration time rather than performed eagerly during plan
// construction. It MUST NOT error for well-formed inputs.
type DeferredResolver interface {
	IsDeferred(op Operation) bool
}

// ClassResolver is a DeferredResolver that answers via the DeferredBuild
// capability and caches the answer per concrete type, since the decision
// is stable for every instance of a class.
type ClassResolver struct {
	cache map[reflect.Type]bool
}

// NewClassResolver returns a ready ClassResolver.
func NewClassResolver() *ClassResolver {
	return &ClassResolver{cache: make(map[reflect.Type]bool)}
}

// IsDeferred implements DeferredResolver.
func (r *ClassResolver) IsDeferred(op Operation) bool {
	t := reflect.TypeOf(op)
	if deferred, ok := r.cache[t]; ok {
		return deferred
	}

	deferred := false
	if d, ok := op.(DeferredBuild); ok {
		deferred = d.DeferredBuild()
	}
	r.cache[t] = deferred
	return deferred
}
