// Package backoff maps a retry attempt index to a wait Duration.
package backoff

import (
	"fmt"
	"math/rand"
	"time"

	retrybackoff "github.com/Rican7/retry/backoff"

	"github.com/AEATech/transaction-manager-core/duration"
)

// Strategy decides how long to wait before the next attempt. Implementations
// must be deterministic for a given attempt index unless they explicitly
// use randomness (ExponentialJitter does, for its jitter term only).
type Strategy interface {
	Delay(attempt int) duration.Duration
}

// NoBackoff never waits.
type NoBackoff struct{}

// Delay implements Strategy.
func (NoBackoff) Delay(int) duration.Duration {
	return duration.Zero()
}

// ExponentialJitter grows the delay exponentially with the attempt index,
// caps it at MaxDelayMs, and then adds a uniformly distributed jitter term
// on top of the cap. The cap applies only to the deterministic term:
// jitter is added after capping, so the observed delay may exceed
// MaxDelayMs by up to JitterMs.
type ExponentialJitter struct {
	BaseDelayMs int64
	MaxDelayMs  int64
	Multiplier  float64
	JitterMs    int64

	// rand is a seam for deterministic tests; when unset, a per-instance
	// source seeded from the clock is created lazily the first time it's
	// needed.
	rand *rand.Rand
}

// NewExponentialJitter validates its parameters and returns a ready
// Strategy, mirroring the teacher's convention of validating constructor
// arguments up front and returning an error rather than panicking deep
// inside the retry loop.
func NewExponentialJitter(baseDelayMs, maxDelayMs int64, multiplier float64, jitterMs int64) (*ExponentialJitter, error) {
	if baseDelayMs < 0 {
		return nil, fmt.Errorf("%w: baseDelayMs must be >= 0, got %d", ErrInvalidArgument, baseDelayMs)
	}
	if maxDelayMs < baseDelayMs {
		return nil, fmt.Errorf("%w: maxDelayMs (%d) must be >= baseDelayMs (%d)", ErrInvalidArgument, maxDelayMs, baseDelayMs)
	}
	if multiplier <= 1.0 {
		return nil, fmt.Errorf("%w: multiplier must be > 1.0, got %f", ErrInvalidArgument, multiplier)
	}
	if jitterMs < 0 {
		return nil, fmt.Errorf("%w: jitterMs must be >= 0, got %d", ErrInvalidArgument, jitterMs)
	}

	return &ExponentialJitter{
		BaseDelayMs: baseDelayMs,
		MaxDelayMs:  maxDelayMs,
		Multiplier:  multiplier,
		JitterMs:    jitterMs,
	}, nil
}

// Delay implements Strategy. The deterministic growth term is computed via
// Rican7/retry's Exponential backoff algorithm (unit * base^attempt), then
// capped and jittered in that exact order: jitter is added after capping,
// which differs from how Rican7/retry's own jitter sub-package composes
// (it jitters before capping) and so cannot be used directly for this step.
func (e *ExponentialJitter) Delay(attempt int) duration.Duration {
	algorithm := retrybackoff.Exponential(time.Duration(e.BaseDelayMs)*time.Millisecond, e.Multiplier)
	grown := algorithm(uint(attempt))
	grownMs := grown.Milliseconds()

	capped := grownMs
	if capped > e.MaxDelayMs {
		capped = e.MaxDelayMs
	}

	jitter := int64(0)
	if e.JitterMs > 0 {
		jitter = e.jitterSource().Int63n(e.JitterMs + 1)
	}

	return duration.FromMilliseconds(capped + jitter)
}

func (e *ExponentialJitter) jitterSource() *rand.Rand {
	if e.rand == nil {
		e.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e.rand
}
