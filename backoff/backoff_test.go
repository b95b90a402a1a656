package backoff

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoBackoff_AlwaysZero(t *testing.T) {
	s := NoBackoff{}
	for attempt := 0; attempt < 5; attempt++ {
		assert.Equal(t, int64(0), s.Delay(attempt).Microseconds())
	}
}

func TestNewExponentialJitter_ValidatesBounds(t *testing.T) {
	_, err := NewExponentialJitter(-1, 100, 2.0, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewExponentialJitter(100, 50, 2.0, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewExponentialJitter(100, 200, 1.0, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewExponentialJitter(100, 200, 2.0, -1)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewExponentialJitter(100, 200, 2.0, 0)
	require.NoError(t, err)
}

// Exponential backoff with (base=100, max=5000, mult=2.0, jitter=0) yields
// delays 100, 200, 400, 800, 1600, 3200, 5000, 5000, ... ms.
func TestExponentialJitter_NoJitterSequence_Case1(t *testing.T) {
	s, err := NewExponentialJitter(100, 5000, 2.0, 0)
	require.NoError(t, err)

	want := []int64{100, 200, 400, 800, 1600, 3200, 5000, 5000}
	for attempt, w := range want {
		got := s.Delay(attempt).Microseconds() / 1000
		assert.Equalf(t, w, got, "attempt %d", attempt)
	}
}

// Exponential backoff with (base=1000, max=2500, mult=3.0, jitter=0) yields
// 1000, 2500, 2500, ... ms.
func TestExponentialJitter_NoJitterSequence_Case2(t *testing.T) {
	s, err := NewExponentialJitter(1000, 2500, 3.0, 0)
	require.NoError(t, err)

	want := []int64{1000, 2500, 2500}
	for attempt, w := range want {
		got := s.Delay(attempt).Microseconds() / 1000
		assert.Equalf(t, w, got, "attempt %d", attempt)
	}
}

// The cap applies to the deterministic term only; jitter is added after
// capping, so the observed value may exceed MaxDelayMs by up to JitterMs.
func TestExponentialJitter_JitterAppliedAfterCap(t *testing.T) {
	s, err := NewExponentialJitter(1000, 1000, 2.0, 50)
	require.NoError(t, err)
	s.rand = rand.New(rand.NewSource(1))

	for attempt := 0; attempt < 10; attempt++ {
		ms := s.Delay(attempt).Microseconds() / 1000
		assert.GreaterOrEqual(t, ms, int64(1000))
		assert.LessOrEqual(t, ms, int64(1050))
	}
}

func TestExponentialJitter_DeterministicWithoutJitter(t *testing.T) {
	s, err := NewExponentialJitter(50, 10000, 2.0, 0)
	require.NoError(t, err)

	first := s.Delay(3)
	second := s.Delay(3)
	assert.Equal(t, first, second)
}
