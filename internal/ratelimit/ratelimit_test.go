package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestLimiter returns a limiter with instrumented time so tests do not
// sleep for real.
func newTestLimiter(cfg Config) (*Limiter, *[]time.Duration, *time.Time) {
	l := New(cfg)

	clock := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	var slept []time.Duration

	l.now = func() time.Time { return clock }
	l.sleep = func(_ context.Context, d time.Duration) {
		slept = append(slept, d)
		clock = clock.Add(d)
	}
	return l, &slept, &clock
}

func TestAcquire_DelayWithinBounds(t *testing.T) {
	t.Parallel()

	cfg := Config{MinDelay: time.Second, MaxDelay: 3 * time.Second, SourceGap: time.Millisecond}
	l, slept, _ := newTestLimiter(cfg)

	for range 50 {
		l.Acquire(context.Background(), "reddit")
	}

	require.Len(t, *slept, 50)
	for _, d := range *slept {
		require.GreaterOrEqual(t, d, cfg.MinDelay)
		require.LessOrEqual(t, d, cfg.MaxDelay)
	}
}

func TestAcquire_SourceGapExtendsDelay(t *testing.T) {
	t.Parallel()

	cfg := Config{MinDelay: time.Second, MaxDelay: time.Second, SourceGap: 10 * time.Second}
	l, slept, _ := newTestLimiter(cfg)

	l.Acquire(context.Background(), "reddit")
	l.Acquire(context.Background(), "reddit")

	require.Len(t, *slept, 2)
	// First call has no history, so only the jitter delay applies.
	require.Equal(t, time.Second, (*slept)[0])
	// Second call must wait out the remainder of the 10s gap.
	require.Equal(t, 10*time.Second, (*slept)[1])
}

func TestAcquire_GapIsPerSource(t *testing.T) {
	t.Parallel()

	cfg := Config{MinDelay: time.Second, MaxDelay: time.Second, SourceGap: time.Hour}
	l, slept, _ := newTestLimiter(cfg)

	l.Acquire(context.Background(), "reddit")
	l.Acquire(context.Background(), "hackernews")

	// Different sources do not inherit each other's gap.
	require.Equal(t, []time.Duration{time.Second, time.Second}, *slept)
}

func TestAcquire_GapSatisfiedByElapsedTime(t *testing.T) {
	t.Parallel()

	cfg := Config{MinDelay: time.Second, MaxDelay: time.Second, SourceGap: 2 * time.Second}
	l, slept, clock := newTestLimiter(cfg)

	l.Acquire(context.Background(), "reddit")
	*clock = clock.Add(time.Minute)
	l.Acquire(context.Background(), "reddit")

	// A minute has passed; only the base jitter remains.
	require.Equal(t, []time.Duration{time.Second, time.Second}, *slept)
}

func TestNew_NormalizesConfig(t *testing.T) {
	t.Parallel()

	l := New(Config{MinDelay: 3 * time.Second, MaxDelay: time.Second})
	require.Equal(t, 3*time.Second, l.cfg.MaxDelay)
	require.Equal(t, DefaultSourceGap, l.cfg.SourceGap)
}
