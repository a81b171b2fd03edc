// Package ratelimit enforces polite delays between scrape requests.
package ratelimit

import (
	"context"
	"math/rand"
	"time"
)

// DefaultSourceGap is the minimum spacing between two requests to the same
// source when the config does not say otherwise.
const DefaultSourceGap = 5 * time.Second

// Config controls the limiter's delay windows.
type Config struct {
	// MinDelay and MaxDelay bound the randomized delay applied before
	// every request.
	MinDelay time.Duration `yaml:"min_delay"`
	// MaxDelay must be >= MinDelay; equal values disable the jitter.
	MaxDelay time.Duration `yaml:"max_delay"`
	// SourceGap is the minimum spacing between requests to one source.
	SourceGap time.Duration `yaml:"source_gap"`
}

// Limiter spaces out scrape requests. It is a cooperative scheduling
// primitive: Acquire blocks the calling goroutine and never fails.
//
// The limiter is used from the listener's sequential loop only, so the
// per-source bookkeeping needs no locking.
type Limiter struct {
	cfg      Config
	lastSeen map[string]time.Time

	// now and sleep are swapped out in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// New creates a limiter with the given configuration.
func New(cfg Config) *Limiter {
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	if cfg.SourceGap <= 0 {
		cfg.SourceGap = DefaultSourceGap
	}
	return &Limiter{
		cfg:      cfg,
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Acquire blocks for a duration drawn uniformly from [MinDelay, MaxDelay],
// extended so that at least SourceGap has passed since the previous Acquire
// for the same source. Returns once the delay has elapsed or the context is
// cancelled; cancellation only cuts the wait short.
func (l *Limiter) Acquire(ctx context.Context, sourceKey string) {
	delay := l.randomDelay()

	if last, ok := l.lastSeen[sourceKey]; ok {
		elapsed := l.now().Sub(last)
		if remaining := l.cfg.SourceGap - elapsed; remaining > delay {
			delay = remaining
		}
	}

	if delay > 0 {
		l.sleep(ctx, delay)
	}
	l.lastSeen[sourceKey] = l.now()
}

// randomDelay draws from the configured jitter window.
func (l *Limiter) randomDelay() time.Duration {
	span := l.cfg.MaxDelay - l.cfg.MinDelay
	if span <= 0 {
		return l.cfg.MinDelay
	}
	return l.cfg.MinDelay + time.Duration(rand.Int63n(int64(span)+1))
}

// sleepCtx sleeps for d unless the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
