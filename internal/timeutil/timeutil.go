// Package timeutil provides UK-local time helpers for posting schedules.
package timeutil

import (
	"fmt"
	"time"
)

// ukZoneName is the IANA zone the posting calendar is expressed in.
const ukZoneName = "Europe/London"

// ukZone is resolved once at startup. time.LoadLocation only fails when the
// zone database is missing, in which case UTC is a usable stand-in.
var ukZone = mustLoadUK()

func mustLoadUK() *time.Location {
	loc, err := time.LoadLocation(ukZoneName)
	if err != nil {
		return time.UTC
	}
	return loc
}

// UKZone returns the Europe/London location.
func UKZone() *time.Location {
	return ukZone
}

// NowUK returns the current UK-local time.
func NowUK() time.Time {
	return time.Now().In(ukZone)
}

// Tomorrow returns tomorrow's date at UK-local midnight, the default
// planning date for a pipeline run.
func Tomorrow() time.Time {
	now := NowUK()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, ukZone)
}

// ParseClock parses an "HH:MM" clock string.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// At combines a calendar date with an "HH:MM" clock string in UK time.
func At(date time.Time, clock string) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, ukZone), nil
}

// Spread returns n posting times for the given date drawn from the configured
// windows. When n <= len(windows) the first n windows are used as-is. When n
// exceeds the windows, the span between the first and last window is divided
// evenly so extra slots never collide.
func Spread(date time.Time, windows []string, n int) ([]time.Time, error) {
	if n <= 0 || len(windows) == 0 {
		return nil, nil
	}

	if n <= len(windows) {
		times := make([]time.Time, 0, n)
		for _, w := range windows[:n] {
			t, err := At(date, w)
			if err != nil {
				return nil, err
			}
			times = append(times, t)
		}
		return times, nil
	}

	first, err := At(date, windows[0])
	if err != nil {
		return nil, err
	}
	last, err := At(date, windows[len(windows)-1])
	if err != nil {
		return nil, err
	}
	if !last.After(first) {
		// Single usable window: fan out in fixed 30 minute steps.
		last = first.Add(time.Duration(n-1) * 30 * time.Minute)
	}

	step := last.Sub(first) / time.Duration(n-1)
	times := make([]time.Time, 0, n)
	for i := range n {
		times = append(times, first.Add(time.Duration(i)*step))
	}
	return times, nil
}
