// Package profiler measures scans and writes their results to disk.
package profiler

import (
	"time"
)

// WallTime tracks named wall-clock intervals.
type WallTime struct {
	starttimes map[string]time.Time
	now        func() time.Time
}

// NewWallTime creates a WallTime that reads the system clock.
func NewWallTime() *WallTime {
	return &WallTime{
		starttimes: make(map[string]time.Time),
		now:        time.Now,
	}
}

// Start marks the beginning of the interval called flag.
func (walltime *WallTime) Start(flag string) {
	_, found := walltime.starttimes[flag]
	if found {
		panic("one flag can only have one walltime")
	}

	walltime.starttimes[flag] = walltime.now()
}

// Interval ends the interval called flag and returns its length in seconds.
func (walltime *WallTime) Interval(flag string) float64 {
	startTime, found := walltime.starttimes[flag]
	if !found {
		panic("start should be called before interval")
	}

	duration := walltime.now().Sub(startTime)
	delete(walltime.starttimes, flag)

	return duration.Seconds()
}
