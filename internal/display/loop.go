// Package display drives the periodic recomputation behind a live countdown.
package display

import (
	"context"
	"time"

	"github.com/erazemk/timely/internal/countdown"
)

// DefaultInterval is the tick cadence of a live countdown.
const DefaultInterval = time.Second

// Loop recomputes the remaining time for one target instant on every tick and
// hands the result to Render. A Loop belongs to a single displayed countdown.
type Loop struct {
	Target   time.Time
	Interval time.Duration
	Now      func() time.Time
	Render   func(countdown.Remaining)
}

// Run renders immediately and then once per tick until the target passes or
// ctx is cancelled. Reaching the terminal state renders it and returns nil;
// cancellation returns ctx.Err(). The ticker is released on every return path.
func (l *Loop) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if l.tick() {
		return nil
	}

	ticker := time.NewTicker(l.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.tick() {
				return nil
			}
		}
	}
}

// tick renders one recomputation and reports whether the countdown is over.
func (l *Loop) tick() bool {
	r := countdown.Calculate(l.Target, l.now())
	if l.Render != nil {
		l.Render(r)
	}
	return r.IsOver
}

func (l *Loop) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Loop) interval() time.Duration {
	if l.Interval > 0 {
		return l.Interval
	}
	return DefaultInterval
}
