package countdown

import (
	"fmt"
	"time"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Remaining is the time left until a target instant, floored to whole seconds.
// The zero value with IsOver set is the terminal state.
type Remaining struct {
	Days    int64 `json:"days"`
	Hours   int   `json:"hours"`
	Minutes int   `json:"minutes"`
	Seconds int   `json:"seconds"`
	IsOver  bool  `json:"is_over"`
}

// Unit is one labelled field of a Remaining, for rendering.
type Unit struct {
	Label string
	Value int64
}

// Calculate returns the time remaining from now until target. Once target is
// not after now (in whole milliseconds) the result is the terminal state.
func Calculate(target, now time.Time) Remaining {
	diff := target.UnixMilli() - now.UnixMilli()
	if diff <= 0 {
		return Remaining{IsOver: true}
	}

	return Remaining{
		Days:    diff / msPerDay,
		Hours:   int(diff % msPerDay / msPerHour),
		Minutes: int(diff % msPerHour / msPerMinute),
		Seconds: int(diff % msPerMinute / msPerSecond),
	}
}

// Milliseconds recombines the fields into a millisecond count.
func (r Remaining) Milliseconds() int64 {
	return r.Days*msPerDay +
		int64(r.Hours)*msPerHour +
		int64(r.Minutes)*msPerMinute +
		int64(r.Seconds)*msPerSecond
}

// Duration is Milliseconds as a time.Duration.
func (r Remaining) Duration() time.Duration {
	return time.Duration(r.Milliseconds()) * time.Millisecond
}

// Units returns days, hours, minutes and seconds in display order.
func (r Remaining) Units() []Unit {
	return []Unit{
		{Label: "Days", Value: r.Days},
		{Label: "Hours", Value: int64(r.Hours)},
		{Label: "Minutes", Value: int64(r.Minutes)},
		{Label: "Seconds", Value: int64(r.Seconds)},
	}
}

func (r Remaining) String() string {
	if r.IsOver {
		return "The countdown is over!"
	}
	return fmt.Sprintf("%d days %d hours %d minutes %d seconds remaining", r.Days, r.Hours, r.Minutes, r.Seconds)
}
