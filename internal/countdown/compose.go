package countdown

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/erazemk/timely/internal/model"
)

// DateLayout is the stored format of a countdown date.
const DateLayout = "2006-01-02"

// ClockLayout is the stored format of an optional countdown time.
const ClockLayout = "15:04"

var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidTimeFormat = errors.New("invalid time format")
)

// ParseDate parses a YYYY-MM-DD date as midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, date)
	}
	return d, nil
}

// ParseClock parses a strict 24-hour HH:mm wall-clock time.
func ParseClock(clock string) (hour, minute int, err error) {
	if len(clock) != 5 || clock[2] != ':' || !isDigits(clock[:2]) || !isDigits(clock[3:]) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, clock)
	}
	hour, _ = strconv.Atoi(clock[:2])
	minute, _ = strconv.Atoi(clock[3:])
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, clock)
	}
	return hour, minute, nil
}

// Compose combines a calendar date and an optional HH:mm time into the target
// instant, resolved in loc (time.Local when nil). An empty clock means midnight.
//
// Dates and times carry no offset, so the same countdown resolves to different
// instants for evaluators in different zones.
func Compose(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	d, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	if clock == "" {
		return d, nil
	}

	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}

// Target returns the composed target instant of a stored countdown.
func Target(c *model.Countdown, loc *time.Location) (time.Time, error) {
	return Compose(c.Date, c.Time, loc)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
