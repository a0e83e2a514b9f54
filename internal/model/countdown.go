package model

import "time"

// CountdownType is the kind of occasion a countdown targets.
type CountdownType string

// Countdown types.
const (
	TypeBirthday    CountdownType = "Birthday"
	TypeAnniversary CountdownType = "Anniversary"
	TypeEvent       CountdownType = "Event"
	TypeHoliday     CountdownType = "Holiday"
	TypeLaunch      CountdownType = "Launch"
	TypeCustom      CountdownType = "Custom"
)

// Types lists every countdown type in display order.
var Types = []CountdownType{
	TypeBirthday,
	TypeAnniversary,
	TypeEvent,
	TypeHoliday,
	TypeLaunch,
	TypeCustom,
}

// Field limits, counted in characters.
const (
	MaxLabelLength       = 100
	MaxDescriptionLength = 1000
)

// Countdown is a persisted countdown. Records are never modified after creation.
type Countdown struct {
	ID          string        `json:"id"`
	Label       string        `json:"label"`
	Type        CountdownType `json:"type"`
	Date        string        `json:"date"`
	Time        string        `json:"time,omitempty"`
	Description string        `json:"description,omitempty"`
	ImageRef    string        `json:"image_ref,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ValidType reports whether t is one of the known countdown types.
func ValidType(t string) bool {
	for _, known := range Types {
		if string(known) == t {
			return true
		}
	}
	return false
}
