package service

import (
	"errors"
	"strings"
	"time"

	"github.com/erazemk/timely/internal/countdown"
)

// ErrDateInPast is returned by the wizard's date step for targets that have
// already passed.
var ErrDateInPast = errors.New("date must be in the future")

// Draft stages a countdown across the creation wizard's steps. It is never
// persisted; Input turns it into a create request.
type Draft struct {
	Label       string
	Type        string
	Date        string
	Time        string
	Description string
	Image       *ImageUpload
}

func (d *Draft) SetLabel(label string)             { d.Label = strings.TrimSpace(label) }
func (d *Draft) SetType(typ string)                { d.Type = strings.TrimSpace(typ) }
func (d *Draft) SetDate(date string)               { d.Date = strings.TrimSpace(date) }
func (d *Draft) SetTime(clock string)              { d.Time = strings.TrimSpace(clock) }
func (d *Draft) SetDescription(description string) { d.Description = strings.TrimSpace(description) }
func (d *Draft) SetImage(img *ImageUpload)         { d.Image = img }

// Reset discards everything entered so far.
func (d *Draft) Reset() {
	*d = Draft{}
}

// CheckLabelStep validates the first step: label and type.
func (d *Draft) CheckLabelStep() error {
	var missing []string
	if d.Label == "" {
		missing = append(missing, "label")
	}
	if d.Type == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return invalid(ErrMissingRequiredField,
			"missing required fields: "+strings.Join(missing, ", "), missing...)
	}
	if err := checkLabel(d.Label); err != nil {
		return err
	}
	return checkType(d.Type)
}

// CheckDateStep validates the second step. Unlike Create, the wizard only
// accepts targets strictly after now.
func (d *Draft) CheckDateStep(now time.Time) error {
	if d.Date == "" {
		return invalid(ErrMissingRequiredField, "missing required fields: date", "date")
	}
	target, err := compose(d.Date, d.Time)
	if err != nil {
		return err
	}
	if !target.After(now) {
		return invalid(ErrDateInPast, "pick a date and time in the future", "date")
	}
	return nil
}

// CheckDetailsStep validates the last step: description and image.
func (d *Draft) CheckDetailsStep() error {
	if err := checkDescription(d.Description); err != nil {
		return err
	}
	if d.Image != nil {
		if _, err := checkImage(d.Image); err != nil {
			return err
		}
	}
	return nil
}

// Input converts the draft to a create request.
func (d *Draft) Input() CreateInput {
	return CreateInput{
		Label:       d.Label,
		Type:        d.Type,
		Date:        d.Date,
		Time:        d.Time,
		Description: d.Description,
		Image:       d.Image,
	}
}

// Target returns the draft's composed target in loc, or the zero time if the
// date step has not been completed.
func (d *Draft) Target(loc *time.Location) time.Time {
	t, err := countdown.Compose(d.Date, d.Time, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
