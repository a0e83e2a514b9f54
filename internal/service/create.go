package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/erazemk/timely/internal/countdown"
	"github.com/erazemk/timely/internal/files"
	"github.com/erazemk/timely/internal/imaging"
	"github.com/erazemk/timely/internal/model"
)

// RecordInserter persists new countdowns and assigns their IDs.
type RecordInserter interface {
	InsertCountdown(ctx context.Context, c model.Countdown) (*model.Countdown, error)
}

// ImageSaver stores image bytes under a name and returns their public reference.
type ImageSaver interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// ImageUpload is an image attached to a create request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateInput is the raw user input for a new countdown.
type CreateInput struct {
	Label       string
	Type        string
	Date        string
	Time        string
	Description string
	Image       *ImageUpload
}

// Creator validates and stores new countdowns.
type Creator struct {
	Records RecordInserter
	Images  ImageSaver

	// MaxDimension bounds stored JPEG/PNG width and height; 0 disables downscaling.
	MaxDimension int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Create validates in, stores its image (if any) and then the record.
// Validation and image errors are returned before anything is written.
func (c *Creator) Create(ctx context.Context, in CreateInput) (*model.Countdown, error) {
	record, err := validate(in)
	if err != nil {
		return nil, err
	}

	var img *imaging.Image
	if in.Image != nil {
		img, err = checkImage(in.Image)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	if img != nil {
		img, err = imaging.Normalize(img, c.MaxDimension)
		if err != nil {
			return nil, invalid(fmt.Errorf("%w: %w", ErrInvalidImage, err), "image could not be processed", "image")
		}

		name, err := files.GenerateName(now(), imaging.Ext(img.MIME, in.Image.Filename))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
		}
		ref, err := c.Images.Save(ctx, name, img.Data)
		if err != nil {
			slog.Error("failed to store image", "name", name, "error", err)
			return nil, fmt.Errorf("%w: storing image: %w", ErrPersistenceFailure, err)
		}
		record.ImageRef = ref
	}

	record.CreatedAt = now().UTC()
	created, err := c.Records.InsertCountdown(ctx, record)
	if err != nil {
		if record.ImageRef != "" {
			slog.Error("countdown insert failed, image left orphaned", "image", record.ImageRef, "error", err)
		} else {
			slog.Error("countdown insert failed", "error", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	slog.Info("countdown created", "id", created.ID, "type", created.Type, "image", created.ImageRef != "")
	return created, nil
}

// validate checks the text fields in order and returns the record to insert.
func validate(in CreateInput) (model.Countdown, error) {
	label := strings.TrimSpace(in.Label)
	typ := strings.TrimSpace(in.Type)
	date := strings.TrimSpace(in.Date)
	clock := strings.TrimSpace(in.Time)
	description := strings.TrimSpace(in.Description)

	var missing []string
	if label == "" {
		missing = append(missing, "label")
	}
	if typ == "" {
		missing = append(missing, "type")
	}
	if date == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return model.Countdown{}, invalid(ErrMissingRequiredField,
			"missing required fields: "+strings.Join(missing, ", "), missing...)
	}

	if err := checkLabel(label); err != nil {
		return model.Countdown{}, err
	}
	if err := checkType(typ); err != nil {
		return model.Countdown{}, err
	}
	if _, err := compose(date, clock); err != nil {
		return model.Countdown{}, err
	}
	if err := checkDescription(description); err != nil {
		return model.Countdown{}, err
	}

	return model.Countdown{
		Label:       label,
		Type:        model.CountdownType(typ),
		Date:        date,
		Time:        clock,
		Description: description,
	}, nil
}

func checkLabel(label string) error {
	if n := utf8.RuneCountInString(label); n > model.MaxLabelLength {
		return invalid(ErrFieldTooLong,
			fmt.Sprintf("label must be at most %d characters (got %d)", model.MaxLabelLength, n), "label")
	}
	return nil
}

func checkType(typ string) error {
	if !model.ValidType(typ) {
		return invalid(ErrInvalidType, fmt.Sprintf("unknown countdown type %q", typ), "type")
	}
	return nil
}

func checkDescription(description string) error {
	if n := utf8.RuneCountInString(description); n > model.MaxDescriptionLength {
		return invalid(ErrFieldTooLong,
			fmt.Sprintf("description must be at most %d characters (got %d)", model.MaxDescriptionLength, n), "description")
	}
	return nil
}

// compose resolves date and time in the local zone, reporting which field is bad.
func compose(date, clock string) (time.Time, error) {
	target, err := countdown.Compose(date, clock, nil)
	switch {
	case err == nil:
		return target, nil
	case errors.Is(err, countdown.ErrInvalidTimeFormat):
		return time.Time{}, invalid(err, "time must be HH:mm (24-hour)", "time")
	default:
		return time.Time{}, invalid(err, "date must be YYYY-MM-DD", "date")
	}
}

func checkImage(up *ImageUpload) (*imaging.Image, error) {
	img, err := imaging.Inspect(up.Data, up.ContentType)
	if err != nil {
		return nil, invalid(fmt.Errorf("%w: %w", ErrInvalidImage, err), err.Error(), "image")
	}
	return img, nil
}
