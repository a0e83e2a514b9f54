package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/erazemk/timely/internal/countdown"
	"github.com/erazemk/timely/internal/model"
)

// RecordGetter looks up countdowns by ID, returning nil when none exists.
type RecordGetter interface {
	GetCountdown(ctx context.Context, id string) (*model.Countdown, error)
}

// Retriever fetches stored countdowns.
type Retriever struct {
	Records RecordGetter
	// Location resolves targets for Remaining; nil means time.Local.
	Location *time.Location
}

// Get returns the countdown with the given ID. Unknown and malformed IDs
// yield ErrNotFound, store failures ErrStoreUnavailable.
func (r *Retriever) Get(ctx context.Context, id string) (*model.Countdown, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	c, err := r.Records.GetCountdown(ctx, id)
	if err != nil {
		slog.Error("failed to get countdown", "id", id, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Snapshot is a countdown with its resolved target and the time left at one instant.
type Snapshot struct {
	Countdown *model.Countdown    `json:"countdown"`
	Target    time.Time           `json:"target"`
	Remaining countdown.Remaining `json:"remaining"`
}

// Remaining fetches a countdown and computes how much time is left at now.
func (r *Retriever) Remaining(ctx context.Context, id string, now time.Time) (*Snapshot, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	target, err := countdown.Target(c, r.Location)
	if err != nil {
		slog.Error("stored countdown has no valid target", "id", c.ID, "date", c.Date, "time", c.Time, "error", err)
		return nil, fmt.Errorf("%w: countdown %s: %w", ErrCorruptRecord, c.ID, err)
	}

	return &Snapshot{
		Countdown: c,
		Target:    target,
		Remaining: countdown.Calculate(target, now),
	}, nil
}
