package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/timely/internal/model"
)

const countdownColumns = `id, label, type, date, time, description, image_ref, created_at`

// CreateCountdown inserts a new countdown under a fresh random ID and returns
// the stored record. Any ID set on c is replaced by the new one. CreatedAt is
// stored as given.
func CreateCountdown(ctx context.Context, db *sql.DB, c model.Countdown) (*model.Countdown, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO countdowns (`+countdownColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.Label, string(c.Type), c.Date,
		nullString(c.Time), nullString(c.Description), nullString(c.ImageRef),
		c.CreatedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating countdown: %w", err)
	}

	created, err := GetCountdown(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("creating countdown: row %s missing after insert", id)
	}
	return created, nil
}

// GetCountdown returns a countdown by ID, or nil if there is none. IDs that are
// not UUIDs cannot exist and return nil without querying.
func GetCountdown(ctx context.Context, db *sql.DB, id string) (*model.Countdown, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	row := db.QueryRowContext(ctx,
		`SELECT `+countdownColumns+` FROM countdowns WHERE id = ?`, parsed.String(),
	)
	c, err := scanCountdown(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting countdown: %w", err)
	}
	return c, nil
}

// ListCountdowns returns countdowns newest first.
func ListCountdowns(ctx context.Context, db *sql.DB, limit, offset int) ([]model.Countdown, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+countdownColumns+` FROM countdowns ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listing countdowns: %w", err)
	}
	defer rows.Close()

	var countdowns []model.Countdown
	for rows.Next() {
		c, err := scanCountdown(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning countdown: %w", err)
		}
		countdowns = append(countdowns, *c)
	}
	return countdowns, rows.Err()
}

// CountCountdownsByType returns the number of countdowns per type. Types
// without countdowns are absent from the map.
func CountCountdownsByType(ctx context.Context, db *sql.DB) (map[model.CountdownType]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT type, COUNT(*) FROM countdowns GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("counting countdowns: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.CountdownType]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[model.CountdownType(t)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCountdown(row rowScanner) (*model.Countdown, error) {
	c := &model.Countdown{}
	var typ string
	var clock, description, imageRef sql.NullString
	if err := row.Scan(&c.ID, &c.Label, &typ, &c.Date, &clock, &description, &imageRef, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Type = model.CountdownType(typ)
	c.Time = clock.String
	c.Description = description.String
	c.ImageRef = imageRef.String
	return c, nil
}

// nullString stores empty optional fields as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
