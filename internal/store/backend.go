package store

import (
	"context"
	"time"

	"github.com/erazemk/timely/internal/model"
)

// Backend is a record store the server can run on. SQLite (this package) and
// MongoDB (package mongostore) implement it.
//
// Lookups return (nil, nil) when a record does not exist; any error means the
// store itself failed.
type Backend interface {
	InsertCountdown(ctx context.Context, c model.Countdown) (*model.Countdown, error)
	GetCountdown(ctx context.Context, id string) (*model.Countdown, error)
	ListCountdowns(ctx context.Context, limit, offset int) ([]model.Countdown, error)
	CountByType(ctx context.Context) (map[model.CountdownType]int, error)

	Settings

	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

// Settings is a key/value store for server settings.
type Settings interface {
	// GetSetting returns the value for key and whether it exists.
	GetSetting(ctx context.Context, key string) (string, bool, error)
	// EnsureSetting stores candidate under key unless a value already exists,
	// and returns the stored value either way.
	EnsureSetting(ctx context.Context, key, candidate string) (string, error)
}
