package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/erazemk/timely/internal/model"
)

// SQLite is the Backend over a SQLite database opened with db.Open.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite wraps an open database with the schema applied.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{DB: db}
}

func (s *SQLite) InsertCountdown(ctx context.Context, c model.Countdown) (*model.Countdown, error) {
	return CreateCountdown(ctx, s.DB, c)
}

func (s *SQLite) GetCountdown(ctx context.Context, id string) (*model.Countdown, error) {
	return GetCountdown(ctx, s.DB, id)
}

func (s *SQLite) ListCountdowns(ctx context.Context, limit, offset int) ([]model.Countdown, error) {
	return ListCountdowns(ctx, s.DB, limit, offset)
}

func (s *SQLite) CountByType(ctx context.Context) (map[model.CountdownType]int, error) {
	return CountCountdownsByType(ctx, s.DB)
}

func (s *SQLite) GetSetting(ctx context.Context, key string) (string, bool, error) {
	return GetSetting(ctx, s.DB, key)
}

func (s *SQLite) EnsureSetting(ctx context.Context, key, candidate string) (string, error) {
	return EnsureSetting(ctx, s.DB, key, candidate)
}

func (s *SQLite) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	return RevokeToken(ctx, s.DB, jti, expiresAt)
}

func (s *SQLite) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return IsTokenRevoked(ctx, s.DB, jti)
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.DB.Close()
}
