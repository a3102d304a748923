package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool used by PGStorage.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStorage keeps entries in the dashboard_sessions table, one row per
// browser session scope and key.
type PGStorage struct {
	db    DBTX
	scope string
	ttl   time.Duration
	now   func() time.Time
}

// NewPGStorage scopes entries to one browser session. A zero ttl keeps
// entries until they are deleted.
func NewPGStorage(db DBTX, scope string, ttl time.Duration) *PGStorage {
	return &PGStorage{db: db, scope: scope, ttl: ttl, now: time.Now}
}

func (p *PGStorage) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.QueryRow(ctx, `
		SELECT value
		FROM dashboard_sessions
		WHERE scope = $1 AND key = $2 AND (expires_at IS NULL OR expires_at > $3)
	`, p.scope, key, p.now()).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (p *PGStorage) Save(ctx context.Context, key string, value []byte) error {
	var expiresAt *time.Time
	if p.ttl > 0 {
		at := p.now().Add(p.ttl)
		expiresAt = &at
	}
	_, err := p.db.Exec(ctx, `
		INSERT INTO dashboard_sessions (scope, key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (scope, key)
		DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = now()
	`, p.scope, key, value, expiresAt)
	return err
}

func (p *PGStorage) Delete(ctx context.Context, key string) error {
	_, err := p.db.Exec(ctx, "DELETE FROM dashboard_sessions WHERE scope = $1 AND key = $2", p.scope, key)
	return err
}

// PurgeExpired removes expired entries of every scope and returns how many
// rows were deleted.
func PurgeExpired(ctx context.Context, db DBTX, now time.Time) (int64, error) {
	tag, err := db.Exec(ctx, "DELETE FROM dashboard_sessions WHERE expires_at IS NOT NULL AND expires_at <= $1", now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
