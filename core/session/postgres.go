package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool used by PostgresStore.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps sessions in a table with the columns
// (id text primary key, data jsonb, expires_at timestamptz). The table is
// created by the migrations in integration/database/pg.
type PostgresStore struct {
	db    DB
	table string
}

// NewPostgresStore creates a store on table, "sessions" when empty.
func NewPostgresStore(db DB, table string) *PostgresStore {
	if table == "" {
		table = "sessions"
	}
	return &PostgresStore{db: db, table: pgx.Identifier{table}.Sanitize()}
}

func (p *PostgresStore) Load(ctx context.Context, id string) (*Session, error) {
	var data []byte
	err := p.db.QueryRow(ctx,
		"SELECT data FROM "+p.table+" WHERE id = $1 AND (expires_at IS NULL OR expires_at > now())",
		id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: postgres load: %w", err)
	}

	s := New()
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return s, nil
}

// Save upserts the session. A zero ttl stores a NULL expiry.
func (p *PostgresStore) Save(ctx context.Context, id string, s *Session, ttl time.Duration) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return err
	}

	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	_, err = p.db.Exec(ctx,
		"INSERT INTO "+p.table+" (id, data, expires_at) VALUES ($1, $2, $3) "+
			"ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at",
		id, data, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("session: postgres save: %w", err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := p.db.Exec(ctx, "DELETE FROM "+p.table+" WHERE id = $1", id); err != nil {
		return fmt.Errorf("session: postgres delete: %w", err)
	}
	return nil
}

// DeleteExpired removes expired rows and returns how many were removed.
func (p *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := p.db.Exec(ctx, "DELETE FROM "+p.table+" WHERE expires_at IS NOT NULL AND expires_at <= now()")
	if err != nil {
		return 0, fmt.Errorf("session: postgres cleanup: %w", err)
	}
	return tag.RowsAffected(), nil
}
