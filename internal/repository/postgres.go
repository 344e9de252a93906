package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/marelvy/linkpulse/internal/model"
)

// PostgresStore implements Store on PostgreSQL. Schema and semantics
// match the SQLite store; this is the deployment target when a single
// local file is not enough.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects with a lib/pq DSN (postgres://... or
// key=value form) and ensures the schema exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(schemaPostgres); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

const schemaPostgres = `
    CREATE TABLE IF NOT EXISTS aliases (
        alias       TEXT PRIMARY KEY,
        long_url    TEXT NOT NULL,
        owner_id    TEXT NOT NULL,
        topic       TEXT NOT NULL DEFAULT '',
        click_count BIGINT NOT NULL DEFAULT 0,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
    );
    CREATE TABLE IF NOT EXISTS click_events (
        id          BIGSERIAL PRIMARY KEY,
        alias       TEXT NOT NULL REFERENCES aliases(alias),
        timestamp   TIMESTAMPTZ NOT NULL,
        user_agent  TEXT NOT NULL,
        ip_address  TEXT NOT NULL,
        location    TEXT,
        os_type     TEXT NOT NULL,
        device_type TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_click_events_alias ON click_events(alias);
    CREATE INDEX IF NOT EXISTS idx_aliases_owner ON aliases(owner_id);
`

// unique_violation per the PostgreSQL error code table
const pgUniqueViolation = "23505"

func (s *PostgresStore) Create(ctx context.Context, a *model.Alias) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO aliases (alias, long_url, owner_id, topic, created_at) VALUES ($1, $2, $3, $4, $5)",
		a.Alias, a.LongURL, a.OwnerID, a.Topic, a.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return ErrDuplicateAlias
	}
	return err
}

func (s *PostgresStore) GetByAlias(ctx context.Context, alias string) (*model.Alias, error) {
	a := &model.Alias{}
	err := s.db.QueryRowContext(ctx,
		"SELECT alias, long_url, owner_id, topic, click_count, created_at FROM aliases WHERE alias = $1",
		alias,
	).Scan(&a.Alias, &a.LongURL, &a.OwnerID, &a.Topic, &a.ClickCount, &a.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (s *PostgresStore) RecordClick(ctx context.Context, alias string, event model.ClickEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE aliases SET click_count = click_count + 1 WHERE alias = $1",
		alias,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}

	loc, err := marshalLocation(event.Location)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO click_events (alias, timestamp, user_agent, ip_address, location, os_type, device_type)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		alias, event.Timestamp, event.UserAgent, event.IPAddress, loc, event.OSType, event.DeviceType,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresStore) EventsByAlias(ctx context.Context, alias string) ([]model.ClickEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, user_agent, ip_address, location, os_type, device_type
         FROM click_events WHERE alias = $1 ORDER BY id`,
		alias,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Alias, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT alias, long_url, owner_id, topic, click_count, created_at FROM aliases WHERE owner_id = $1",
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAliases(rows)
}

func (s *PostgresStore) ListByOwnerAndTopic(ctx context.Context, ownerID, topic string) ([]model.Alias, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT alias, long_url, owner_id, topic, click_count, created_at FROM aliases WHERE owner_id = $1 AND topic = $2",
		ownerID, topic,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAliases(rows)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
