package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/marelvy/linkpulse/internal/model"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer; one pooled connection avoids
	// SQLITE_BUSY under concurrent click recording.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQLite); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

const schemaSQLite = `
    CREATE TABLE IF NOT EXISTS aliases (
        alias       TEXT PRIMARY KEY,
        long_url    TEXT NOT NULL,
        owner_id    TEXT NOT NULL,
        topic       TEXT NOT NULL DEFAULT '',
        click_count INTEGER NOT NULL DEFAULT 0,
        created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
    CREATE TABLE IF NOT EXISTS click_events (
        id          INTEGER PRIMARY KEY AUTOINCREMENT,
        alias       TEXT NOT NULL REFERENCES aliases(alias),
        timestamp   DATETIME NOT NULL,
        user_agent  TEXT NOT NULL,
        ip_address  TEXT NOT NULL,
        location    TEXT,
        os_type     TEXT NOT NULL,
        device_type TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_click_events_alias ON click_events(alias);
    CREATE INDEX IF NOT EXISTS idx_aliases_owner ON aliases(owner_id);
`

func (s *SQLiteStore) Create(ctx context.Context, a *model.Alias) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO aliases (alias, long_url, owner_id, topic, created_at) VALUES (?, ?, ?, ?, ?)",
		a.Alias, a.LongURL, a.OwnerID, a.Topic, a.CreatedAt,
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return ErrDuplicateAlias
	}
	return err
}

func (s *SQLiteStore) GetByAlias(ctx context.Context, alias string) (*model.Alias, error) {
	a := &model.Alias{}
	err := s.db.QueryRowContext(ctx,
		"SELECT alias, long_url, owner_id, topic, click_count, created_at FROM aliases WHERE alias = ?",
		alias,
	).Scan(&a.Alias, &a.LongURL, &a.OwnerID, &a.Topic, &a.ClickCount, &a.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// RecordClick runs the counter increment and the event append in one
// transaction so the two can never diverge.
func (s *SQLiteStore) RecordClick(ctx context.Context, alias string, event model.ClickEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE aliases SET click_count = click_count + 1 WHERE alias = ?",
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
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		alias, event.Timestamp, event.UserAgent, event.IPAddress, loc, event.OSType, event.DeviceType,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) EventsByAlias(ctx context.Context, alias string) ([]model.ClickEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, user_agent, ip_address, location, os_type, device_type
         FROM click_events WHERE alias = ? ORDER BY id`,
		alias,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *SQLiteStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Alias, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT alias, long_url, owner_id, topic, click_count, created_at FROM aliases WHERE owner_id = ?",
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAliases(rows)
}

func (s *SQLiteStore) ListByOwnerAndTopic(ctx context.Context, ownerID, topic string) ([]model.Alias, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT alias, long_url, owner_id, topic, click_count, created_at FROM aliases WHERE owner_id = ? AND topic = ?",
		ownerID, topic,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAliases(rows)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================
// ROW SCANNING HELPERS (shared with the Postgres store)
// ============================================================

func scanAliases(rows *sql.Rows) ([]model.Alias, error) {
	var out []model.Alias
	for rows.Next() {
		var a model.Alias
		if err := rows.Scan(&a.Alias, &a.LongURL, &a.OwnerID, &a.Topic, &a.ClickCount, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanEvents(rows *sql.Rows) ([]model.ClickEvent, error) {
	var out []model.ClickEvent
	for rows.Next() {
		var e model.ClickEvent
		var loc sql.NullString
		if err := rows.Scan(&e.Timestamp, &e.UserAgent, &e.IPAddress, &loc, &e.OSType, &e.DeviceType); err != nil {
			return nil, err
		}
		if loc.Valid {
			var l model.Location
			if err := json.Unmarshal([]byte(loc.String), &l); err != nil {
				return nil, err
			}
			e.Location = &l
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func marshalLocation(l *model.Location) (sql.NullString, error) {
	if l == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
