package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotOpen is returned by a SQLiteStore used before Init or after Close.
var ErrNotOpen = errors.New("storage: sqlite store is not open")

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		n_switches INTEGER NOT NULL,
		tmax REAL NOT NULL,
		created_at INTEGER NOT NULL,
		payload BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at);
`

// SQLiteStore keeps one row per run with the JSON record as payload. Init
// and Close must not race with the other methods; saves from concurrent
// sweep tasks go through a single connection.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	if s.path == "" {
		return errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return fmt.Errorf("create schema in %s: %w", s.path, err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, rec *Record) (string, error) {
	if s.db == nil {
		return "", ErrNotOpen
	}

	prepare(rec)
	payload, err := encodeRecord(rec)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, name, n_switches, tmax, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			n_switches = excluded.n_switches,
			tmax = excluded.tmax,
			created_at = excluded.created_at,
			payload = excluded.payload
	`, rec.ID, rec.Problem.Name, rec.Problem.NSwitches, rec.Problem.Tmax, rec.Timestamp.UnixNano(), payload)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*Record, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rec, err := decodeRecord(payload)
	if err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return rec, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*Record, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM runs ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := make([]*Record, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		rec, err := decodeRecord(payload)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
