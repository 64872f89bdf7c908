package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// blobKey is the single logical key the collection lives under.
const blobKey = "nebula-notes-data"

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLite implements Provider as a one-row key-value table in a SQLite file.
type SQLite struct {
	conn *sql.DB
	path string
}

// NewSQLite opens (or creates) the SQLite database and applies the schema.
func NewSQLite(path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if _, err := conn.Exec(sqliteSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &SQLite{conn: conn, path: path}, nil
}

// Load reads the collection blob row.
func (s *SQLite) Load() ([]byte, bool, error) {
	var data []byte
	err := s.conn.QueryRow(`SELECT value FROM blobs WHERE key = ?`, blobKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: load blob: %w", err)
	}
	return data, true, nil
}

// Save upserts the collection blob row.
func (s *SQLite) Save(data []byte) error {
	_, err := s.conn.Exec(`
		INSERT INTO blobs (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at
	`, blobKey, data)
	if err != nil {
		return fmt.Errorf("storage: save blob: %w", err)
	}
	return nil
}

// Location returns the database file path.
func (s *SQLite) Location() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}
