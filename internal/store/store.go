// Package store caches ingested history batches in SQLite, keyed by the
// digest of the uploaded file contents. The default database lives in memory
// and is discarded with the session.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Memory is the DSN of a private in-memory database.
const Memory = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS Batch (
  digest TEXT PRIMARY KEY,
  report TEXT NOT NULL,
  created DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS Play (
  digest TEXT NOT NULL,
  seq INTEGER NOT NULL,
  artist TEXT NOT NULL,
  track TEXT NOT NULL,
  end_time TEXT NOT NULL,
  ms_played INTEGER NOT NULL,
  FOREIGN KEY (digest) REFERENCES Batch(digest),
  PRIMARY KEY (digest, seq)
);
`

type Store struct {
	db *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every connection to :memory: gets its own database.
	if dsn == Memory {
		db.SetMaxOpenConns(1)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	exists, err := dbExists(db)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

func dbExists(db *sql.DB) (bool, error) {
	// Batch is a proxy for the whole schema
	row := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'Batch'")
	var name string
	err := row.Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking db existence: %w", err)
	}
	return true, nil
}
