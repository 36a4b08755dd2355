// Package store keeps classification results in a sqlite file so repeated
// runs over the same snapshot skip the genre engine.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const createQuery = `
CREATE TABLE IF NOT EXISTS Snapshot (
  key TEXT PRIMARY KEY,
  created DATETIME
);

CREATE TABLE IF NOT EXISTS Classification (
  snapshot TEXT,
  artist TEXT,
  broad_genre TEXT,
  FOREIGN KEY (snapshot) REFERENCES Snapshot(key),
  PRIMARY KEY (snapshot, artist)
);
`

func createTables(db *sql.DB) error {
	if _, err := db.Exec(createQuery); err != nil {
		return fmt.Errorf("executing create: %w", err)
	}
	return nil
}

// ensureSchema upgrades cache files written by older versions.
func ensureSchema(db *sql.DB) error {
	// Snapshot.last_used
	if err := addColumnIfNotExists(db, "Snapshot", "last_used", "DATETIME"); err != nil {
		return err
	}
	return nil
}

func addColumnIfNotExists(db *sql.DB, table, column, typeDef string) error {
	exists, err := columnExists(db, table, column)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if !exists {
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, typeDef)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("adding column %s.%s: %w", table, column, err)
		}
	}
	return nil
}

func columnExists(db *sql.DB, tableName string, columnName string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dfltValue interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == columnName {
			return true, nil
		}
	}
	return false, rows.Err()
}
