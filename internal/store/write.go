package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/mattn/go-sqlite3"

	"github.com/ademuri/spotify-explorer/internal/genre"
)

// Save stores the labels of one snapshot, replacing any earlier labels under
// the same key. Writes are retried while another process holds the file.
func (s *Store) Save(key string, labels map[string]genre.BroadGenre) error {
	err := retry.Do(
		func() error {
			return s.save(key, labels, time.Now())
		},
		retry.Attempts(5),
		retry.Delay(50*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(isBusy),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", key, err)
	}
	return nil
}

func (s *Store) save(key string, labels map[string]genre.BroadGenre, now time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM Classification WHERE snapshot = ?", key); err != nil {
		return fmt.Errorf("clearing classifications: %w", err)
	}
	if _, err := tx.Exec("INSERT OR REPLACE INTO Snapshot (key, created, last_used) VALUES (?, ?, ?)", key, now, now); err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO Classification (snapshot, artist, broad_genre) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()
	for artist, g := range labels {
		if _, err := stmt.Exec(key, artist, string(g)); err != nil {
			return fmt.Errorf("inserting classification for %q: %w", artist, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Prune deletes snapshots not used since before and returns how many went.
func (s *Store) Prune(before time.Time) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stale := "SELECT key FROM Snapshot WHERE COALESCE(last_used, created) < ?"
	if _, err := tx.Exec("DELETE FROM Classification WHERE snapshot IN ("+stale+")", before); err != nil {
		return 0, fmt.Errorf("deleting classifications: %w", err)
	}
	res, err := tx.Exec("DELETE FROM Snapshot WHERE COALESCE(last_used, created) < ?", before)
	if err != nil {
		return 0, fmt.Errorf("deleting snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return n, nil
}

func isBusy(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
	}
	return false
}
