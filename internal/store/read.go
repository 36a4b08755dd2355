package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ademuri/spotify-explorer/internal/genre"
)

// Load returns the labels saved under key. A miss is not an error.
func (s *Store) Load(key string) (map[string]genre.BroadGenre, bool, error) {
	row := s.db.QueryRow("SELECT key FROM Snapshot WHERE key = ?", key)
	var found string
	err := row.Scan(&found)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("checking snapshot %s: %w", key, err)
	}

	rows, err := s.db.Query("SELECT artist, broad_genre FROM Classification WHERE snapshot = ?", key)
	if err != nil {
		return nil, false, fmt.Errorf("querying classifications: %w", err)
	}
	defer rows.Close()

	labels := make(map[string]genre.BroadGenre)
	for rows.Next() {
		var artist, name string
		if err := rows.Scan(&artist, &name); err != nil {
			return nil, false, fmt.Errorf("scanning classification: %w", err)
		}
		g, err := genre.ParseBroadGenre(name)
		if err != nil {
			return nil, false, fmt.Errorf("classification for %q: %w", artist, err)
		}
		labels[artist] = g
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	if _, err := s.db.Exec("UPDATE Snapshot SET last_used = ? WHERE key = ?", time.Now(), key); err != nil {
		return nil, false, fmt.Errorf("updating last_used for %s: %w", key, err)
	}
	return labels, true, nil
}

type SnapshotInfo struct {
	Key      string
	Created  time.Time
	LastUsed time.Time
	Artists  int
}

// Snapshots lists the cached snapshots, most recently used first.
func (s *Store) Snapshots() ([]SnapshotInfo, error) {
	query := `
		SELECT s.key, s.created, s.last_used, COUNT(c.artist)
		FROM Snapshot s
		LEFT JOIN Classification c ON c.snapshot = s.key
		GROUP BY s.key
		ORDER BY s.last_used DESC, s.key
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var created, lastUsed sql.NullTime
		if err := rows.Scan(&info.Key, &created, &lastUsed, &info.Artists); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		info.Created = created.Time
		info.LastUsed = lastUsed.Time
		out = append(out, info)
	}
	return out, rows.Err()
}
