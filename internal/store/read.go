package store

import (
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/ademuri/streaming-history/internal/history"
)

// GetBatch returns the batch stored under digest, or nil if there is none.
func (s *Store) GetBatch(digest string) (*history.Batch, error) {
	row := s.db.QueryRow("SELECT report FROM Batch WHERE digest = ?", digest)
	var report string
	err := row.Scan(&report)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting batch %s: %w", digest, err)
	}

	batch := &history.Batch{}
	if err := json.Unmarshal([]byte(report), &batch.Report); err != nil {
		return nil, fmt.Errorf("decoding ingest report of %s: %w", digest, err)
	}

	rows, err := s.db.Query("SELECT artist, track, end_time, ms_played FROM Play WHERE digest = ? ORDER BY seq", digest)
	if err != nil {
		return nil, fmt.Errorf("querying plays of %s: %w", digest, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec history.Record
		if err := rows.Scan(&rec.ArtistName, &rec.TrackName, &rec.EndTime, &rec.MsPlayed); err != nil {
			return nil, fmt.Errorf("scanning play: %w", err)
		}
		batch.Records = append(batch.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading plays of %s: %w", digest, err)
	}
	return batch, nil
}

// Digests lists the stored batches, oldest first.
func (s *Store) Digests() ([]string, error) {
	rows, err := s.db.Query("SELECT digest FROM Batch ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("querying batches: %w", err)
	}
	defer rows.Close()

	var digests []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning digest: %w", err)
		}
		digests = append(digests, d)
	}
	return digests, rows.Err()
}

// PlayCount returns the number of plays stored under digest.
func (s *Store) PlayCount(digest string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM Play WHERE digest = ?", digest).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting plays of %s: %w", digest, err)
	}
	return count, nil
}
