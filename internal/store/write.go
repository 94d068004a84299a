package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/ademuri/streaming-history/internal/history"
)

// PutBatch stores an ingested batch under digest, replacing any batch already
// stored there.
func (s *Store) PutBatch(digest string, batch *history.Batch) error {
	report, err := json.Marshal(batch.Report)
	if err != nil {
		return fmt.Errorf("encoding ingest report: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteBatch(tx, digest); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO Batch (digest, report, created) VALUES (?, ?, ?)", digest, string(report), time.Now().UTC()); err != nil {
		return fmt.Errorf("inserting batch %s: %w", digest, err)
	}

	stmt, err := tx.Prepare("INSERT INTO Play (digest, seq, artist, track, end_time, ms_played) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing play insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range batch.Records {
		if _, err := stmt.Exec(digest, i, rec.ArtistName, rec.TrackName, rec.EndTime, rec.MsPlayed); err != nil {
			return fmt.Errorf("inserting play %d of batch %s: %w", i, digest, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteBatch removes a batch and its plays.
func (s *Store) DeleteBatch(digest string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteBatch(tx, digest); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func deleteBatch(tx *sql.Tx, digest string) error {
	if _, err := tx.Exec("DELETE FROM Play WHERE digest = ?", digest); err != nil {
		return fmt.Errorf("deleting plays of %s: %w", digest, err)
	}
	if _, err := tx.Exec("DELETE FROM Batch WHERE digest = ?", digest); err != nil {
		return fmt.Errorf("deleting batch %s: %w", digest, err)
	}
	return nil
}
