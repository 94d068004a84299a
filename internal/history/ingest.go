package history

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ademuri/streaming-history/internal/logging"
)

// DefaultMarkers are the file-name substrings of the two export formats.
var DefaultMarkers = []string{"StreamingHistory", "endsong_"}

// File is the content of one uploaded file. Name is only used to filter
// candidates by marker.
type File struct {
	Name string
	Data []byte
}

type IngestOptions struct {
	// Markers defaults to DefaultMarkers.
	Markers []string

	// Dedupe drops records identical to one already seen in the batch.
	Dedupe bool
}

// Report summarizes what ingestion kept and dropped.
type Report struct {
	Accepted   []string           `json:"accepted"`
	Dropped    []InvalidFileError `json:"dropped,omitempty"`
	Ignored    []string           `json:"ignored,omitempty"`
	Records    int                `json:"records"`
	NonMusic   int                `json:"non_music"`
	Duplicates int                `json:"duplicates"`
}

// Batch is the canonical event table produced by Ingest.
type Batch struct {
	Records []Record
	Report  Report
}

// IsCandidate reports whether a file name looks like a history export.
func IsCandidate(name string, markers []string) bool {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	base := filepath.Base(name)
	if !strings.EqualFold(filepath.Ext(base), ".json") {
		return false
	}
	for _, m := range markers {
		if m != "" && strings.Contains(base, m) {
			return true
		}
	}
	return false
}

// Ingest parses, validates and canonicalizes a set of uploaded files. Files
// that fail to parse or match neither schema variant are dropped and logged.
// If nothing usable remains the result is ErrNoValidData.
func Ingest(files []File, opts IngestOptions) (*Batch, error) {
	batch := &Batch{}
	seen := make(map[Record]struct{})

	for _, f := range files {
		if !IsCandidate(f.Name, opts.Markers) {
			logging.Debug().Str("file", f.Name).Msg("Skipping file without a history marker")
			batch.Report.Ignored = append(batch.Report.Ignored, f.Name)
			continue
		}

		records, nonMusic, invalid := parseFile(f)
		if invalid != nil {
			logging.Warn().Str("file", f.Name).Str("reason", invalid.Reason).Msg("Dropping invalid history file")
			batch.Report.Dropped = append(batch.Report.Dropped, *invalid)
			continue
		}

		batch.Report.Accepted = append(batch.Report.Accepted, f.Name)
		batch.Report.NonMusic += nonMusic
		for _, rec := range records {
			if opts.Dedupe {
				if _, dup := seen[rec]; dup {
					batch.Report.Duplicates++
					continue
				}
				seen[rec] = struct{}{}
			}
			batch.Records = append(batch.Records, rec)
		}
	}

	batch.Report.Records = len(batch.Records)
	if len(batch.Records) == 0 {
		return nil, fmt.Errorf("%w (%d accepted, %d dropped, %d ignored)",
			ErrNoValidData, len(batch.Report.Accepted), len(batch.Report.Dropped), len(batch.Report.Ignored))
	}

	logging.Info().
		Int("files", len(batch.Report.Accepted)).
		Int("records", batch.Report.Records).
		Int("duplicates", batch.Report.Duplicates).
		Int("non_music", batch.Report.NonMusic).
		Msg("Ingested listening history")
	return batch, nil
}

func parseFile(f File) ([]Record, int, *InvalidFileError) {
	var raw []RawRecord
	if err := json.Unmarshal(f.Data, &raw); err != nil {
		return nil, 0, &InvalidFileError{File: f.Name, Reason: fmt.Sprintf("parsing JSON: %v", err)}
	}
	if len(raw) == 0 {
		return nil, 0, &InvalidFileError{File: f.Name, Reason: "no records"}
	}

	records := make([]Record, 0, len(raw))
	nonMusic := 0
	for i, r := range raw {
		if r.Variant() == VariantUnknown {
			return nil, 0, &InvalidFileError{
				File:   f.Name,
				Reason: fmt.Sprintf("record %d matches neither the simple nor the extended schema", i),
			}
		}
		rec, music, err := decodeRecord(Canonicalize(r))
		if err != nil {
			return nil, 0, &InvalidFileError{File: f.Name, Reason: fmt.Sprintf("record %d: %v", i, err)}
		}
		if !music {
			nonMusic++
			continue
		}
		records = append(records, rec)
	}
	return records, nonMusic, nil
}
