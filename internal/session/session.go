// Package session runs the listening-history pipeline for one user session:
// ingest once, then recompute every view for each configuration.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ademuri/streaming-history/internal/analysis"
	"github.com/ademuri/streaming-history/internal/calendar"
	"github.com/ademuri/streaming-history/internal/history"
	"github.com/ademuri/streaming-history/internal/lineup"
	"github.com/ademuri/streaming-history/internal/logging"
	"github.com/ademuri/streaming-history/internal/store"
)

// ErrNotLoaded is returned by Run before any files were loaded.
var ErrNotLoaded = errors.New("no listening history loaded")

// View names used as Notices keys.
const (
	ViewSelection = "selection"
	ViewProfile   = "artist_profile"
	ViewYear      = "year"
	ViewHeatmap   = "heatmap"
	ViewSchedule  = "lineup_schedule"
)

// Titles of the ranked artist table.
const (
	TitleTopArtists    = "Top Artists"
	TitleLineupArtists = "Artists in Lineup"
)

// Session owns the ingested history of one user. It is not safe for
// concurrent use.
type Session struct {
	ID string

	cache  *store.Store
	log    zerolog.Logger
	digest string
	batch  *history.Batch
}

// New opens a session with a private in-memory cache.
func New() (*Session, error) {
	cache, err := store.New(store.Memory)
	if err != nil {
		return nil, fmt.Errorf("opening session cache: %w", err)
	}
	id := uuid.NewString()
	return &Session{
		ID:    id,
		cache: cache,
		log:   logging.With("session", id),
	}, nil
}

func (s *Session) Close() error {
	return s.cache.Close()
}

// Digest identifies a set of files and the ingest options applied to them.
// File order does not matter.
func Digest(files []history.File, opts history.IngestOptions) string {
	sums := make([]string, len(files))
	for i, f := range files {
		h := sha256.New()
		h.Write([]byte(f.Name))
		h.Write([]byte{0})
		h.Write(f.Data)
		sums[i] = hex.EncodeToString(h.Sum(nil))
	}
	sort.Strings(sums)

	h := sha256.New()
	fmt.Fprintf(h, "markers=%s;dedupe=%t;", strings.Join(opts.Markers, ","), opts.Dedupe)
	for _, sum := range sums {
		h.Write([]byte(sum))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Load ingests files, reusing the cached batch when the same files were
// loaded before. Ingestion errors such as history.ErrNoValidData are fatal
// and leave the previous batch in place.
func (s *Session) Load(files []history.File, opts history.IngestOptions) (*history.Report, error) {
	digest := Digest(files, opts)
	log := s.log.With().Str("digest", digest[:12]).Logger()

	if digest == s.digest && s.batch != nil {
		log.Debug().Msg("Files unchanged")
		return &s.batch.Report, nil
	}

	batch, err := s.cache.GetBatch(digest)
	if err != nil {
		return nil, fmt.Errorf("reading cached batch: %w", err)
	}
	if batch != nil {
		log.Info().Int("records", len(batch.Records)).Msg("Using cached batch")
	} else {
		batch, err = history.Ingest(files, opts)
		if err != nil {
			return nil, err
		}
		if err := s.cache.PutBatch(digest, batch); err != nil {
			return nil, fmt.Errorf("caching batch: %w", err)
		}
		if err := s.evict(log); err != nil {
			return nil, err
		}
	}

	s.digest = digest
	s.batch = batch
	return &batch.Report, nil
}

// MaxCachedBatches bounds the batches a session keeps.
const MaxCachedBatches = 4

// evict drops the oldest batches beyond MaxCachedBatches.
func (s *Session) evict(log zerolog.Logger) error {
	digests, err := s.cache.Digests()
	if err != nil {
		return fmt.Errorf("listing cached batches: %w", err)
	}
	for len(digests) > MaxCachedBatches {
		oldest := digests[0]
		digests = digests[1:]
		plays, err := s.cache.PlayCount(oldest)
		if err != nil {
			return err
		}
		if err := s.cache.DeleteBatch(oldest); err != nil {
			return fmt.Errorf("evicting batch: %w", err)
		}
		log.Debug().Str("evicted", oldest[:12]).Int("plays", plays).Msg("Evicted cached batch")
	}
	return nil
}

// Batch returns the loaded batch, or nil.
func (s *Session) Batch() *history.Batch {
	return s.batch
}

// Result is the output of one pipeline run.
type Result struct {
	Report analysis.Report

	// Ingest describes the files behind the loaded batch.
	Ingest history.Report

	// Events is the filtered event table every view was computed from.
	Events []history.Event

	// All is the derived event table before any filter.
	All []history.Event
}

// Title is the label of the ranked artist table before any cut.
func (r *Result) Title() string {
	if r.Report.Metadata.Mode == ModeLineup {
		return TitleLineupArtists
	}
	return TitleTopArtists
}

// Empty reports whether a view had no data for the selection.
func (r *Result) Empty(view string) bool {
	_, ok := r.Report.Notices[view]
	return ok
}

func (r *Result) notice(view string, err error) {
	if r.Report.Notices == nil {
		r.Report.Notices = make(map[string]string)
	}
	r.Report.Notices[view] = err.Error()
}

// Run recomputes every view from the loaded batch. Malformed timestamps and
// invalid configs are errors; selections that match nothing are recorded in
// Report.Notices and only skip the affected views.
func (s *Session) Run(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s.batch == nil {
		return nil, ErrNotLoaded
	}

	events, err := history.Derive(s.batch.Records, cfg.OffsetHours)
	if err != nil {
		return nil, err
	}

	res := &Result{All: events, Ingest: s.batch.Report}
	res.Report.Metadata = analysis.ReportMetadata{
		GeneratedDate: time.Now().Format("2006-01-02"),
		Session:       s.ID,
		Mode:          cfg.Mode,
		Files:         len(s.batch.Report.Accepted),
		Records:       len(s.batch.Records),
		MinMinutes:    cfg.MinMinutes,
	}

	played := history.FilterMinPlay(events, cfg.MinPlayMs)

	dateRange := cfg.Range
	if cfg.RangePreset != "" {
		dateRange, err = history.PresetRange(cfg.RangePreset, played)
		if err != nil {
			return nil, err
		}
	}
	res.Report.Metadata.DateRange = dateRange.String()

	var filtered []history.Event
	title := TitleTopArtists
	switch cfg.Mode {
	case ModeLineup:
		title = TitleLineupArtists
		filtered, err = lineup.Match(played, cfg.Lineup, lineup.MatchOptions{MinMinutes: cfg.MinMinutes, Range: dateRange})
		if err != nil && !errors.Is(err, history.ErrEmptySelection) {
			return nil, err
		}
	default:
		filtered = history.ThresholdByArtist(history.FilterDateRange(played, dateRange), cfg.MinMinutes)
	}
	if len(filtered) == 0 {
		if err == nil {
			err = history.ErrEmptySelection
		}
		s.log.Info().Str("mode", cfg.Mode).Msg("Selection is empty")
		res.notice(ViewSelection, err)
		return res, nil
	}
	res.Events = filtered

	report := &res.Report
	report.Summary = analysis.Summarize(filtered)
	report.TopArtists = analysis.Top(filtered, cfg.TopN, title)
	report.TopTracks, _, _ = analysis.TopN(analysis.ByTrack(filtered, analysis.ByListens), cfg.TopN, "")
	report.Months = analysis.ByMonth(filtered)

	if cfg.Mode == ModeLineup {
		report.Schedule = lineup.Schedule(cfg.Lineup, report.TopArtists.Order)
		if len(report.Schedule) == 0 {
			res.notice(ViewSchedule, lineup.ErrNoLineupMatch)
		}
	}

	profile, err := analysis.Profile(filtered, cfg.Artist)
	if err != nil {
		if !errors.Is(err, history.ErrEmptySelection) {
			return nil, err
		}
		s.log.Info().Str("artist", cfg.Artist).Msg("No data for artist")
		res.notice(ViewProfile, err)
		res.notice(ViewYear, err)
		res.notice(ViewHeatmap, err)
		return res, nil
	}
	report.Profile = profile

	year := cfg.Year
	if year == 0 {
		year = profile.MostListenedYear
	}

	report.Year, err = analysis.Year(filtered, cfg.Artist, year)
	if err != nil {
		if !errors.Is(err, history.ErrEmptySelection) {
			return nil, err
		}
		s.log.Info().Str("artist", cfg.Artist).Int("year", year).Msg("No data for year")
		res.notice(ViewYear, err)
		res.notice(ViewHeatmap, err)
		return res, nil
	}

	grid, err := calendar.Build(history.FilterArtist(filtered, cfg.Artist), year, profile.Artist, cfg.Buckets)
	if err != nil {
		return nil, fmt.Errorf("building heatmap: %w", err)
	}
	report.Heatmap = grid

	s.log.Debug().
		Int("events", len(filtered)).
		Int("artists", report.Summary.DistinctArtists).
		Int("year", year).
		Msg("Computed views")
	return res, nil
}
