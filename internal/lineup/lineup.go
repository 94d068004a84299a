// Package lineup matches listening history against a festival lineup.
package lineup

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ademuri/streaming-history/internal/history"
)

// Lineup file formats.
const (
	// FormatTable is a CSV with an Artist,Day header and one row per set.
	FormatTable = "table"
	// FormatList is a bare list of artists that all share one implied day.
	FormatList = "list"
)

// DefaultDay is the implied day code of list-format lineups.
const DefaultDay = "F"

// Entry is one performing artist. An artist listed on several days keeps
// every day in Days; Day joins them into one label.
type Entry struct {
	Artist string   `json:"artist" yaml:"artist"`
	Day    string   `json:"day" yaml:"day"`
	Days   []string `json:"days" yaml:"days"`
	RawDay string   `json:"raw_day" yaml:"raw_day"`

	// seq is the row the artist first appeared on.
	seq int
}

// Lineup maps normalized artist names to their entry. It is read-only once
// parsed.
type Lineup map[string]Entry

// ParseOptions controls Parse.
type ParseOptions struct {
	// Format is FormatTable or FormatList. Default: FormatTable.
	Format string

	// Day is used for every artist of a FormatList lineup. Default: DefaultDay.
	Day string
}

// Parse reads a lineup from r.
func Parse(r io.Reader, opts ParseOptions) (Lineup, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading lineup CSV: %w", err)
	}

	var lineup Lineup
	switch opts.Format {
	case "", FormatTable:
		lineup, err = parseTable(rows)
	case FormatList:
		day := opts.Day
		if day == "" {
			day = DefaultDay
		}
		lineup = parseList(rows, day)
	default:
		return nil, fmt.Errorf("unknown lineup format %q", opts.Format)
	}
	if err != nil {
		return nil, err
	}

	if len(lineup) == 0 {
		return nil, errors.New("lineup has no artists")
	}
	return lineup, nil
}

func parseTable(rows [][]string) (Lineup, error) {
	if len(rows) == 0 {
		return nil, errors.New("lineup is empty")
	}

	artistCol, dayCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "artist":
			artistCol = i
		case "day":
			dayCol = i
		}
	}
	if artistCol < 0 || dayCol < 0 {
		return nil, fmt.Errorf("lineup header %q needs Artist and Day columns", rows[0])
	}

	lineup := make(Lineup)
	for _, row := range rows[1:] {
		if artistCol >= len(row) || dayCol >= len(row) {
			continue
		}
		lineup.add(row[artistCol], row[dayCol])
	}
	return lineup, nil
}

// parseList treats every cell as an artist. Lineups published as a single
// header row of names parse the same as one name per line.
func parseList(rows [][]string, day string) Lineup {
	lineup := make(Lineup)
	for _, row := range rows {
		for _, cell := range row {
			lineup.add(cell, day)
		}
	}
	return lineup
}

func (l Lineup) add(artist, rawDay string) {
	name := history.NormalizeArtist(artist)
	day := strings.TrimSpace(rawDay)
	if name == "" {
		return
	}

	entry, ok := l[name]
	if !ok {
		entry = Entry{Artist: name, RawDay: rawDay, seq: len(l)}
	}
	if day != "" && !contains(entry.Days, day) {
		entry.Days = append(entry.Days, day)
	}
	entry.Day = strings.Join(entry.Days, "/")
	l[name] = entry
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Artists returns the lineup's artist names in sorted order.
func (l Lineup) Artists() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
