package lineup

import (
	"fmt"
	"sort"

	"github.com/ademuri/streaming-history/internal/history"
)

// ErrNoLineupMatch is returned when no artist of the history is performing,
// or none passes the threshold. It wraps history.ErrEmptySelection.
var ErrNoLineupMatch = fmt.Errorf("no lineup artists in listening history: %w", history.ErrEmptySelection)

// DefaultMinMinutes is the per-artist threshold of lineup mode.
const DefaultMinMinutes = 1.0

type MatchOptions struct {
	// MinMinutes is the strict lower bound on an artist's summed minutes.
	MinMinutes float64

	// Range restricts events by date before the threshold is computed.
	Range history.DateRange
}

// Match inner-joins events against the lineup. Only events of lineup artists
// whose date is in range are kept, and then only for artists whose summed
// minutes over those events exceed MinMinutes.
func Match(events []history.Event, lineup Lineup, opts MatchOptions) ([]history.Event, error) {
	joined := make([]history.Event, 0)
	for _, e := range events {
		if _, ok := lineup[history.NormalizeArtist(e.ArtistName)]; ok {
			joined = append(joined, e)
		}
	}
	if len(joined) == 0 {
		return nil, ErrNoLineupMatch
	}

	matched := history.ThresholdByArtist(history.FilterDateRange(joined, opts.Range), opts.MinMinutes)
	if len(matched) == 0 {
		return nil, ErrNoLineupMatch
	}
	return matched, nil
}

// Slot is one lineup day with the matched artists playing it.
type Slot struct {
	Day     string   `json:"day" yaml:"day"`
	Artists []string `json:"artists" yaml:"artists"`
}

// Schedule groups the artists of order by the day they play. Artists keep
// their position in order, which callers pass as the rank order. Days are
// ordered by the earliest lineup row among their artists.
func Schedule(lineup Lineup, order []string) []Slot {
	first := make(map[string]int)
	byDay := make(map[string][]string)
	for _, artist := range order {
		entry, ok := lineup[history.NormalizeArtist(artist)]
		if !ok {
			continue
		}
		for _, day := range entry.Days {
			if seq, seen := first[day]; !seen || entry.seq < seq {
				first[day] = entry.seq
			}
			byDay[day] = append(byDay[day], artist)
		}
	}

	slots := make([]Slot, 0, len(byDay))
	for day, artists := range byDay {
		slots = append(slots, Slot{Day: day, Artists: artists})
	}
	sort.Slice(slots, func(i, j int) bool {
		if first[slots[i].Day] != first[slots[j].Day] {
			return first[slots[i].Day] < first[slots[j].Day]
		}
		return slots[i].Day < slots[j].Day
	})
	return slots
}
