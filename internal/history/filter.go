package history

import (
	"fmt"
	"strings"
	"time"
)

// AllArtists selects every artist in FilterArtist.
const AllArtists = "All"

// DateRange is an inclusive range of calendar dates. A zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the range selects everything.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains compares only the date part of t.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOf(t)
	if !r.Start.IsZero() && d.Before(DateOf(r.Start)) {
		return false
	}
	if !r.End.IsZero() && d.After(DateOf(r.End)) {
		return false
	}
	return true
}

func (r DateRange) String() string {
	format := func(t time.Time) string {
		if t.IsZero() {
			return "*"
		}
		return t.Format("2006-01-02")
	}
	return format(r.Start) + ".." + format(r.End)
}

// Date range presets, relative to the latest observed date.
const (
	RangeAll      = "all"
	RangeLast30   = "last30"
	RangeLastYear = "lastyear"
)

// PresetRange resolves a named preset against the latest date in events.
func PresetRange(name string, events []Event) (DateRange, error) {
	_, latest, ok := Span(events)
	switch strings.ToLower(name) {
	case "", RangeAll:
		return DateRange{}, nil
	case RangeLast30:
		if !ok {
			return DateRange{}, nil
		}
		end := DateOf(latest)
		return DateRange{Start: end.AddDate(0, 0, -30), End: end}, nil
	case RangeLastYear:
		if !ok {
			return DateRange{}, nil
		}
		end := DateOf(latest)
		return DateRange{Start: end.AddDate(-1, 0, 0), End: end}, nil
	}
	return DateRange{}, fmt.Errorf("unknown date range preset %q", name)
}

// Span returns the earliest and latest endTime in events.
func Span(events []Event) (first, last time.Time, ok bool) {
	for i, e := range events {
		if i == 0 || e.EndTime.Before(first) {
			first = e.EndTime
		}
		if i == 0 || e.EndTime.After(last) {
			last = e.EndTime
		}
	}
	return first, last, len(events) > 0
}

// FilterDateRange keeps events whose date falls in r.
func FilterDateRange(events []Event, r DateRange) []Event {
	if r.IsZero() {
		return events
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// FilterMinPlay keeps events played for strictly more than minMs.
func FilterMinPlay(events []Event, minMs int64) []Event {
	if minMs <= 0 {
		return events
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.MsPlayed > minMs {
			out = append(out, e)
		}
	}
	return out
}

// ThresholdByArtist keeps every event of each artist whose summed minutes
// strictly exceed minMinutes. Artists are kept or dropped as a whole.
func ThresholdByArtist(events []Event, minMinutes float64) []Event {
	if minMinutes < 0 {
		return events
	}
	totals := make(map[string]int64)
	for _, e := range events {
		totals[e.ArtistName] += e.MsPlayed
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if float64(totals[e.ArtistName])/60000 > minMinutes {
			out = append(out, e)
		}
	}
	return out
}

// FilterArtist keeps events of one artist. "" and AllArtists keep everything.
func FilterArtist(events []Event, artist string) []Event {
	if artist == "" || strings.EqualFold(artist, AllArtists) {
		return events
	}
	want := NormalizeArtist(artist)
	out := make([]Event, 0)
	for _, e := range events {
		if e.ArtistName == want {
			out = append(out, e)
		}
	}
	return out
}

// FilterYear keeps events of one ISO year.
func FilterYear(events []Event, isoYear int) []Event {
	out := make([]Event, 0)
	for _, e := range events {
		if e.ISOYear == isoYear {
			out = append(out, e)
		}
	}
	return out
}

// TotalMs sums msPlayed over events.
func TotalMs(events []Event) int64 {
	var total int64
	for _, e := range events {
		total += e.MsPlayed
	}
	return total
}
