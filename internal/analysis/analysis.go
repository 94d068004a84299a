package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ademuri/streaming-history/internal/history"
)

const msPerMinute = 60000

func minutes(ms int64) float64 {
	return float64(ms) / msPerMinute
}

func hours(ms int64) float64 {
	return float64(ms) / (60 * msPerMinute)
}

// ByArtist sums listening per artist and ranks the result.
func ByArtist(events []history.Event, m Measure) []ArtistAggregate {
	index := make(map[string]int)
	var out []ArtistAggregate
	for _, e := range events {
		i, ok := index[e.ArtistName]
		if !ok {
			i = len(out)
			index[e.ArtistName] = i
			out = append(out, ArtistAggregate{ArtistName: e.ArtistName})
		}
		out[i].totalMs += e.MsPlayed
		out[i].Listens++
	}
	for i := range out {
		out[i].TotalMinutes = minutes(out[i].totalMs)
	}

	rank(out,
		func(a *ArtistAggregate) int64 {
			if m == ByListens {
				return int64(a.Listens)
			}
			return a.totalMs
		},
		func(a *ArtistAggregate) string { return a.ArtistName },
		func(a *ArtistAggregate, r int) { a.Rank = r },
	)
	return out
}

type trackKey struct {
	artist string
	track  string
}

// ByTrack sums listening per (artist, track) and ranks the result.
func ByTrack(events []history.Event, m Measure) []TrackAggregate {
	index := make(map[trackKey]int)
	var out []TrackAggregate
	for _, e := range events {
		k := trackKey{e.ArtistName, e.TrackName}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, TrackAggregate{ArtistName: e.ArtistName, TrackName: e.TrackName})
		}
		out[i].totalMs += e.MsPlayed
		out[i].ListenCount++
	}
	for i := range out {
		out[i].TotalMinutes = minutes(out[i].totalMs)
	}

	rank(out,
		func(t *TrackAggregate) int64 {
			if m == ByListens {
				return int64(t.ListenCount)
			}
			return t.totalMs
		},
		func(t *TrackAggregate) string { return t.TrackName + "\x00" + t.ArtistName },
		func(t *TrackAggregate, r int) { t.Rank = r },
	)
	return out
}

func byPeriod(events []history.Event, period func(history.Event) string, perArtist bool) []PeriodAggregate {
	type key struct{ period, artist string }
	index := make(map[key]int)
	var out []PeriodAggregate
	for _, e := range events {
		k := key{period: period(e)}
		if perArtist {
			k.artist = e.ArtistName
		}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, PeriodAggregate{Period: k.period, ArtistName: k.artist})
		}
		out[i].totalMs += e.MsPlayed
		out[i].Listens++
	}
	for i := range out {
		out[i].TotalMinutes = minutes(out[i].totalMs)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period < out[j].Period
		}
		return out[i].ArtistName < out[j].ArtistName
	})
	return out
}

func month(e history.Event) string { return e.Date.Format("2006-01") }

func isoYear(e history.Event) string { return strconv.Itoa(e.ISOYear) }

// ByMonth sums listening per calendar month, in chronological order.
func ByMonth(events []history.Event) []PeriodAggregate {
	return byPeriod(events, month, false)
}

// ByYear sums listening per ISO year, in chronological order.
func ByYear(events []history.Event) []PeriodAggregate {
	return byPeriod(events, isoYear, false)
}

// ByArtistMonth sums listening per (month, artist). Within a month, artists
// follow order; artists missing from order come last.
func ByArtistMonth(events []history.Event, order []string) []PeriodAggregate {
	out := byPeriod(events, month, true)
	pos := make(map[string]int, len(order))
	for i, a := range order {
		pos[a] = i
	}
	position := func(a string) int {
		if p, ok := pos[a]; ok {
			return p
		}
		return len(order)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period < out[j].Period
		}
		return position(out[i].ArtistName) < position(out[j].ArtistName)
	})
	return out
}

// SortOrder is the artist axis order implied by a ranked artist table.
func SortOrder(artists []ArtistAggregate) []string {
	order := make([]string, len(artists))
	for i, a := range artists {
		order[i] = a.ArtistName
	}
	return order
}

// Top ranks artists by minutes and cuts the table to n entries. Order covers
// every ranked artist, not just the cut, so charts beyond the top list keep
// the same identity mapping.
func Top(events []history.Event, n int, title string) TopArtists {
	ranked := ByArtist(events, ByMinutes)
	cut, label, truncated := TopN(ranked, n, title)
	return TopArtists{
		Label:     label,
		Truncated: truncated,
		Artists:   cut,
		Order:     SortOrder(ranked),
	}
}

// Summarize computes scalar metrics over events.
func Summarize(events []history.Event) Summary {
	var s Summary
	if len(events) == 0 {
		return s
	}

	artists := ByArtist(events, ByMinutes)
	s.DistinctArtists = len(artists)
	s.TopArtist = artists[0].ArtistName
	s.DistinctTracks = len(ByTrack(events, ByListens))
	s.TotalHours = hours(history.TotalMs(events))
	s.Listens = len(events)

	first, last, _ := history.Span(events)
	s.FirstListen = first.Format("2006-01-02")
	s.LastListen = last.Format("2006-01-02")

	years := ByYear(events)
	s.Timespan = fmt.Sprintf("%s - %s", years[0].Period, years[len(years)-1].Period)
	return s
}

// MostListenedYear returns the ISO year with the most minutes. Ties go to
// the earlier year.
func MostListenedYear(events []history.Event) int {
	best, bestMs := 0, int64(-1)
	for _, y := range ByYear(events) {
		if y.totalMs > bestMs {
			best, _ = strconv.Atoi(y.Period)
			bestMs = y.totalMs
		}
	}
	return best
}

func years(events []history.Event) []int {
	var out []int
	for _, y := range ByYear(events) {
		n, _ := strconv.Atoi(y.Period)
		out = append(out, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func isAll(artist string) bool {
	return artist == "" || strings.EqualFold(artist, history.AllArtists)
}

// rankLabel is the rank of artist among events, or "-" for every artist.
func rankLabel(events []history.Event, artist string) string {
	if isAll(artist) {
		return "-"
	}
	want := history.NormalizeArtist(artist)
	for _, a := range ByArtist(events, ByMinutes) {
		if a.ArtistName == want {
			return strconv.Itoa(a.Rank)
		}
	}
	return "-"
}

// Profile builds the lifetime view of artist over events. An artist with no
// events is an empty selection.
func Profile(events []history.Event, artist string) (*ArtistProfile, error) {
	selected := history.FilterArtist(events, artist)
	if len(selected) == 0 {
		return nil, fmt.Errorf("artist %q: %w", artist, history.ErrEmptySelection)
	}

	name := history.AllArtists
	if !isAll(artist) {
		name = history.NormalizeArtist(artist)
	}

	tracks := ByTrack(selected, ByListens)
	byMinutes := ByTrack(selected, ByMinutes)
	return &ArtistProfile{
		Artist:           name,
		LifetimeRank:     rankLabel(events, artist),
		TotalHours:       hours(history.TotalMs(selected)),
		UniqueTracks:     distinctTracks(selected),
		TopSong:          byMinutes[0].TrackName,
		MostListenedYear: MostListenedYear(selected),
		Years:            years(selected),
		Tracks:           tracks,
		Months:           ByMonth(selected),
	}, nil
}

// Year narrows the view of artist to one ISO year. The rank is the artist's
// rank among all artists in that year.
func Year(events []history.Event, artist string, year int) (*YearView, error) {
	inYear := history.FilterYear(events, year)
	selected := history.FilterArtist(inYear, artist)
	if len(selected) == 0 {
		return nil, fmt.Errorf("artist %q in %d: %w", artist, year, history.ErrEmptySelection)
	}

	name := history.AllArtists
	if !isAll(artist) {
		name = history.NormalizeArtist(artist)
	}
	return &YearView{
		Artist:       name,
		Year:         year,
		Rank:         rankLabel(inYear, artist),
		TotalHours:   hours(history.TotalMs(selected)),
		UniqueTracks: distinctTracks(selected),
		Tracks:       ByTrack(selected, ByListens),
	}, nil
}

// distinctTracks counts track names, as listed in a profile.
func distinctTracks(events []history.Event) int {
	seen := make(map[string]struct{})
	for _, e := range events {
		seen[e.TrackName] = struct{}{}
	}
	return len(seen)
}
