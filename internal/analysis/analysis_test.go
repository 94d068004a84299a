package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademuri/streaming-history/internal/history"
)

func derive(t *testing.T, records ...history.Record) []history.Event {
	t.Helper()
	events, err := history.Derive(records, 0)
	require.NoError(t, err)
	return events
}

func play(artist, track, end string, ms int64) history.Record {
	return history.Record{ArtistName: artist, TrackName: track, EndTime: end, MsPlayed: ms}
}

func TestTameImpalaScenario(t *testing.T) {
	events := derive(t,
		play("tame impala", "Borderline", "2022-03-07 10:00", 120000),
		play("tame impala", "Breathe Deeper", "2022-03-08 10:00", 60000),
		play("tame impala", "Borderline", "2022-03-09 10:00", 30000),
	)

	artists := ByArtist(history.ThresholdByArtist(events, 1.0), ByMinutes)
	require.Len(t, artists, 1)
	assert.Equal(t, "tame impala", artists[0].ArtistName)
	assert.Equal(t, 3.5, artists[0].TotalMinutes)
	assert.Equal(t, 1, artists[0].Rank)
	assert.Equal(t, 3, artists[0].Listens)
}

func TestCompetitionRanking(t *testing.T) {
	events := derive(t,
		play("a", "x", "2022-01-01 10:00", 300000),
		play("b", "x", "2022-01-01 11:00", 200000),
		play("c", "x", "2022-01-01 12:00", 200000),
		play("d", "x", "2022-01-01 13:00", 100000),
		play("e", "x", "2022-01-01 14:00", 100000),
		play("e", "y", "2022-01-01 14:10", 0),
	)

	artists := ByArtist(events, ByMinutes)
	got := map[string]int{}
	for _, a := range artists {
		got[a.ArtistName] = a.Rank
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 2, "d": 4, "e": 4}, got)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, SortOrder(artists))

	byListens := ByArtist(events, ByListens)
	assert.Equal(t, "e", byListens[0].ArtistName)
	assert.Equal(t, 1, byListens[0].Rank)
	for _, a := range byListens[1:] {
		assert.Equal(t, 2, a.Rank)
	}
}

func TestRankTieLaw(t *testing.T) {
	var records []history.Record
	for i, ms := range []int64{5, 9, 5, 1, 9, 9, 3, 5} {
		records = append(records, play(string(rune('a'+i)), "t", "2022-01-01 10:00", ms))
	}
	artists := ByArtist(derive(t, records...), ByMinutes)

	for i, a := range artists {
		greater := 0
		for _, b := range artists {
			if b.TotalMinutes > a.TotalMinutes {
				greater++
			}
		}
		assert.Equal(t, greater+1, a.Rank, "artist %s", a.ArtistName)
		if i > 0 && artists[i-1].TotalMinutes == a.TotalMinutes {
			assert.Equal(t, artists[i-1].Rank, a.Rank)
		}
	}
	assert.Equal(t, []int{1, 1, 1, 4, 4, 4, 7, 8}, ranks(artists))
}

func ranks(artists []ArtistAggregate) []int {
	out := make([]int, len(artists))
	for i, a := range artists {
		out[i] = a.Rank
	}
	return out
}

func TestByTrack(t *testing.T) {
	events := derive(t,
		play("a", "Song", "2022-01-01 10:00", 1000),
		play("a", "Song", "2022-01-02 10:00", 1000),
		play("b", "Song", "2022-01-03 10:00", 500000),
		play("a", "Other", "2022-01-04 10:00", 1000),
	)

	byListens := ByTrack(events, ByListens)
	require.Len(t, byListens, 3)
	assert.Equal(t, "a", byListens[0].ArtistName)
	assert.Equal(t, 2, byListens[0].ListenCount)
	assert.Equal(t, 1, byListens[0].Rank)
	assert.Equal(t, 2, byListens[1].Rank)
	assert.Equal(t, 2, byListens[2].Rank)

	byMinutes := ByTrack(events, ByMinutes)
	assert.Equal(t, "b", byMinutes[0].ArtistName)
}

func TestTop(t *testing.T) {
	events := derive(t,
		play("a", "x", "2022-01-01 10:00", 3),
		play("b", "x", "2022-01-01 10:00", 2),
		play("c", "x", "2022-01-01 10:00", 1),
	)

	top := Top(events, 2, "Top Artists")
	assert.True(t, top.Truncated)
	assert.Equal(t, "Top Artists (Top 2)", top.Label)
	assert.Len(t, top.Artists, 2)
	assert.Equal(t, []string{"a", "b", "c"}, top.Order)

	top = Top(events, 3, "Top Artists")
	assert.False(t, top.Truncated)
	assert.Equal(t, "Top Artists", top.Label)
	assert.Len(t, top.Artists, 3)
}

func TestByMonthAndYear(t *testing.T) {
	events := derive(t,
		play("a", "x", "2021-01-01 10:00", 60000),
		play("a", "x", "2021-12-31 10:00", 60000),
		play("b", "x", "2021-12-01 10:00", 120000),
		play("a", "x", "2022-02-01 10:00", 60000),
	)

	months := ByMonth(events)
	require.Len(t, months, 3)
	assert.Equal(t, "2021-01", months[0].Period)
	assert.Equal(t, "2021-12", months[1].Period)
	assert.Equal(t, 2, months[1].Listens)
	assert.Equal(t, 3.0, months[1].TotalMinutes)

	// 2021-01-01 is in ISO year 2020.
	years := ByYear(events)
	require.Len(t, years, 3)
	assert.Equal(t, "2020", years[0].Period)
	assert.Equal(t, 3.0, years[1].TotalMinutes)

	perArtist := ByArtistMonth(events, []string{"b", "a"})
	require.Len(t, perArtist, 4)
	assert.Equal(t, "b", perArtist[1].ArtistName)
	assert.Equal(t, "a", perArtist[2].ArtistName)
	assert.Equal(t, "2021-12", perArtist[2].Period)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	events := derive(t,
		play("a", "x", "2021-06-01 10:00", 3600000),
		play("b", "y", "2022-06-01 10:00", 1800000),
		play("b", "z", "2022-06-02 10:00", 3600000),
	)
	s := Summarize(events)
	assert.Equal(t, 2, s.DistinctArtists)
	assert.Equal(t, 3, s.DistinctTracks)
	assert.Equal(t, "b", s.TopArtist)
	assert.Equal(t, 2.5, s.TotalHours)
	assert.Equal(t, "2021-06-01", s.FirstListen)
	assert.Equal(t, "2022-06-02", s.LastListen)
	assert.Equal(t, "2021 - 2022", s.Timespan)
}

func TestProfile(t *testing.T) {
	events := derive(t,
		play("a", "x", "2021-06-01 10:00", 60000),
		play("a", "x", "2021-06-02 10:00", 60000),
		play("a", "y", "2022-06-01 10:00", 600000),
		play("b", "z", "2022-06-01 11:00", 6000000),
	)

	p, err := Profile(events, "A")
	require.NoError(t, err)
	assert.Equal(t, "a", p.Artist)
	assert.Equal(t, "2", p.LifetimeRank)
	assert.Equal(t, 2, p.UniqueTracks)
	assert.Equal(t, "y", p.TopSong)
	assert.Equal(t, 2022, p.MostListenedYear)
	assert.Equal(t, []int{2022, 2021}, p.Years)
	assert.Equal(t, "x", p.Tracks[0].TrackName)

	all, err := Profile(events, "All")
	require.NoError(t, err)
	assert.Equal(t, "-", all.LifetimeRank)
	assert.Equal(t, 3, all.UniqueTracks)

	_, err = Profile(events, "nobody")
	assert.True(t, errors.Is(err, history.ErrEmptySelection))
}

func TestYear(t *testing.T) {
	events := derive(t,
		play("a", "x", "2021-06-01 10:00", 60000),
		play("a", "y", "2022-06-01 10:00", 600000),
		play("b", "z", "2022-06-01 11:00", 60000),
	)

	y, err := Year(events, "a", 2022)
	require.NoError(t, err)
	assert.Equal(t, "1", y.Rank)
	assert.Equal(t, 1, y.UniqueTracks)
	assert.InDelta(t, 10.0/60, y.TotalHours, 1e-9)

	_, err = Year(events, "b", 2021)
	assert.ErrorIs(t, err, history.ErrEmptySelection)
}
