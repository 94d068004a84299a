package lineup

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademuri/streaming-history/internal/history"
)

const coachella = `Artist,Day
Bad Bunny,Friday
 Drake ,Saturday
Frank Ocean,Sunday
Frank Ocean,Sunday
Boygenius,Saturday
Boygenius,Sunday
`

func TestParseTable(t *testing.T) {
	l, err := Parse(strings.NewReader(coachella), ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"bad bunny", "boygenius", "drake", "frank ocean"}, l.Artists())
	assert.Equal(t, "Saturday", l["drake"].Day)
	assert.Equal(t, []string{"Sunday"}, l["frank ocean"].Days)
	assert.Equal(t, []string{"Saturday", "Sunday"}, l["boygenius"].Days)
	assert.Equal(t, "Saturday/Sunday", l["boygenius"].Day)
	assert.Equal(t, "Saturday", l["boygenius"].RawDay)
}

func TestParseTableHeaderIsCaseInsensitive(t *testing.T) {
	l, err := Parse(strings.NewReader("day,ARTIST\nF,Blur\n"), ParseOptions{Format: FormatTable})
	require.NoError(t, err)
	assert.Equal(t, "F", l["blur"].Day)
}

func TestParseTableMissingColumns(t *testing.T) {
	_, err := Parse(strings.NewReader("Name,When\nBlur,F\n"), ParseOptions{})
	assert.Error(t, err)
}

func TestParseList(t *testing.T) {
	l, err := Parse(strings.NewReader("Kendrick Lamar,Lana Del Rey,Zedd\nZedd\n"), ParseOptions{Format: FormatList})
	require.NoError(t, err)
	assert.Equal(t, []string{"kendrick lamar", "lana del rey", "zedd"}, l.Artists())
	assert.Equal(t, DefaultDay, l["zedd"].Day)

	l, err = Parse(strings.NewReader("Zedd\n"), ParseOptions{Format: FormatList, Day: "Sat"})
	require.NoError(t, err)
	assert.Equal(t, "Sat", l["zedd"].Day)
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader("Artist,Day\n"), ParseOptions{})
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("x"), ParseOptions{Format: "xml"})
	assert.Error(t, err)
}

func derive(t *testing.T, records ...history.Record) []history.Event {
	t.Helper()
	events, err := history.Derive(records, 0)
	require.NoError(t, err)
	return events
}

func TestMatchNormalizesNames(t *testing.T) {
	l, err := Parse(strings.NewReader("Artist,Day\ndrake,Saturday\n"), ParseOptions{})
	require.NoError(t, err)

	batch, err := history.Ingest([]history.File{{
		Name: "StreamingHistory0.json",
		Data: []byte(`[{"endTime": "2022-03-01 10:15", "artistName": " Drake ", "trackName": "Passionfruit", "msPlayed": 300000}]`),
	}}, history.IngestOptions{})
	require.NoError(t, err)
	events, err := history.Derive(batch.Records, 0)
	require.NoError(t, err)

	matched, err := Match(events, l, MatchOptions{MinMinutes: DefaultMinMinutes})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "drake", matched[0].ArtistName)
}

func TestMatchThresholdOverRange(t *testing.T) {
	l, err := Parse(strings.NewReader(coachella), ParseOptions{})
	require.NoError(t, err)

	events := derive(t,
		history.Record{ArtistName: "drake", EndTime: "2022-01-01 10:00", MsPlayed: 30000},
		history.Record{ArtistName: "drake", EndTime: "2022-01-02 10:00", MsPlayed: 30000},
		history.Record{ArtistName: "drake", EndTime: "2022-01-03 10:00", MsPlayed: 30000},
		history.Record{ArtistName: "bad bunny", EndTime: "2022-01-01 10:00", MsPlayed: 50000},
		history.Record{ArtistName: "bad bunny", EndTime: "2022-02-01 10:00", MsPlayed: 50000},
		history.Record{ArtistName: "not performing", EndTime: "2022-01-01 10:00", MsPlayed: 9000000},
	)

	matched, err := Match(events, l, MatchOptions{MinMinutes: 1})
	require.NoError(t, err)
	assert.Len(t, matched, 5)

	// Restricted to January, bad bunny sums to 50s and drops out entirely.
	jan := history.DateRange{
		Start: events[0].Date,
		End:   events[0].Date.AddDate(0, 0, 30),
	}
	matched, err = Match(events, l, MatchOptions{MinMinutes: 1, Range: jan})
	require.NoError(t, err)
	require.Len(t, matched, 3)
	for _, e := range matched {
		assert.Equal(t, "drake", e.ArtistName)
	}
}

func TestMatchNoOverlap(t *testing.T) {
	l, err := Parse(strings.NewReader(coachella), ParseOptions{})
	require.NoError(t, err)

	events := derive(t, history.Record{ArtistName: "nobody", EndTime: "2022-01-01 10:00", MsPlayed: 600000})
	_, err = Match(events, l, MatchOptions{MinMinutes: 1})
	assert.True(t, errors.Is(err, ErrNoLineupMatch))
	assert.True(t, errors.Is(err, history.ErrEmptySelection))

	events = derive(t, history.Record{ArtistName: "drake", EndTime: "2022-01-01 10:00", MsPlayed: 60000})
	_, err = Match(events, l, MatchOptions{MinMinutes: 1})
	assert.ErrorIs(t, err, ErrNoLineupMatch)
}

func TestMatchDoesNotDuplicateMultiDayArtists(t *testing.T) {
	l, err := Parse(strings.NewReader(coachella), ParseOptions{})
	require.NoError(t, err)

	events := derive(t, history.Record{ArtistName: "boygenius", EndTime: "2022-01-01 10:00", MsPlayed: 600000})
	matched, err := Match(events, l, MatchOptions{})
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}

func TestSchedule(t *testing.T) {
	l, err := Parse(strings.NewReader(coachella), ParseOptions{})
	require.NoError(t, err)

	slots := Schedule(l, []string{"boygenius", "frank ocean", "drake", "unknown"})
	assert.Equal(t, []Slot{
		{Day: "Saturday", Artists: []string{"boygenius", "drake"}},
		{Day: "Sunday", Artists: []string{"boygenius", "frank ocean"}},
	}, slots)
}
