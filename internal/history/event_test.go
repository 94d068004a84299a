package history

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2022, 3, 1, 10, 15, 0, 0, time.UTC)
	for _, s := range []string{
		"2022-03-01 10:15",
		"2022-03-01 10:15:00",
		"2022-03-01T10:15:00",
		"2022-03-01T10:15:00Z",
		"2022-03-01T11:15:00+01:00",
		" 2022-03-01T10:15 ",
	} {
		got, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), "%s: got %v", s, got)
	}

	_, err := ParseTimestamp("03/01/2022")
	assert.Error(t, err)
}

func TestDeriveFields(t *testing.T) {
	events, err := Derive([]Record{
		{ArtistName: "a", TrackName: "x", EndTime: "2021-01-01 23:30", MsPlayed: 90000},
	}, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, 1.5, e.MinutesPlayed)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), e.Date)
	assert.Equal(t, 4, e.DayOfWeek)
	assert.Equal(t, "Friday", e.DayOfWeekName)
	assert.Equal(t, 23, e.HourOfDay)
	// 2021-01-01 belongs to week 53 of ISO year 2020.
	assert.Equal(t, 53, e.ISOWeek)
	assert.Equal(t, 2020, e.ISOYear)
}

func TestDeriveOffsetMovesDayBoundary(t *testing.T) {
	events, err := Derive([]Record{
		{ArtistName: "a", TrackName: "x", EndTime: "2022-03-06 10:00", MsPlayed: 1},
	}, 16)
	require.NoError(t, err)

	e := events[0]
	assert.Equal(t, time.Date(2022, 3, 7, 0, 0, 0, 0, time.UTC), e.Date)
	assert.Equal(t, "Monday", e.DayOfWeekName)
	assert.Equal(t, 2, e.HourOfDay)
	assert.Equal(t, 10, e.ISOWeek)

	events, err = Derive([]Record{
		{ArtistName: "a", TrackName: "x", EndTime: "2022-03-06 10:00", MsPlayed: 1},
	}, -10.5)
	require.NoError(t, err)
	assert.Equal(t, 23, events[0].HourOfDay)
	assert.Equal(t, "Saturday", events[0].DayOfWeekName)
}

func TestDeriveMalformedTimestamp(t *testing.T) {
	_, err := Derive([]Record{
		{ArtistName: "a", TrackName: "x", EndTime: "2022-03-06 10:00", MsPlayed: 1},
		{ArtistName: "a", TrackName: "x", EndTime: "yesterday", MsPlayed: 1},
	}, 0)
	require.Error(t, err)

	var malformed *MalformedTimestampError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 1, malformed.Index)
	assert.Equal(t, "yesterday", malformed.Value)
}

func TestDeriveSortsByEndTime(t *testing.T) {
	events, err := Derive([]Record{
		{ArtistName: "b", EndTime: "2022-03-06 10:00", MsPlayed: 1},
		{ArtistName: "a", EndTime: "2022-03-05 10:00", MsPlayed: 1},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "a", events[0].ArtistName)
	assert.Equal(t, "b", events[1].ArtistName)
}

func TestMondayIndex(t *testing.T) {
	assert.Equal(t, 0, MondayIndex(time.Monday))
	assert.Equal(t, 6, MondayIndex(time.Sunday))
	assert.Equal(t, 5, DayIndex("saturday"))
	assert.Equal(t, -1, DayIndex("Someday"))
}
