package history

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// DayNames are indexed by the Monday=0 day-of-week convention.
var DayNames = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// DayIndex returns the Monday=0 index of a day name, or -1.
func DayIndex(name string) int {
	for i, d := range DayNames {
		if strings.EqualFold(d, name) {
			return i
		}
	}
	return -1
}

// MondayIndex converts a time.Weekday (Sunday=0) to the Monday=0 convention.
func MondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// Event is a canonical listening event with its derived temporal fields.
// Events are values and are never modified after Derive.
type Event struct {
	ArtistName    string
	TrackName     string
	EndTime       time.Time
	MsPlayed      int64
	MinutesPlayed float64

	Date          time.Time
	DayOfWeek     int
	DayOfWeekName string
	HourOfDay     int
	ISOWeek       int
	ISOYear       int
}

// Layouts accepted for endTime. Timestamps carrying a zone are converted to
// UTC; the rest are read as naive wall-clock times.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var errUnknownLayout = errors.New("unrecognized timestamp layout")

// ParseTimestamp parses an endTime value into a zone-less (UTC) time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errUnknownLayout
}

// DateOf truncates t to midnight of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Derive parses timestamps and computes the temporal fields of each record.
// offsetHours shifts endTime before anything is derived from it, moving the
// listening-day boundary. A single unparseable timestamp fails the batch.
// The result is sorted by endTime.
func Derive(records []Record, offsetHours float64) ([]Event, error) {
	offset := time.Duration(offsetHours * float64(time.Hour))

	events := make([]Event, 0, len(records))
	for i, rec := range records {
		t, err := ParseTimestamp(rec.EndTime)
		if err != nil {
			return nil, &MalformedTimestampError{Index: i, Value: rec.EndTime, Err: err}
		}
		events = append(events, newEvent(rec, t.Add(offset)))
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EndTime.Before(events[j].EndTime)
	})
	return events, nil
}

func newEvent(rec Record, end time.Time) Event {
	isoYear, isoWeek := end.ISOWeek()
	dow := MondayIndex(end.Weekday())
	return Event{
		ArtistName:    rec.ArtistName,
		TrackName:     rec.TrackName,
		EndTime:       end,
		MsPlayed:      rec.MsPlayed,
		MinutesPlayed: float64(rec.MsPlayed) / 60000,
		Date:          DateOf(end),
		DayOfWeek:     dow,
		DayOfWeekName: DayNames[dow],
		HourOfDay:     end.Hour(),
		ISOWeek:       isoWeek,
		ISOYear:       isoYear,
	}
}
