package calendar

import (
	"time"

	"github.com/ademuri/streaming-history/internal/history"
)

// DateFromISOParts returns the date of a day in an ISO week. Week 0 is the
// week before week 1, which falls in the previous ISO year, and week 53 of a
// 52-week year is week 1 of the next.
func DateFromISOParts(isoYear, isoWeek, dayOfWeek int) time.Time {
	jan4 := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -history.MondayIndex(jan4.Weekday()))
	return monday.AddDate(0, 0, (isoWeek-1)*7+dayOfWeek)
}

// WeeksIn returns the number of ISO weeks in isoYear, 52 or 53.
func WeeksIn(isoYear int) int {
	_, w := time.Date(isoYear, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// MonthTicks maps a week column to the abbreviation of the month it starts.
// Each month is placed at the ISO week of its 3rd day, except December which
// uses the 15th. A January 3rd still in the previous ISO year maps to week 0.
func MonthTicks(isoYear int) map[int]string {
	ticks := make(map[int]string, 12)
	for m := time.January; m <= time.December; m++ {
		day := 3
		if m == time.December {
			day = 15
		}
		y, w := time.Date(isoYear, m, day, 0, 0, 0, 0, time.UTC).ISOWeek()
		if y < isoYear {
			w = 0
		}
		ticks[w] = m.String()[:3]
	}
	return ticks
}
