package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/ademuri/streaming-history/internal/history"
)

const (
	// Columns is the number of week columns in a grid.
	Columns = 53
	// Days is the number of rows in a grid.
	Days = 7
)

// Cell is one day of a heatmap grid.
type Cell struct {
	ISOWeek       int       `yaml:"week" json:"week"`
	DayOfWeekName string    `yaml:"day" json:"day"`
	ISOYear       int       `yaml:"iso_year" json:"iso_year"`
	MinutesPlayed float64   `yaml:"minutes" json:"minutes"`
	Bucket        string    `yaml:"bucket" json:"bucket"`
	Date          time.Time `yaml:"date" json:"date"`

	// Observed is set when at least one event fell on this cell.
	Observed bool `yaml:"observed" json:"observed"`
}

// Grid is a dense Columns x Days heatmap for one ISO year. Cells are stored
// week-major, Monday first.
type Grid struct {
	Year      int            `yaml:"year" json:"year"`
	Artist    string         `yaml:"artist" json:"artist"`
	FirstWeek int            `yaml:"first_week" json:"first_week"`
	Scheme    Scheme         `yaml:"scheme" json:"scheme"`
	Ticks     map[int]string `yaml:"month_ticks" json:"month_ticks"`
	Cells     []Cell         `yaml:"cells" json:"cells"`
}

// At returns the cell of an ISO week and a Monday=0 day index.
func (g *Grid) At(week, day int) (Cell, bool) {
	col := week - g.FirstWeek
	if col < 0 || col >= Columns || day < 0 || day >= Days {
		return Cell{}, false
	}
	return g.Cells[col*Days+day], true
}

// Weeks returns the ISO week number of each column.
func (g *Grid) Weeks() []int {
	weeks := make([]int, Columns)
	for i := range weeks {
		weeks[i] = g.FirstWeek + i
	}
	return weeks
}

// TotalMinutes sums the minutes of every cell.
func (g *Grid) TotalMinutes() float64 {
	var total float64
	for _, c := range g.Cells {
		total += c.MinutesPlayed
	}
	return total
}

// FirstWeek is the ISO week of the first grid column. Columns span weeks
// 0..52, and weeks 1..53 in years with 53 ISO weeks so that no day with
// listening falls outside the grid.
func FirstWeek(isoYear int) int {
	if WeeksIn(isoYear) == 53 {
		return 1
	}
	return 0
}

type cellKey struct {
	week int
	day  int
}

// Build aggregates events of one ISO year into a dense grid. Events of other
// years are ignored. Every cell exists; cells without events have zero
// minutes and the first bucket.
func Build(events []history.Event, isoYear int, artist string, scheme Scheme) (*Grid, error) {
	if err := scheme.Validate(); err != nil {
		return nil, err
	}

	// Sums are kept in ms so that equal days compare equal.
	sparse := make(map[cellKey]int64)
	observed := make(map[cellKey]time.Time)
	for _, e := range events {
		if e.ISOYear != isoYear {
			continue
		}
		k := cellKey{week: e.ISOWeek, day: e.DayOfWeek}
		sparse[k] += e.MsPlayed
		if _, ok := observed[k]; !ok {
			observed[k] = e.Date
		}
	}

	first := FirstWeek(isoYear)
	g := &Grid{
		Year:      isoYear,
		Artist:    artist,
		FirstWeek: first,
		Scheme:    scheme,
		Ticks:     MonthTicks(isoYear),
		Cells:     make([]Cell, 0, Columns*Days),
	}
	for week := first; week < first+Columns; week++ {
		for day := 0; day < Days; day++ {
			k := cellKey{week: week, day: day}
			minutes := float64(sparse[k]) / 60000

			date, ok := observed[k]
			if !ok {
				date = DateFromISOParts(isoYear, week, day)
			}
			g.Cells = append(g.Cells, Cell{
				ISOWeek:       week,
				DayOfWeekName: history.DayNames[day],
				ISOYear:       isoYear,
				MinutesPlayed: minutes,
				Bucket:        scheme.Label(minutes),
				Date:          date,
				Observed:      ok,
			})
		}
	}
	return g, nil
}

// Years lists the ISO years present in events, most recent first.
func Years(events []history.Event) []int {
	seen := make(map[int]bool)
	var years []int
	for _, e := range events {
		if !seen[e.ISOYear] {
			seen[e.ISOYear] = true
			years = append(years, e.ISOYear)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

func (c Cell) String() string {
	return fmt.Sprintf("%d-W%02d %s %.1f min (%s)", c.ISOYear, c.ISOWeek, c.DayOfWeekName, c.MinutesPlayed, c.Bucket)
}
