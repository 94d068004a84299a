/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/ademuri/streaming-history/internal/history"
)

// ParsedDate is a date string with the precision it was written in.
type ParsedDate struct {
	Date  time.Time
	Year  bool
	Month bool
	Day   bool
}

var relativeDate = regexp.MustCompile(`^(\d+)([dwmy])$`)

// parseDateRange builds an inclusive range from the --from and --to flags.
// A lone --from covers the whole year, month or day it names. --to includes
// all of the period it names.
func parseDateRange(from, to string) (r history.DateRange, err error) {
	switch {
	case from == "" && to == "":
		return

	case to == "":
		var start, end time.Time
		start, end, err = getImplicitDateRange(from)
		if err != nil {
			return
		}
		if _, relative := isRelative(from); relative {
			return history.DateRange{Start: start}, nil
		}
		return history.DateRange{Start: start, End: end.AddDate(0, 0, -1)}, nil

	case from == "":
		var end time.Time
		_, end, err = getImplicitDateRange(to)
		if err != nil {
			return
		}
		return history.DateRange{End: end.AddDate(0, 0, -1)}, nil
	}

	start, _, err := getExplicitDateRange(from, to)
	if err != nil {
		return
	}
	_, end, err := getImplicitDateRange(to)
	if err != nil {
		return
	}
	if !end.After(start) {
		err = fmt.Errorf("Date range ends before it starts: %q to %q", from, to)
		return
	}
	return history.DateRange{Start: start, End: end.AddDate(0, 0, -1)}, nil
}

func getImplicitDateRange(ds string) (start time.Time, end time.Time, err error) {
	date, err := parseSingleDatestring(ds)
	if err != nil {
		return
	}

	start = date.Date
	switch {
	case date.Year:
		end = start.AddDate(1, 0, 0)

	case date.Month:
		end = start.AddDate(0, 1, 0)

	case date.Day:
		end = start.AddDate(0, 0, 1)

	default:
		err = fmt.Errorf("Invalid format: %q", ds)
	}

	return
}

func getExplicitDateRange(startString, endString string) (start time.Time, end time.Time, err error) {
	startParsed, err := parseSingleDatestring(startString)
	if err != nil {
		return
	}
	start = startParsed.Date

	endParsed, err := parseSingleDatestring(endString)
	if err != nil {
		return
	}
	end = endParsed.Date

	return
}

func isRelative(ds string) ([]string, bool) {
	m := relativeDate.FindStringSubmatch(ds)
	return m, m != nil
}

func parseSingleDatestring(ds string) (date ParsedDate, err error) {
	if m, ok := isRelative(ds); ok {
		var amount int
		amount, err = strconv.Atoi(m[1])
		if err != nil {
			err = fmt.Errorf("Parsing relative datestring: %w", err)
			return
		}
		now := time.Now()
		switch m[2] {
		case "d":
			date.Date = now.AddDate(0, 0, -amount)
		case "w":
			date.Date = now.AddDate(0, 0, -amount*7)
		case "m":
			date.Date = now.AddDate(0, -amount, 0)
		case "y":
			date.Date = now.AddDate(-amount, 0, 0)
		}
		date.Day = true
		return
	}

	matched, err := regexp.Match(`^\d{4}$`, []byte(ds))
	if err != nil {
		err = fmt.Errorf("Parsing datestring as year: %w", err)
		return
	}
	if matched {
		date.Date, err = time.Parse("2006", ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as year: %w", err)
			return
		}
		date.Year = true
		return
	}

	matched, err = regexp.Match(`^\d{4}-\d{2}$`, []byte(ds))
	if err != nil {
		err = fmt.Errorf("Parsing datestring as month: %w", err)
		return
	}
	if matched {
		date.Date, err = time.Parse("2006-01", ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as month: %w", err)
			return
		}
		date.Month = true
		return
	}

	matched, err = regexp.Match(`^\d{4}-\d{2}-\d{2}$`, []byte(ds))
	if err != nil {
		err = fmt.Errorf("Parsing datestring as day: %w", err)
		return
	}
	if matched {
		date.Date, err = time.Parse("2006-01-02", ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as day: %w", err)
			return
		}
		date.Day = true
		return
	}

	err = fmt.Errorf("Invalid format: %q", ds)
	return
}
