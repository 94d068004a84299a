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
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ademuri/streaming-history/internal/calendar"
	"github.com/ademuri/streaming-history/internal/history"
	"github.com/ademuri/streaming-history/internal/session"
)

// Glyphs from the lowest to the highest bucket.
var heatGlyphs = []rune{'·', '░', '▒', '▓', '█'}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap [files...]",
	Short: "Draws a week by day calendar of minutes played",
	Long: `Draws one ISO year of listening as 7 rows (Monday first) by 53 week
columns. Select the year with --year and the artist with --artist.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printHeatmap(os.Stdout, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(heatmapCmd)
}

func printHeatmap(out io.Writer, args []string) error {
	cfg, err := configFromViper(session.ModeHistory)
	if err != nil {
		return err
	}
	res, err := runPipeline(args, cfg)
	if err != nil {
		return err
	}
	if res.Report.Heatmap != nil {
		writeHeatmap(out, res.Report.Heatmap)
	}
	printNotices(out, res)
	return nil
}

func glyph(s calendar.Scheme, minutes float64) rune {
	n := len(s.Labels)
	if n <= 1 {
		return heatGlyphs[0]
	}
	return heatGlyphs[s.Bucket(minutes)*(len(heatGlyphs)-1)/(n-1)]
}

func writeHeatmap(out io.Writer, g *calendar.Grid) {
	fmt.Fprintf(out, "%s, ISO year %d: %.1f minutes\n\n", g.Artist, g.Year, g.TotalMinutes())

	ticks := []rune(strings.Repeat(" ", calendar.Columns+3))
	for week, month := range g.Ticks {
		col := week - g.FirstWeek
		if col < 0 || col >= calendar.Columns {
			continue
		}
		copy(ticks[col:], []rune(month))
	}
	fmt.Fprintf(out, "    %s\n", strings.TrimRight(string(ticks), " "))

	for day := 0; day < calendar.Days; day++ {
		row := make([]rune, 0, calendar.Columns)
		for _, week := range g.Weeks() {
			c, _ := g.At(week, day)
			row = append(row, glyph(g.Scheme, c.MinutesPlayed))
		}
		fmt.Fprintf(out, "%s %s\n", history.DayNames[day][:3], string(row))
	}

	fmt.Fprintln(out)
	for i, label := range g.Scheme.Labels {
		// Glyph of the upper boundary of each bucket.
		fmt.Fprintf(out, "%c %s  ", glyph(g.Scheme, g.Scheme.Boundaries[i+1]), label)
	}
	fmt.Fprintln(out)
}
