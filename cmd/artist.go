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
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ademuri/streaming-history/internal/analysis"
	"github.com/ademuri/streaming-history/internal/session"
)

var artistCmd = &cobra.Command{
	Use:   "artist [files...]",
	Short: "Shows the lifetime and yearly profile of an artist",
	Long: `Shows rank, hours, unique tracks and top song of the artist given with
--artist, across all time and for the ISO year given with --year. Without
--artist every artist is profiled together.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printArtist(os.Stdout, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(artistCmd)
}

func printArtist(out io.Writer, args []string) error {
	cfg, err := configFromViper(session.ModeHistory)
	if err != nil {
		return err
	}
	res, err := runPipeline(args, cfg)
	if err != nil {
		return err
	}
	writeArtist(out, res, cfg.TopN)
	return nil
}

func writeArtist(out io.Writer, res *session.Result, numTracks int) {
	if p := res.Report.Profile; p != nil {
		years := make([]string, len(p.Years))
		for i, y := range p.Years {
			years[i] = strconv.Itoa(y)
		}
		fmt.Fprintf(out, "Artist: %s\n", p.Artist)
		fmt.Fprintf(out, "Lifetime rank: %s\n", p.LifetimeRank)
		fmt.Fprintf(out, "Total hours: %.1f\n", p.TotalHours)
		fmt.Fprintf(out, "Unique tracks: %d\n", p.UniqueTracks)
		fmt.Fprintf(out, "Top song: %s\n", p.TopSong)
		fmt.Fprintf(out, "Most listened year: %d\n", p.MostListenedYear)
		fmt.Fprintf(out, "Years: %s\n\n", strings.Join(years, ", "))
		fmt.Fprint(out, trackTable(p.Tracks, numTracks, "All time"))
	}

	if y := res.Report.Year; y != nil {
		fmt.Fprintf(out, "\n%s in %d\n", y.Artist, y.Year)
		fmt.Fprintf(out, "Rank: %s\n", y.Rank)
		fmt.Fprintf(out, "Total hours: %.1f\n", y.TotalHours)
		fmt.Fprintf(out, "Unique tracks: %d\n\n", y.UniqueTracks)
		fmt.Fprint(out, trackTable(y.Tracks, numTracks, strconv.Itoa(y.Year)))
	}

	printNotices(out, res)
}

func trackTable(tracks []analysis.TrackAggregate, n int, title string) Analysis {
	cut, label, _ := analysis.TopN(tracks, n, title)
	a := Analysis{results: [][]string{{"Track", "Artist", "Listens", "Minutes"}}}
	for _, t := range cut {
		a.results = append(a.results, []string{t.TrackName, t.ArtistName, strconv.Itoa(t.ListenCount), minutes(t.TotalMinutes)})
	}
	a.summary = label
	return a
}
