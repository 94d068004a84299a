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

	"github.com/spf13/cobra"

	"github.com/ademuri/streaming-history/internal/analysis"
	"github.com/ademuri/streaming-history/internal/session"
)

var (
	limitArtists int
	limitTracks  int
	limitMonths  int
)

var topNCmd = &cobra.Command{
	Use:   "top-n [files...]",
	Short: "Generates a textual summary of music taste",
	Long:  `Generates a summary including top artists, top tracks and recent months over the selected period.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopN(os.Stdout, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topNCmd)
	topNCmd.Flags().IntVar(&limitArtists, "artists", 10, "Number of top artists to show")
	topNCmd.Flags().IntVar(&limitTracks, "tracks", 10, "Number of top tracks to show")
	topNCmd.Flags().IntVar(&limitMonths, "months", 12, "Number of most recent months to show")
}

func printTopN(out io.Writer, args []string) error {
	cfg, err := configFromViper(session.ModeHistory)
	if err != nil {
		return err
	}
	res, err := runPipeline(args, cfg)
	if err != nil {
		return err
	}
	writeTopN(out, res, limitArtists, limitTracks, limitMonths)
	return nil
}

func writeTopN(out io.Writer, res *session.Result, artists, tracks, months int) {
	meta := res.Report.Metadata
	fmt.Fprintf(out, "Listening Summary\n")
	fmt.Fprintf(out, "Period: %s\n", meta.DateRange)
	if res.Empty(session.ViewSelection) {
		printNotices(out, res)
		return
	}

	s := res.Report.Summary
	fmt.Fprintf(out, "Listens: %d (%.1f hours, %s)\n", s.Listens, s.TotalHours, s.Timespan)
	fmt.Fprintf(out, "Artists: %d, tracks: %d\n\n", s.DistinctArtists, s.DistinctTracks)

	if artists > 0 {
		top := analysis.Top(res.Events, artists, res.Title())
		fmt.Fprintf(out, "## %s\n", top.Label)
		for _, a := range top.Artists {
			fmt.Fprintf(out, "%d. %s (%.1f min)\n", a.Rank, a.ArtistName, a.TotalMinutes)
		}
		fmt.Fprintln(out)
	}

	if tracks > 0 {
		top, label, _ := analysis.TopN(analysis.ByTrack(res.Events, analysis.ByListens), tracks, "Top Tracks")
		fmt.Fprintf(out, "## %s\n", label)
		for _, t := range top {
			fmt.Fprintf(out, "%d. %s - %s (%d)\n", t.Rank, t.TrackName, t.ArtistName, t.ListenCount)
		}
		fmt.Fprintln(out)
	}

	if months > 0 {
		all := res.Report.Months
		if len(all) > months {
			all = all[len(all)-months:]
		}
		fmt.Fprintf(out, "## Months\n")
		for _, m := range all {
			fmt.Fprintf(out, "%s: %.1f min, %d listens\n", m.Period, m.TotalMinutes, m.Listens)
		}
		fmt.Fprintln(out)
	}

	printNotices(out, res)
}
