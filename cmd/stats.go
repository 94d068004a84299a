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

	"github.com/spf13/cobra"

	"github.com/ademuri/streaming-history/internal/session"
)

var statsCmd = &cobra.Command{
	Use:   "stats [files...]",
	Short: "Shows what was loaded and summary metrics",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printStats(os.Stdout, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func printStats(out io.Writer, args []string) error {
	cfg, err := configFromViper(session.ModeHistory)
	if err != nil {
		return err
	}
	res, err := runPipeline(args, cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(out, statsAnalysis(res))
	printNotices(out, res)
	return nil
}

func statsAnalysis(res *session.Result) Analysis {
	in := res.Ingest
	s := res.Report.Summary
	a := Analysis{results: [][]string{
		{"Metric", "Value"},
		{"Files accepted", strconv.Itoa(len(in.Accepted))},
		{"Files dropped", strconv.Itoa(len(in.Dropped))},
		{"Files ignored", strconv.Itoa(len(in.Ignored))},
		{"Records", strconv.Itoa(in.Records)},
		{"Duplicates", strconv.Itoa(in.Duplicates)},
		{"Non-music", strconv.Itoa(in.NonMusic)},
		{"Date range", res.Report.Metadata.DateRange},
		{"Listens", strconv.Itoa(s.Listens)},
		{"Artists", strconv.Itoa(s.DistinctArtists)},
		{"Tracks", strconv.Itoa(s.DistinctTracks)},
		{"Top artist", s.TopArtist},
		{"Hours", fmt.Sprintf("%.1f", s.TotalHours)},
		{"First listen", s.FirstListen},
		{"Last listen", s.LastListen},
		{"Timespan", s.Timespan},
	}}
	for _, d := range in.Dropped {
		a.summary += fmt.Sprintf("Dropped %s: %s\n", d.File, d.Reason)
	}
	return a
}
