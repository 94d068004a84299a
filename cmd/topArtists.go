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

	"github.com/ademuri/streaming-history/internal/analysis"
	"github.com/ademuri/streaming-history/internal/session"
)

var topArtistsCmd = &cobra.Command{
	Use:   "top-artists [files...]",
	Short: "Gets the top artists by minutes played",
	Long: `Ranks artists by summed minutes over the selected date range. Date strings
look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopArtists(os.Stdout, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topArtistsCmd)
}

func printTopArtists(out io.Writer, args []string) error {
	cfg, err := configFromViper(session.ModeHistory)
	if err != nil {
		return err
	}
	res, err := runPipeline(args, cfg)
	if err != nil {
		return err
	}

	var analyser Analyser = TopArtistsAnalyzer{}.SetConfig(AnalyserConfig{NumToReturn: cfg.TopN})
	a, err := analyser.GetResults(res)
	if err != nil {
		return err
	}
	fmt.Fprint(out, a)
	printNotices(out, res)
	return nil
}

type TopArtistsAnalyzer struct {
	Config AnalyserConfig
}

func (t TopArtistsAnalyzer) SetConfig(config AnalyserConfig) TopArtistsAnalyzer {
	t.Config = config
	return t
}

func (t TopArtistsAnalyzer) GetName() string {
	return "Top artists"
}

func (t TopArtistsAnalyzer) GetResults(res *session.Result) (a Analysis, err error) {
	if res.Empty(session.ViewSelection) {
		return
	}

	top := analysis.Top(res.Events, t.Config.NumToReturn, res.Title())

	a.results = [][]string{{"Rank", "Artist", "Minutes", "Listens"}}
	for _, artist := range top.Artists {
		a.results = append(a.results, []string{
			strconv.Itoa(artist.Rank),
			artist.ArtistName,
			minutes(artist.TotalMinutes),
			strconv.Itoa(artist.Listens),
		})
	}

	s := res.Report.Summary
	a.summary = fmt.Sprintf("%s: found %d artists and %d listens (%.1f hours) over %s\n",
		top.Label, s.DistinctArtists, s.Listens, s.TotalHours, res.Report.Metadata.DateRange)
	return
}
