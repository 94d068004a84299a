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
	"github.com/spf13/viper"

	"github.com/ademuri/streaming-history/internal/analysis"
	"github.com/ademuri/streaming-history/internal/session"
)

var topTracksCmd = &cobra.Command{
	Use:   "top-tracks [files...]",
	Short: "Gets the top tracks",
	Long:  `Ranks (artist, track) pairs by listen count, or by minutes with --by minutes.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopTracks(os.Stdout, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topTracksCmd)

	topTracksCmd.Flags().String("by", analysis.ByListens.String(), "rank by listens or minutes")
	viper.BindPFlag("by", topTracksCmd.Flags().Lookup("by"))
}

func printTopTracks(out io.Writer, args []string) error {
	measure, err := analysis.ParseMeasure(viper.GetString("by"))
	if err != nil {
		return err
	}
	cfg, err := configFromViper(session.ModeHistory)
	if err != nil {
		return err
	}
	res, err := runPipeline(args, cfg)
	if err != nil {
		return err
	}

	var analyser Analyser = TopTracksAnalyzer{Config: AnalyserConfig{NumToReturn: cfg.TopN}, Measure: measure}
	a, err := analyser.GetResults(res)
	if err != nil {
		return err
	}
	fmt.Fprint(out, a)
	printNotices(out, res)
	return nil
}

type TopTracksAnalyzer struct {
	Config  AnalyserConfig
	Measure analysis.Measure
}

func (t TopTracksAnalyzer) GetName() string {
	return "Top tracks"
}

func (t TopTracksAnalyzer) GetResults(res *session.Result) (a Analysis, err error) {
	if res.Empty(session.ViewSelection) {
		return
	}

	ranked := analysis.ByTrack(res.Events, t.Measure)
	tracks, label, _ := analysis.TopN(ranked, t.Config.NumToReturn, "Top Tracks")

	a.results = [][]string{{"Rank", "Artist", "Track", "Minutes", "Listens"}}
	for _, track := range tracks {
		a.results = append(a.results, []string{
			strconv.Itoa(track.Rank),
			track.ArtistName,
			track.TrackName,
			minutes(track.TotalMinutes),
			strconv.Itoa(track.ListenCount),
		})
	}
	a.summary = fmt.Sprintf("%s by %s: found %d tracks over %s\n",
		label, t.Measure, len(ranked), res.Report.Metadata.DateRange)
	return
}
