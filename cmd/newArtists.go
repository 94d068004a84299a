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
	"time"

	"github.com/spf13/cobra"

	"github.com/ademuri/streaming-history/internal/analysis"
	"github.com/ademuri/streaming-history/internal/history"
	"github.com/ademuri/streaming-history/internal/session"
)

var newArtistsCmd = &cobra.Command{
	Use:   "new-artists [files...]",
	Short: "Gets new artists for the given time period",
	Long: `Lists artists played more than --min times from --from onwards that had
fewer than --max_prior listens before it. Date strings look like 'yyyy',
'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printNewArtists(os.Stdout, args, changedFlags(cmd.Flags()))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(newArtistsCmd)

	newArtistsCmd.Flags().Int("min", analysis.DefaultNewMinListens, "Listens an artist needs in the period, exclusive")
	newArtistsCmd.Flags().Int("max_prior", analysis.DefaultNewMaxPriorListens, "Listens an artist may have had before the period, exclusive")
}

type NewArtistsAnalyzer struct {
	Config    AnalyserConfig
	NewConfig analysis.NewArtistsConfig
	Start     time.Time
}

func (t *NewArtistsAnalyzer) SetConfig(config AnalyserConfig) *NewArtistsAnalyzer {
	t.Config = config
	return t
}

func (t *NewArtistsAnalyzer) Configure(params map[string]string) error {
	t.NewConfig.MinListens = analysis.DefaultNewMinListens
	t.NewConfig.MaxPriorListens = analysis.DefaultNewMaxPriorListens

	if val, ok := params["min"]; ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid value for 'min': %v", err)
		}
		t.NewConfig.MinListens = n
	}
	if val, ok := params["max_prior"]; ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid value for 'max_prior': %v", err)
		}
		t.NewConfig.MaxPriorListens = n
	}
	return nil
}

func (t *NewArtistsAnalyzer) GetName() string {
	return "New artists"
}

func (t *NewArtistsAnalyzer) GetResults(res *session.Result) (a Analysis, err error) {
	if t.Start.IsZero() {
		err = fmt.Errorf("new-artists needs a start date, set --from")
		return
	}
	if res.Empty(session.ViewSelection) {
		return
	}

	prior := analysis.Before(res.All, t.Start)
	counts := analysis.NewArtists(res.Events, prior, t.NewConfig)
	shown, _, _ := analysis.TopN(counts, t.Config.NumToReturn, "")

	a.results = [][]string{{"Rank", "Artist", "Listens", "Before", "Minutes"}}
	for _, artist := range shown {
		a.results = append(a.results, []string{
			strconv.Itoa(artist.Rank),
			artist.ArtistName,
			strconv.Itoa(artist.Listens),
			strconv.Itoa(artist.PriorListens),
			minutes(artist.TotalMinutes),
		})
	}
	numListens := 0
	for _, artist := range counts {
		numListens += artist.Listens
	}
	a.summary = fmt.Sprintf("Found %d new artists with %d listens over %s\n",
		len(counts), numListens, res.Report.Metadata.DateRange)
	return
}

func printNewArtists(out io.Writer, args []string, params map[string]string) error {
	cfg, err := configFromViper(session.ModeHistory)
	if err != nil {
		return err
	}

	analyser := (&NewArtistsAnalyzer{Start: cfg.Range.Start}).SetConfig(AnalyserConfig{NumToReturn: cfg.TopN})
	var configurable Configurable = analyser
	if err := configurable.Configure(params); err != nil {
		return err
	}
	if analyser.Start.IsZero() {
		return fmt.Errorf("new-artists needs a start date, set --from")
	}

	res, err := runPipeline(args, cfg)
	if err != nil {
		return err
	}
	// Prior listens pass the same play filter as the period.
	res.All = history.FilterMinPlay(res.All, cfg.MinPlayMs)

	a, err := analyser.GetResults(res)
	if err != nil {
		return err
	}
	fmt.Fprint(out, a)
	printNotices(out, res)
	return nil
}
