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
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ademuri/streaming-history/internal/analysis"
	"github.com/ademuri/streaming-history/internal/history"
	"github.com/ademuri/streaming-history/internal/session"
)

var forgottenCmd = &cobra.Command{
	Use:   "forgotten [files...]",
	Short: "Surfaces artists heavily listened to in the past but not recently",
	Long: `Identifies artists that have fallen out of rotation, grouped by how much
they were played. Dormancy is counted back from the latest listen in the
export, or from --now.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printForgotten(os.Stdout, args, changedFlags(cmd.Flags()))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(forgottenCmd)

	forgottenCmd.Flags().Int("dormant_days", 90, "Minimum days since the last listen")
	forgottenCmd.Flags().Int("results", 10, "Max results shown per interest band")
	forgottenCmd.Flags().String("sort", "dormancy", "Sort order: 'dormancy' or 'minutes'")
	forgottenCmd.Flags().String("now", "", "Reference date (YYYY-MM-DD), default is the latest listen")
}

// changedFlags collects the local flags set on the command line.
func changedFlags(flags *pflag.FlagSet) map[string]string {
	params := make(map[string]string)
	flags.Visit(func(f *pflag.Flag) {
		params[f.Name] = f.Value.String()
	})
	return params
}

type ForgottenAnalyzer struct {
	Config analysis.ForgottenConfig
	Now    time.Time
}

func (f *ForgottenAnalyzer) Configure(params map[string]string) error {
	f.Config.DormantDays = 90
	f.Config.ResultsPerBand = 10
	f.Config.SortBy = "dormancy"

	if val, ok := params["dormant_days"]; ok {
		v, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid dormant_days: %w", err)
		}
		f.Config.DormantDays = v
	}
	if val, ok := params["results"]; ok {
		v, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid results: %w", err)
		}
		f.Config.ResultsPerBand = v
	}
	if val, ok := params["sort"]; ok {
		if val != "dormancy" && val != "minutes" {
			return fmt.Errorf("invalid sort: %q", val)
		}
		f.Config.SortBy = val
	}
	if val, ok := params["now"]; ok && val != "" {
		pd, err := parseSingleDatestring(val)
		if err != nil {
			return fmt.Errorf("invalid now: %w", err)
		}
		f.Now = pd.Date
	}
	return nil
}

func (f *ForgottenAnalyzer) GetName() string {
	return "Forgotten"
}

func (f *ForgottenAnalyzer) GetResults(res *session.Result) (a Analysis, err error) {
	if res.Empty(session.ViewSelection) {
		return
	}

	now := f.Now
	if now.IsZero() {
		_, now, _ = history.Span(res.Events)
	}
	results := analysis.Forgotten(res.Events, f.Config, now)

	body := new(strings.Builder)
	fmt.Fprintf(body, "Dormant for at least %d days before %s\n", f.Config.DormantDays, now.Format("2006-01-02"))
	found := 0
	for _, band := range analysis.Bands {
		artists := results[band]
		if len(artists) == 0 {
			continue
		}
		found += len(artists)
		fmt.Fprintf(body, "\n## %s (%d+ min)\n", band, analysis.GetThreshold(band))
		for _, artist := range artists {
			fmt.Fprintf(body, "%s: %.1f min, last listen %s (%d days)\n",
				artist.Artist, artist.TotalMinutes, artist.LastListen.Format("2006-01-02"), artist.DaysSinceLast)
		}
	}
	if found == 0 {
		fmt.Fprintln(body, "No forgotten artists.")
	}
	a.BodyOverride = body.String()
	return
}

func printForgotten(out io.Writer, args []string, params map[string]string) error {
	analyser := &ForgottenAnalyzer{}
	var configurable Configurable = analyser
	if err := configurable.Configure(params); err != nil {
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

	a, err := analyser.GetResults(res)
	if err != nil {
		return err
	}
	fmt.Fprint(out, a)
	printNotices(out, res)
	return nil
}
