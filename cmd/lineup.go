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
	"github.com/spf13/viper"

	"github.com/ademuri/streaming-history/internal/lineup"
	"github.com/ademuri/streaming-history/internal/session"
)

var lineupCmd = &cobra.Command{
	Use:   "lineup [files...]",
	Short: "Matches listening history against a festival lineup",
	Long: `Reads the lineup CSV given with --lineup, either an Artist,Day table or a
bare list of artists, and ranks the lineup artists you have listened to.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("lineup") == "" {
			return fmt.Errorf("required flag(s) \"lineup\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		err := printLineup(os.Stdout, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(lineupCmd)
}

func readLineup(path string) (lineup.Lineup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lineup: %w", err)
	}
	defer f.Close()

	return lineup.Parse(f, lineup.ParseOptions{
		Format: viper.GetString("lineup_format"),
		Day:    viper.GetString("lineup_day"),
	})
}

func lineupConfig() (session.Config, error) {
	cfg, err := configFromViper(session.ModeLineup)
	if err != nil {
		return cfg, err
	}
	cfg.Lineup, err = readLineup(viper.GetString("lineup"))
	return cfg, err
}

func printLineup(out io.Writer, args []string) error {
	cfg, err := lineupConfig()
	if err != nil {
		return err
	}
	res, err := runPipeline(args, cfg)
	if err != nil {
		return err
	}
	return writeLineup(out, res, cfg)
}

func writeLineup(out io.Writer, res *session.Result, cfg session.Config) error {
	fmt.Fprintf(out, "Lineup: %d artists\n", len(cfg.Lineup))

	var analyser Analyser = TopArtistsAnalyzer{Config: AnalyserConfig{NumToReturn: cfg.TopN}}
	a, err := analyser.GetResults(res)
	if err != nil {
		return fmt.Errorf("writeLineup: %w", err)
	}
	fmt.Fprint(out, a)

	for _, slot := range res.Report.Schedule {
		fmt.Fprintf(out, "%s: %s\n", slot.Day, strings.Join(slot.Artists, ", "))
	}
	printNotices(out, res)
	return nil
}
