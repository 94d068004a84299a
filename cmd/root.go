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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/streaming-history/internal/history"
	"github.com/ademuri/streaming-history/internal/lineup"
	"github.com/ademuri/streaming-history/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streaming-history",
	Short: "Performs analysis on exported Spotify streaming history",
	Long: `Reads StreamingHistory*.json and endsong_*.json exports (or the zip
archive they come in) and prints rankings, artist profiles, calendar heatmaps
and festival lineup matches.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Config{
			Level:  viper.GetString("log_level"),
			Format: viper.GetString("log_format"),
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.streaming-history.yaml)")

	flags.String("log_level", "warn", "log level: trace, debug, info, warn, error or disabled")
	viper.BindPFlag("log_level", flags.Lookup("log_level"))

	flags.String("log_format", "console", "log format: console or json")
	viper.BindPFlag("log_format", flags.Lookup("log_format"))

	flags.Float64("min_minutes", 0, "only keep artists with more minutes than this (default 5, or 1 for lineup; negative disables)")
	viper.BindPFlag("min_minutes", flags.Lookup("min_minutes"))

	flags.String("from", "", "start of the date range: 'yyyy', 'yyyy-mm', 'yyyy-mm-dd' or relative like '30d'")
	viper.BindPFlag("from", flags.Lookup("from"))

	flags.String("to", "", "end of the date range, inclusive")
	viper.BindPFlag("to", flags.Lookup("to"))

	flags.String("range", "", "date range preset: all, last30 or lastyear")
	viper.BindPFlag("range", flags.Lookup("range"))

	flags.StringP("artist", "a", history.AllArtists, "artist to profile")
	viper.BindPFlag("artist", flags.Lookup("artist"))

	flags.IntP("year", "y", 0, "ISO year to show (default is the most listened year)")
	viper.BindPFlag("year", flags.Lookup("year"))

	flags.Float64("offset_hours", 0, "hours added to every timestamp before days are derived")
	viper.BindPFlag("offset_hours", flags.Lookup("offset_hours"))

	flags.IntP("top", "n", 40, "number of results to return")
	viper.BindPFlag("top", flags.Lookup("top"))

	flags.Int64("min_play_ms", 0, "only keep plays longer than this (default 10000, or 0 for lineup)")
	viper.BindPFlag("min_play_ms", flags.Lookup("min_play_ms"))

	flags.String("buckets", "", "heatmap bucket scheme: history or lineup")
	viper.BindPFlag("buckets", flags.Lookup("buckets"))

	flags.StringSlice("markers", history.DefaultMarkers, "file name markers of history exports")
	viper.BindPFlag("markers", flags.Lookup("markers"))

	flags.Bool("dedupe", true, "count identical plays found in several files once")
	viper.BindPFlag("dedupe", flags.Lookup("dedupe"))

	flags.String("lineup", "", "festival lineup CSV file")
	viper.BindPFlag("lineup", flags.Lookup("lineup"))

	flags.String("lineup_format", lineup.FormatTable, "lineup format: table or list")
	viper.BindPFlag("lineup_format", flags.Lookup("lineup_format"))

	flags.String("lineup_day", lineup.DefaultDay, "day of every artist in a list lineup")
	viper.BindPFlag("lineup_day", flags.Lookup("lineup_day"))

	flags.Bool("progress", true, "show a progress bar while reading files")
	viper.BindPFlag("progress", flags.Lookup("progress"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".streaming-history" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".streaming-history")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}
