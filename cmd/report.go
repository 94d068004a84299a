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

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/streaming-history/internal/analysis"
	"github.com/ademuri/streaming-history/internal/session"
)

var reportCmd = &cobra.Command{
	Use:   "report [files...]",
	Short: "Generates a full listening report",
	Long: `Runs every view over the selection and writes them as one YAML (or JSON)
document: summary, top artists and tracks, months, artist profile, year view,
heatmap and, with --lineup, the lineup schedule.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runReport(os.Stdout, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("format", "yaml", "output format: yaml or json")
	viper.BindPFlag("format", reportCmd.Flags().Lookup("format"))
}

func runReport(out io.Writer, args []string) error {
	var (
		cfg session.Config
		err error
	)
	if viper.GetString("lineup") != "" {
		cfg, err = lineupConfig()
	} else {
		cfg, err = configFromViper(session.ModeHistory)
	}
	if err != nil {
		return err
	}

	res, err := runPipeline(args, cfg)
	if err != nil {
		return fmt.Errorf("analyzing data: %w", err)
	}
	return encodeReport(out, &res.Report, viper.GetString("format"))
}

func encodeReport(out io.Writer, report *analysis.Report, format string) error {
	switch format {
	case "", "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return encoder.Close()

	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		_, err = fmt.Fprintf(out, "%s\n", data)
		return err
	}
	return fmt.Errorf("Unknown report format %q", format)
}
