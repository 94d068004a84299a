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
	"sort"

	"github.com/spf13/viper"

	"github.com/ademuri/streaming-history/internal/calendar"
	"github.com/ademuri/streaming-history/internal/logging"
	"github.com/ademuri/streaming-history/internal/session"
)

// configFromViper starts from the presets of mode and applies every flag
// that was set explicitly.
func configFromViper(mode string) (session.Config, error) {
	cfg := session.DefaultConfig(mode)

	if viper.IsSet("min_minutes") {
		cfg.MinMinutes = viper.GetFloat64("min_minutes")
	}
	if viper.IsSet("min_play_ms") {
		cfg.MinPlayMs = viper.GetInt64("min_play_ms")
	}

	r, err := parseDateRange(viper.GetString("from"), viper.GetString("to"))
	if err != nil {
		return cfg, err
	}
	cfg.Range = r
	cfg.RangePreset = viper.GetString("range")

	if artist := viper.GetString("artist"); artist != "" {
		cfg.Artist = artist
	}
	cfg.Year = viper.GetInt("year")
	cfg.OffsetHours = viper.GetFloat64("offset_hours")
	if viper.IsSet("top") {
		cfg.TopN = viper.GetInt("top")
	}

	if name := viper.GetString("buckets"); name != "" {
		cfg.Buckets, err = calendar.SchemeByName(name)
		if err != nil {
			return cfg, err
		}
	}

	if markers := viper.GetStringSlice("markers"); len(markers) > 0 {
		cfg.Ingest.Markers = markers
	}
	if viper.IsSet("dedupe") {
		cfg.Ingest.Dedupe = viper.GetBool("dedupe")
	}
	return cfg, nil
}

// runPipeline reads the inputs, loads them into a fresh session and runs cfg.
func runPipeline(paths []string, cfg session.Config) (*session.Result, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("No input files given")
	}
	files, err := readInputs(paths, viper.GetBool("progress"))
	if err != nil {
		return nil, err
	}

	s, err := session.New()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	report, err := s.Load(files, cfg.Ingest)
	if err != nil {
		return nil, err
	}
	for _, d := range report.Dropped {
		logging.Warn().Str("file", d.File).Str("reason", d.Reason).Msg("Dropped file")
	}
	logging.Info().
		Int("accepted", len(report.Accepted)).
		Int("records", report.Records).
		Int("duplicates", report.Duplicates).
		Msg("Loaded history")

	return s.Run(cfg)
}

// printNotices lists the views that had no data.
func printNotices(out io.Writer, res *session.Result) {
	views := make([]string, 0, len(res.Report.Notices))
	for view := range res.Report.Notices {
		views = append(views, view)
	}
	sort.Strings(views)
	for _, view := range views {
		fmt.Fprintf(out, "No data for %s: %s\n", view, res.Report.Notices[view])
	}
}
