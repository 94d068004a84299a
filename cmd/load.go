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
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"github.com/ademuri/streaming-history/internal/history"
	"github.com/ademuri/streaming-history/internal/logging"
)

// readInputs expands files, directories and zip archives into history files.
// Directories and archives only contribute their .json entries; ingestion
// decides which of those are exports.
func readInputs(paths []string, showProgress bool) ([]history.File, error) {
	var sources []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		if !info.IsDir() {
			sources = append(sources, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && (isJSON(path) || isZip(path)) {
				sources = append(sources, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}

	bar := newProgressBar(len(sources), "Reading files...", showProgress)
	var files []history.File
	for _, src := range sources {
		if isZip(src) {
			entries, err := readZip(src)
			if err != nil {
				return nil, err
			}
			files = append(files, entries...)
		} else {
			data, err := os.ReadFile(src)
			if err != nil {
				return nil, fmt.Errorf("reading input: %w", err)
			}
			files = append(files, history.File{Name: filepath.Base(src), Data: data})
		}
		bar.Add(1)
	}
	bar.Finish()

	logging.Debug().Int("sources", len(sources)).Int("files", len(files)).Msg("Read inputs")
	return files, nil
}

func readZip(path string) ([]history.File, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer r.Close()

	var files []history.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isJSON(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s in %s: %w", f.Name, path, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s in %s: %w", f.Name, path, err)
		}
		files = append(files, history.File{Name: filepath.Base(f.Name), Data: data})
	}
	return files, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func isZip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zip")
}

func newProgressBar(n int, description string, show bool) *progressbar.ProgressBar {
	if !show {
		return progressbar.NewOptions(n, progressbar.OptionSetWriter(io.Discard))
	}
	return progressbar.NewOptions(
		n,
		progressbar.OptionSetWriter(ansi.NewAnsiStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionClearOnFinish(),
	)
}
