// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/clonehunter/internal/bootstrap"
	"github.com/kraklabs/clonehunter/internal/output"
	"github.com/kraklabs/clonehunter/internal/ui"
)

// StatusResult represents the project status for JSON output.
type StatusResult struct {
	ProjectID   string    `json:"project_id"`
	RootDir     string    `json:"root_dir"`
	ConfigPath  string    `json:"config_path"`
	CacheDir    string    `json:"cache_dir"`
	CacheExists bool      `json:"cache_exists"`
	CacheFiles  int       `json:"cache_files"`
	CacheBytes  int64     `json:"cache_bytes"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// runStatus executes the 'status' CLI command, showing project and
// embedding-cache statistics.
//
// Flags:
//   - --json: Output as JSON
//
// Examples:
//
//	clonehunter status
//	clonehunter status --json
func runStatus(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	jsonOutput := fs.Bool("json", globals.JSON, "Output as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: clonehunter status [options]

Shows project and embedding-cache status.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	result := &StatusResult{Timestamp: time.Now()}

	info, _, err := bootstrap.OpenProject(root, slog.Default())
	if err != nil {
		result.Error = err.Error()
		if *jsonOutput {
			_ = output.JSON(result)
		} else {
			ui.Errorf("%v", err)
		}
		os.Exit(1)
	}

	result.ProjectID = info.ProjectID
	result.RootDir = info.RootDir
	result.ConfigPath = info.ConfigPath
	result.CacheDir = info.CacheDir

	files, bytes, err := cacheStats(info.CacheDir)
	if err != nil {
		result.Error = err.Error()
	} else {
		result.CacheExists = true
		result.CacheFiles = files
		result.CacheBytes = bytes
	}

	if *jsonOutput {
		if err := output.JSON(result); err != nil {
			ui.Errorf("%v", err)
			os.Exit(1)
		}
		return
	}

	printStatus(result)
}

// cacheStats counts embedding cache entries and their total size on disk.
func cacheStats(dir string) (files int, bytes int64, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files++
		bytes += info.Size()
	}
	return files, bytes, nil
}

func printStatus(result *StatusResult) {
	ui.Header("CloneHunter Project Status")
	fmt.Println()
	fmt.Printf("  Project ID:   %s\n", result.ProjectID)
	fmt.Printf("  Root dir:     %s\n", result.RootDir)
	fmt.Printf("  Config:       %s\n", result.ConfigPath)
	fmt.Printf("  Cache dir:    %s\n", result.CacheDir)
	fmt.Println()

	if !result.CacheExists {
		ui.Warning("Embedding cache is empty or unreadable. Run 'clonehunter scan' first.")
		return
	}

	fmt.Println("Embedding cache:")
	fmt.Printf("  Entries:      %s\n", ui.CountText(result.CacheFiles))
	fmt.Printf("  Size:         %.1f KiB\n", float64(result.CacheBytes)/1024)

	if result.Error != "" {
		fmt.Println()
		ui.Warningf("%s", result.Error)
	}
}
