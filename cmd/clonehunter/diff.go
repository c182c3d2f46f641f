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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/clonehunter/internal/bootstrap"
	"github.com/kraklabs/clonehunter/internal/errors"
	"github.com/kraklabs/clonehunter/internal/output"
	"github.com/kraklabs/clonehunter/internal/ui"
	"github.com/kraklabs/clonehunter/pkg/clone"
)

// runDiff executes the 'diff' CLI command, scanning only the files that
// changed between two git revisions: the scan's Include list is replaced
// by the changed files, so functions in those files are compared with
// each other and the rest of the project is not scanned.
//
// Flags:
//   - --json: Output findings as JSON
//
// Examples:
//
//	clonehunter diff main HEAD
//	clonehunter diff HEAD~5 HEAD --json
func runDiff(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	jsonOutput := fs.Bool("json", globals.JSON, "Output findings as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: clonehunter diff <base> <head> [options]

Scans only files changed between two git revisions for clones.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	globals.JSON = *jsonOutput
	if fs.NArg() < 2 {
		fs.Usage()
		os.Exit(1)
	}
	base, head := fs.Arg(0), fs.Arg(1)

	root := "."
	logger := slog.Default()

	info, scanConfig, err := bootstrap.OpenProject(root, logger)
	if err != nil {
		errors.FatalError(errors.NewConfigError(
			"cannot load project configuration", err.Error(),
			"run 'clonehunter init' first", err,
		), *jsonOutput)
	}

	changed, err := changedFiles(info.RootDir, base, head)
	if err != nil {
		errors.FatalError(errors.NewInputError(
			"cannot diff git revisions", err.Error(),
			"check that both revisions exist and the working tree is a git repo",
		), *jsonOutput)
	}
	if len(changed) == 0 {
		ui.Success("No files changed between the given revisions.")
		return
	}
	scanConfig.Include = changed

	embedder, err := buildEmbedder(scanConfig)
	if err != nil {
		errors.FatalError(errors.NewConfigError("cannot build embedder", err.Error(), "", err), *jsonOutput)
	}
	cache, err := clone.NewEmbeddingCache(info.CacheDir)
	if err != nil {
		errors.FatalError(errors.NewPermissionError(
			"cannot open embedding cache", err.Error(), "check permissions on "+info.CacheDir, err,
		), *jsonOutput)
	}

	progressCfg := NewProgressConfig(globals)
	bars := newStageBar(progressCfg)
	progress := func(stage string, done, total int) { bars.update(stage, done, total) }

	pipeline := clone.NewPipeline(scanConfig, embedder, cache, logger, progress)
	result, err := pipeline.Run(context.Background(), info.RootDir)
	if err != nil {
		errors.FatalError(errors.NewInternalError("diff scan failed", err.Error(), "", err), *jsonOutput)
	}

	if *jsonOutput {
		if err := output.JSON(result); err != nil {
			errors.FatalError(errors.NewInternalError("cannot encode result", err.Error(), "", err), true)
		}
		return
	}
	printScanResult(result)
}

// changedFiles returns the repo-relative paths that differ between base
// and head, restricted to files still present in head's tree (deleted
// files have nothing left to scan).
func changedFiles(root, base, head string) ([]string, error) {
	cmd := exec.Command("git", "diff", "--name-only", "--diff-filter=d", base, head)
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}
