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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kraklabs/clonehunter/internal/bootstrap"
	"github.com/kraklabs/clonehunter/internal/errors"
	"github.com/kraklabs/clonehunter/internal/output"
	"github.com/kraklabs/clonehunter/internal/ui"
	"github.com/kraklabs/clonehunter/pkg/clone"
)

// runScan executes the 'scan' CLI command, running the full clone-detection
// pipeline over a directory tree.
//
// Flags:
//   - --json: Emit findings as JSON instead of a formatted table
//   - --debug: Enable debug logging
//   - --metrics-addr: HTTP address for Prometheus metrics (empty disables it)
//   - --min-score: Drop findings below this composite score
//
// Examples:
//
//	clonehunter scan .
//	clonehunter scan . --json
//	clonehunter scan . --metrics-addr :9090
func runScan(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	jsonOutput := fs.Bool("json", globals.JSON, "Output findings as JSON")
	debug := fs.Bool("debug", false, "Enable debug logging")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	minScore := fs.Float64("min-score", 0, "Drop findings below this composite score")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: clonehunter scan [path] [options]

Scans a directory tree for semantic code clones using the configuration
at .clonehunter/config.yaml.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	globals.JSON = *jsonOutput

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	logLevel := slog.LevelInfo
	if debug != nil && *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	info, scanConfig, err := bootstrap.OpenProject(root, logger)
	if err != nil {
		errors.FatalError(errors.NewConfigError(
			"cannot load project configuration", err.Error(),
			"run 'clonehunter init' first", err,
		), *jsonOutput)
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux}
			logger.Info("metrics.http.start", "addr", *metricsAddr, "path", "/metrics")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics.http.error", "err", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("shutdown.signal", "signal", sig.String())
		cancel()
	}()

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

	result, err := pipeline.Run(ctx, info.RootDir)
	if err != nil {
		errors.FatalError(errors.NewInternalError("scan failed", err.Error(), "", err), *jsonOutput)
	}

	if *minScore > 0 {
		filtered := result.Findings[:0]
		for _, f := range result.Findings {
			if f.Score >= *minScore {
				filtered = append(filtered, f)
			}
		}
		result.Findings = filtered
	}

	if *jsonOutput {
		if err := output.JSON(result); err != nil {
			errors.FatalError(errors.NewInternalError("cannot encode result", err.Error(), "", err), true)
		}
		return
	}

	printScanResult(result)
}

// buildEmbedder selects the configured embedder implementation.
func buildEmbedder(cfg clone.Config) (clone.Embedder, error) {
	switch cfg.Embedder.Name {
	case "external":
		return clone.NewExternalEmbedder(
			cfg.Embedder.EndpointURL,
			cfg.Embedder.ModelName,
			cfg.Embedder.Revision,
			cfg.Embedder.MaxLength,
			clone.DefaultRetryConfig(),
		), nil
	default:
		return clone.NewStubEmbedder(cfg.Embedder.Dimension), nil
	}
}

func printScanResult(result clone.ScanResult) {
	ui.Header("CloneHunter Scan")
	fmt.Println()
	fmt.Printf("  Files:       %s\n", ui.CountText(result.Stats.FilesCollected))
	fmt.Printf("  Functions:   %s\n", ui.CountText(result.Stats.FunctionsExtracted))
	fmt.Printf("  Snippets:    %s\n", ui.CountText(result.Stats.SnippetsGenerated))
	fmt.Printf("  Candidates:  %s\n", ui.CountText(result.Stats.CandidatesFound))
	fmt.Printf("  Cache hits:  %s\n", ui.CountText(result.Stats.CacheHits))
	fmt.Printf("  Cache miss:  %s\n", ui.CountText(result.Stats.CacheMisses))
	fmt.Println()

	if len(result.Findings) == 0 {
		ui.Success("No clones found.")
		return
	}

	ui.SubHeader(fmt.Sprintf("Findings (%d)", len(result.Findings)))
	for _, f := range result.Findings {
		fmt.Printf("  %s %s:%d-%d  <->  %s:%d-%d\n",
			ui.Label(fmt.Sprintf("%.3f", f.Score)),
			f.FunctionA.Path, f.FunctionA.StartLine, f.FunctionA.EndLine,
			f.FunctionB.Path, f.FunctionB.StartLine, f.FunctionB.EndLine,
		)
		fmt.Printf("      lines=%d reasons=%v", f.DuplicatedLines, f.Reasons)
		if f.ClusterID != 0 {
			fmt.Printf(" cluster=%d", f.ClusterID)
		}
		fmt.Println()
	}
}
