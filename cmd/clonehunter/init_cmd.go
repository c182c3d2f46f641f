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
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/clonehunter/internal/bootstrap"
	"github.com/kraklabs/clonehunter/internal/errors"
	"github.com/kraklabs/clonehunter/internal/ui"
	"github.com/kraklabs/clonehunter/pkg/clone"
)

// initFlags holds parsed flags for the init command.
type initFlags struct {
	force          bool
	nonInteractive bool
	projectID      string
	embedderName   string
	endpointURL    string
	cacheDir       string
}

// runInit executes the 'init' CLI command, creating a .clonehunter/config.yaml
// configuration file.
//
// Flags:
//   - --force: Overwrite existing configuration (default: false)
//   - -y: Non-interactive mode, use all defaults
//   - --project-id: Project identifier (default: directory name)
//   - --embedder: Embedder backend (stub, external)
//   - --endpoint: Embedding service URL (only used by the external embedder)
//   - --cache-dir: Embedding cache directory
func runInit(args []string, globals GlobalFlags) {
	flags := parseInitFlags(args)

	cwd, err := os.Getwd()
	if err != nil {
		errors.FatalError(errors.NewInternalError("cannot get current directory", err.Error(), "", err), globals.JSON)
	}

	cfg := createInitConfig(cwd, flags)

	if !flags.nonInteractive {
		reader := bufio.NewReader(os.Stdin)
		runInteractiveConfig(reader, &cfg)
	}

	projectID := flags.projectID
	if projectID == "" {
		projectID = filepath.Base(cwd)
	}

	info, err := bootstrap.InitProject(bootstrap.ProjectConfig{
		ProjectID: projectID,
		RootDir:   cwd,
		CacheDir:  flags.cacheDir,
		Scan:      cfg,
	}, flags.force, slog.Default())
	if err != nil {
		errors.FatalError(errors.NewConfigError(
			"cannot initialize project", err.Error(),
			"use --force to overwrite an existing .clonehunter/config.yaml", err,
		), globals.JSON)
	}

	ui.Successf("Created %s", info.ConfigPath)
	addToGitignore(cwd)

	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Review and edit .clonehunter/config.yaml if needed")
	fmt.Println("  2. Run 'clonehunter scan .' to find clones")
	fmt.Println("  3. Run 'clonehunter status' to check cache stats")
}

func parseInitFlags(args []string) initFlags {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var f initFlags
	fs.BoolVar(&f.force, "force", false, "Overwrite existing configuration")
	fs.BoolVarP(&f.nonInteractive, "yes", "y", false, "Non-interactive mode (use defaults)")
	fs.StringVar(&f.projectID, "project-id", "", "Project identifier")
	fs.StringVar(&f.embedderName, "embedder", "", "Embedder backend (stub, external)")
	fs.StringVar(&f.endpointURL, "endpoint", "", "Embedding service URL (external embedder only)")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "Embedding cache directory")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: clonehunter init [options]

Creates .clonehunter/config.yaml configuration file.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	return f
}

func createInitConfig(cwd string, f initFlags) clone.Config {
	cfg := clone.DefaultConfig()
	if f.embedderName != "" {
		cfg.Embedder.Name = f.embedderName
	}
	if f.endpointURL != "" {
		cfg.Embedder.EndpointURL = f.endpointURL
	}
	if f.cacheDir != "" {
		cfg.CacheDir = f.cacheDir
	}
	return cfg
}

func runInteractiveConfig(reader *bufio.Reader, cfg *clone.Config) {
	ui.Header("CloneHunter Project Configuration")
	fmt.Println()

	fmt.Println("Embedder backends: stub, external")
	cfg.Embedder.Name = prompt(reader, "Embedder backend", cfg.Embedder.Name)
	if cfg.Embedder.Name == "external" {
		cfg.Embedder.EndpointURL = prompt(reader, "Embedding service URL", cfg.Embedder.EndpointURL)
		cfg.Embedder.ModelName = prompt(reader, "Model name", cfg.Embedder.ModelName)
	}

	cfg.CacheDir = prompt(reader, "Embedding cache directory", cfg.CacheDir)

	clusterAnswer := prompt(reader, "Cluster findings into groups? (y/N)", "n")
	cfg.ClusterFindings = strings.EqualFold(strings.TrimSpace(clusterAnswer), "y") || strings.EqualFold(strings.TrimSpace(clusterAnswer), "yes")

	fmt.Println()
}

// prompt displays an interactive prompt and reads user input from stdin,
// returning defaultValue if the user presses Enter without typing anything.
func prompt(reader *bufio.Reader, label, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", label, defaultValue)
	} else {
		fmt.Printf("%s: ", label)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultValue
	}
	return input
}

// addToGitignore adds .clonehunter/ to the project's .gitignore file if not
// already present. Silently returns if .gitignore doesn't exist or can't be
// modified.
func addToGitignore(dir string) {
	gitignorePath := filepath.Join(dir, ".gitignore")

	content, err := os.ReadFile(gitignorePath)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == ".clonehunter/" || line == ".clonehunter" || line == "/.clonehunter/" || line == "/.clonehunter" {
			return
		}
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	if len(content) > 0 && content[len(content)-1] != '\n' {
		_, _ = f.WriteString("\n")
	}
	_, _ = f.WriteString("\n# CloneHunter configuration\n.clonehunter/\n")
	ui.Success("Added .clonehunter/ to .gitignore")
}
