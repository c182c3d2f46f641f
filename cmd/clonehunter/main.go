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

// Package main implements the clonehunter CLI for scanning repositories
// for semantic code clones.
//
// Usage:
//
//	clonehunter init                Create .clonehunter/config.yaml
//	clonehunter scan [path]         Scan a tree for clones
//	clonehunter diff <base> <head>  Scan only files changed between two git revisions
//	clonehunter status              Show project/cache status
//	clonehunter completion <shell>  Generate shell completion script
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/clonehunter/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags holds flags parsed before the subcommand name.
type GlobalFlags struct {
	ConfigPath string
	NoColor    bool
	Quiet      bool
	JSON       bool
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		configPath  = flag.String("config", "", "Path to .clonehunter/config.yaml (default: ./.clonehunter/config.yaml)")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress progress bars")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `clonehunter - semantic code clone detector

Usage:
  clonehunter <command> [options]

Commands:
  init          Create .clonehunter/config.yaml configuration
  scan          Scan a directory tree for clones
  diff          Scan only files changed between two git revisions
  status        Show project and cache status
  completion    Generate shell completion script

Global Options:
  --config      Path to .clonehunter/config.yaml
  --no-color    Disable colored output
  -q            Suppress progress bars
  --version     Show version and exit

Examples:
  clonehunter init
  clonehunter scan .
  clonehunter scan . --json
  clonehunter diff main HEAD
  clonehunter status

`)
	}

	flag.CommandLine.SetInterspersed(false)
	flag.Parse()

	if *showVersion {
		fmt.Printf("clonehunter version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	globals := GlobalFlags{ConfigPath: *configPath, NoColor: *noColor, Quiet: *quiet}
	ui.InitColors(*noColor)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "init":
		runInit(cmdArgs, globals)
	case "scan":
		runScan(cmdArgs, globals)
	case "diff":
		runDiff(cmdArgs, globals)
	case "status":
		runStatus(cmdArgs, globals)
	case "completion":
		runCompletion(cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
