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
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/clonehunter/internal/errors"
)

// bashCompletionTemplate is the bash completion script for clonehunter.
const bashCompletionTemplate = `#!/bin/bash

# Bash completion script for clonehunter
# Installation:
#   source <(clonehunter completion bash)
#   Or add to ~/.bashrc:
#   echo 'source <(clonehunter completion bash)' >> ~/.bashrc

_clonehunter_completion() {
    local cur prev commands
    commands="init scan diff status completion"

    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    if [[ ${cur} == -* ]] ; then
        COMPREPLY=( $(compgen -W "--version --config --no-color -q" -- ${cur}) )
        return 0
    fi

    if [ $COMP_CWORD -eq 1 ]; then
        COMPREPLY=( $(compgen -W "${commands}" -- ${cur}) )
        return 0
    fi

    local cmd="${COMP_WORDS[1]}"
    case "${cmd}" in
        init)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--force -y --project-id --embedder --endpoint --cache-dir" -- ${cur}) )
            fi
            ;;
        scan)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--json --debug --metrics-addr --min-score" -- ${cur}) )
            fi
            ;;
        diff)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--json" -- ${cur}) )
            fi
            ;;
        status)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--json" -- ${cur}) )
            fi
            ;;
        completion)
            if [ $COMP_CWORD -eq 2 ]; then
                COMPREPLY=( $(compgen -W "bash zsh fish" -- ${cur}) )
            fi
            ;;
    esac
}

complete -F _clonehunter_completion clonehunter
`

// zshCompletionTemplate is the zsh completion script for clonehunter.
const zshCompletionTemplate = `#compdef clonehunter

# Zsh completion script for clonehunter
# Installation:
#   1. Ensure compinit is loaded (add to ~/.zshrc if not present):
#      autoload -U compinit; compinit
#   2. Save this script to a directory in your fpath:
#      clonehunter completion zsh > "${fpath[1]}/_clonehunter"
#   3. Reload completions:
#      rm -f ~/.zcompdump; compinit

_clonehunter() {
    local -a commands
    commands=(
        'init:Create .clonehunter/config.yaml configuration'
        'scan:Scan a directory tree for clones'
        'diff:Scan only files changed between two git revisions'
        'status:Show project and cache status'
        'completion:Generate shell completion script'
    )

    _arguments -C \
        '(- *)--version[Show version and exit]' \
        '--config[Path to .clonehunter/config.yaml]:config file:_files -g "*.yaml"' \
        '--no-color[Disable colored output]' \
        '-q[Suppress progress bars]' \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                init)
                    _arguments \
                        '--force[Overwrite existing configuration]' \
                        '-y[Non-interactive mode]' \
                        '--project-id[Project identifier]:project id:' \
                        '--embedder[Embedder backend]:backend:(stub external)' \
                        '--endpoint[Embedding service URL]:url:' \
                        '--cache-dir[Embedding cache directory]:dir:_files -/'
                    ;;
                scan)
                    _arguments \
                        '--json[Output findings as JSON]' \
                        '--debug[Enable debug logging]' \
                        '--metrics-addr[Prometheus metrics address]:address:' \
                        '--min-score[Minimum composite score]:score:'
                    ;;
                diff)
                    _arguments \
                        '--json[Output findings as JSON]' \
                        '1:base revision:' \
                        '2:head revision:'
                    ;;
                status)
                    _arguments \
                        '--json[Output as JSON]'
                    ;;
                completion)
                    _arguments \
                        '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

_clonehunter
`

// fishCompletionTemplate is the fish completion script for clonehunter.
const fishCompletionTemplate = `# Fish completion script for clonehunter
# Installation:
#   1. Load completions for current session:
#      clonehunter completion fish | source
#   2. Install permanently:
#      clonehunter completion fish > ~/.config/fish/completions/clonehunter.fish

complete -c clonehunter -f -n "__fish_use_subcommand" -a "init" -d "Create .clonehunter/config.yaml configuration"
complete -c clonehunter -f -n "__fish_use_subcommand" -a "scan" -d "Scan a directory tree for clones"
complete -c clonehunter -f -n "__fish_use_subcommand" -a "diff" -d "Scan files changed between two git revisions"
complete -c clonehunter -f -n "__fish_use_subcommand" -a "status" -d "Show project and cache status"
complete -c clonehunter -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"

complete -c clonehunter -l version -d "Show version and exit"
complete -c clonehunter -l config -d "Path to .clonehunter/config.yaml" -r
complete -c clonehunter -l no-color -d "Disable colored output"
complete -c clonehunter -s q -d "Suppress progress bars"

complete -c clonehunter -n "__fish_seen_subcommand_from init" -l force -d "Overwrite existing configuration"
complete -c clonehunter -n "__fish_seen_subcommand_from init" -s y -d "Non-interactive mode"
complete -c clonehunter -n "__fish_seen_subcommand_from init" -l project-id -d "Project identifier" -r
complete -c clonehunter -n "__fish_seen_subcommand_from init" -l embedder -d "Embedder backend" -r
complete -c clonehunter -n "__fish_seen_subcommand_from init" -l endpoint -d "Embedding service URL" -r
complete -c clonehunter -n "__fish_seen_subcommand_from init" -l cache-dir -d "Embedding cache directory" -r

complete -c clonehunter -n "__fish_seen_subcommand_from scan" -l json -d "Output findings as JSON"
complete -c clonehunter -n "__fish_seen_subcommand_from scan" -l debug -d "Enable debug logging"
complete -c clonehunter -n "__fish_seen_subcommand_from scan" -l metrics-addr -d "Prometheus metrics address" -r
complete -c clonehunter -n "__fish_seen_subcommand_from scan" -l min-score -d "Minimum composite score" -r

complete -c clonehunter -n "__fish_seen_subcommand_from diff" -l json -d "Output findings as JSON"

complete -c clonehunter -n "__fish_seen_subcommand_from status" -l json -d "Output as JSON"

complete -c clonehunter -n "__fish_seen_subcommand_from completion" -f -a "bash" -d "Generate bash completion script"
complete -c clonehunter -n "__fish_seen_subcommand_from completion" -f -a "zsh" -d "Generate zsh completion script"
complete -c clonehunter -n "__fish_seen_subcommand_from completion" -f -a "fish" -d "Generate fish completion script"
`

// runCompletion executes the 'completion' CLI command, generating
// shell-specific completion scripts for bash, zsh, or fish.
//
// Usage:
//
//	clonehunter completion [bash|zsh|fish]
func runCompletion(args []string) {
	fs := flag.NewFlagSet("completion", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: clonehunter completion <shell>

Generate shell completion scripts for bash, zsh, or fish.

Examples:
  clonehunter completion bash
  source <(clonehunter completion bash)
  clonehunter completion zsh > "${fpath[1]}/_clonehunter"
  clonehunter completion fish > ~/.config/fish/completions/clonehunter.fish

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		errors.FatalError(errors.NewInputError(
			"invalid arguments",
			"the completion command requires exactly one argument: the shell name",
			"run 'clonehunter completion bash', 'clonehunter completion zsh', or 'clonehunter completion fish'",
		), false)
	}

	switch shell := fs.Arg(0); shell {
	case "bash":
		fmt.Print(bashCompletionTemplate)
	case "zsh":
		fmt.Print(zshCompletionTemplate)
	case "fish":
		fmt.Print(fishCompletionTemplate)
	default:
		errors.FatalError(errors.NewInputError(
			"unsupported shell",
			fmt.Sprintf("shell %q is not supported; valid options: bash, zsh, fish", shell),
			"run 'clonehunter completion bash', 'clonehunter completion zsh', or 'clonehunter completion fish'",
		), false)
	}
}
