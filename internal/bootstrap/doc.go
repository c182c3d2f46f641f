// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bootstrap handles clonehunter project initialization and setup.
//
// This internal package creates the .clonehunter/config.yaml project file
// and ensures the embedding cache directory exists before a scan can run.
//
// # Initialization Workflow
//
//	info, err := bootstrap.InitProject(bootstrap.ProjectConfig{
//	    ProjectID: "myproject",
//	    RootDir:   ".",
//	}, false, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Project initialized at: %s\n", info.ConfigPath)
//
//	// Later, open the project to scan it again
//	info, scanConfig, err := bootstrap.OpenProject(".", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Idempotency
//
// InitProject refuses to overwrite an existing config.yaml unless force
// is set, so scripts that re-run init are explicit about intent instead
// of silently clobbering a tuned configuration.
//
// # Configuration
//
// ProjectConfig controls initialization:
//
//   - ProjectID: Required. Logical identifier for the project, usually
//     the repository directory name.
//   - RootDir: Optional. The tree the project scans. Defaults to the
//     current working directory.
//   - CacheDir: Optional. Where embeddings are cached. Defaults to
//     clone.DefaultConfig().CacheDir (~/.cache/clonehunter).
//   - Scan: Optional. The full pipeline configuration to persist.
//     Defaults to clone.DefaultConfig().
package bootstrap
