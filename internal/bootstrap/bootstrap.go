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

package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/clonehunter/pkg/clone"
)

// ProjectConfig holds configuration for initializing a project.
type ProjectConfig struct {
	// ProjectID is the logical project identifier, usually the
	// repository directory name.
	ProjectID string

	// RootDir is the tree the project scans. Defaults to the current
	// working directory.
	RootDir string

	// CacheDir is where the embedding cache is stored. Defaults to
	// clone.DefaultConfig().CacheDir.
	CacheDir string

	// Scan is the pipeline configuration persisted to the project file.
	// Zero value means clone.DefaultConfig().
	Scan clone.Config
}

// ProjectInfo describes an initialized project.
type ProjectInfo struct {
	ProjectID  string
	RootDir    string
	ConfigPath string
	CacheDir   string
}

// projectFile is the on-disk shape of .clonehunter/config.yaml.
type projectFile struct {
	ProjectID string      `yaml:"project_id"`
	Scan      clone.Config `yaml:"scan"`
}

// ConfigDir returns the .clonehunter directory under root.
func ConfigDir(root string) string {
	return filepath.Join(root, ".clonehunter")
}

// ConfigPath returns the path to the project config file under root.
func ConfigPath(root string) string {
	return filepath.Join(ConfigDir(root), "config.yaml")
}

// InitProject initializes a new clonehunter project: it creates
// .clonehunter/config.yaml with the scan configuration and ensures the
// embedding cache directory exists. Not idempotent: calling it again with
// force=false on an already-initialized tree is an error, matching how
// the CLI's init command surfaces "already exists" to the user.
func InitProject(config ProjectConfig, force bool, logger *slog.Logger) (*ProjectInfo, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.ProjectID == "" {
		return nil, fmt.Errorf("project_id is required")
	}
	if config.RootDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		config.RootDir = cwd
	}

	scan := config.Scan
	if scan.Window.WindowLines == 0 {
		scan = clone.DefaultConfig()
	}
	if config.CacheDir != "" {
		scan.CacheDir = config.CacheDir
	}

	configPath := ConfigPath(config.RootDir)
	if _, err := os.Stat(configPath); err == nil && !force {
		return nil, fmt.Errorf("%s already exists", configPath)
	}

	if err := os.MkdirAll(ConfigDir(config.RootDir), 0o750); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	cacheDir := expandCacheDir(scan.CacheDir)
	if _, err := clone.NewEmbeddingCache(cacheDir); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	if err := saveProjectFile(configPath, projectFile{ProjectID: config.ProjectID, Scan: scan}); err != nil {
		return nil, fmt.Errorf("write project config: %w", err)
	}

	logger.Info("bootstrap.project.init",
		"project_id", config.ProjectID,
		"root_dir", config.RootDir,
		"config_path", configPath,
		"cache_dir", cacheDir,
	)

	return &ProjectInfo{
		ProjectID:  config.ProjectID,
		RootDir:    config.RootDir,
		ConfigPath: configPath,
		CacheDir:   cacheDir,
	}, nil
}

// OpenProject loads an existing project's configuration from root.
func OpenProject(root string, logger *slog.Logger) (*ProjectInfo, clone.Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	configPath := ConfigPath(root)
	b, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, clone.Config{}, fmt.Errorf("project not found: %s (run 'clonehunter init' first)", configPath)
		}
		return nil, clone.Config{}, fmt.Errorf("read project config: %w", err)
	}

	var pf projectFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, clone.Config{}, fmt.Errorf("parse project config: %w", err)
	}
	if err := pf.Scan.Validate(); err != nil {
		return nil, clone.Config{}, fmt.Errorf("invalid project config: %w", err)
	}

	logger.Debug("bootstrap.project.open", "project_id", pf.ProjectID, "root_dir", root)

	return &ProjectInfo{
		ProjectID:  pf.ProjectID,
		RootDir:    root,
		ConfigPath: configPath,
		CacheDir:   expandCacheDir(pf.Scan.CacheDir),
	}, pf.Scan, nil
}

func saveProjectFile(path string, pf projectFile) error {
	b, err := yaml.Marshal(pf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o640)
}

// expandCacheDir expands a leading "~" to the user's home directory.
func expandCacheDir(dir string) string {
	if len(dir) == 0 || dir[0] != '~' {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	return filepath.Join(home, dir[1:])
}
