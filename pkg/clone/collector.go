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

package clone

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/kraklabs/clonehunter/internal/contract"
)

// defaultExcludedDirs are pruned from the walk before descending,
// mirroring the directories os.walk-style collectors always skip.
var defaultExcludedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	".tox":         true,
	".mypy_cache":  true,
	"vendor":       true,
}

// Collector walks a directory tree and resolves it to a set of FileRefs
// subject to include/exclude glob filters.
type Collector struct {
	logger *slog.Logger
}

// NewCollector builds a Collector. A nil logger falls back to slog.Default.
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{logger: logger}
}

// Collect walks root and returns every FileRef matching cfg's include
// globs and not matching its exclude globs, sorted by path for
// deterministic downstream processing.
func (c *Collector) Collect(root string, cfg Config) ([]FileRef, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var refs []FileRef
	skipReasons := map[string]int{}

	err = filepath.Walk(absRoot, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			c.logger.Warn("clone.collect.walk_error", "path", p, "err", err)
			return nil
		}
		if info.IsDir() {
			if p != absRoot && defaultExcludedDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(absRoot, p)
		if err != nil {
			return nil
		}
		relPath = normalizePath(relPath)

		if len(cfg.Include) > 0 && !matchesAny(relPath, cfg.Include) {
			skipReasons["not_included"]++
			return nil
		}
		if matchesAny(relPath, cfg.Exclude) {
			skipReasons["excluded"]++
			return nil
		}

		if result := contract.ValidateSourceFile(relPath, info.Size()); !result.OK {
			c.logger.Debug("clone.collect.skip_oversized", "path", relPath, "reason", result.Message)
			skipReasons["oversized"]++
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			c.logger.Warn("clone.collect.read_error", "path", relPath, "err", err)
			skipReasons["read_error"]++
			return nil
		}

		refs = append(refs, FileRef{
			Path:        relPath,
			Language:    detectLanguage(relPath),
			ContentHash: hashText(string(content)),
			SizeBytes:   len(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Path < refs[j].Path })

	c.logger.Info("clone.collect.done",
		"files", len(refs),
		"skipped_not_included", skipReasons["not_included"],
		"skipped_excluded", skipReasons["excluded"],
		"skipped_oversized", skipReasons["oversized"],
		"skipped_read_error", skipReasons["read_error"],
	)
	return refs, nil
}

// ReadSource reads and returns the raw source text for a FileRef
// relative to root.
func ReadSource(root string, ref FileRef) (string, error) {
	b, err := os.ReadFile(filepath.Join(root, ref.Path))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
