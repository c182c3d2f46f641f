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
	"path"
	"strings"
)

// matchesGlob reports whether relPath (forward-slash, repo-relative)
// matches the given pattern. Supports "**/" prefix (match at any
// depth), "/**" suffix (match anything under a directory), an embedded
// "/**/ " segment, and otherwise falls back to path.Match semantics per
// path segment.
func matchesGlob(relPath, pattern string) bool {
	relPath = normalizePath(relPath)
	pattern = normalizePath(pattern)

	switch {
	case strings.HasPrefix(pattern, "**/"):
		suffix := pattern[3:]
		if matchesGlob(relPath, suffix) {
			return true
		}
		idx := strings.Index(relPath, "/")
		for idx >= 0 {
			if matchesGlob(relPath[idx+1:], suffix) {
				return true
			}
			next := strings.Index(relPath[idx+1:], "/")
			if next < 0 {
				break
			}
			idx = idx + 1 + next
		}
		return false

	case strings.HasSuffix(pattern, "/**"):
		dir := pattern[:len(pattern)-3]
		return relPath == dir || strings.HasPrefix(relPath, dir+"/")

	case strings.Contains(pattern, "/**/"):
		parts := strings.SplitN(pattern, "/**/", 2)
		prefix, suffix := parts[0], parts[1]
		if !strings.HasPrefix(relPath, prefix+"/") {
			return false
		}
		rest := relPath[len(prefix)+1:]
		return matchesGlob(rest, "**/"+suffix)

	default:
		ok, err := path.Match(pattern, relPath)
		if err == nil && ok {
			return true
		}
		// Fall back to exact basename match for simple patterns like "*.go"
		// applied against a nested path (path.Match only matches a single
		// segment, mirroring PurePosixPath.match's per-component semantics).
		segs := strings.Split(relPath, "/")
		if ok, err := path.Match(pattern, segs[len(segs)-1]); err == nil && ok {
			return true
		}
		return false
	}
}

// matchesAny reports whether relPath matches any of the given patterns.
// An empty pattern list matches nothing.
func matchesAny(relPath string, patterns []string) bool {
	for _, p := range patterns {
		if matchesGlob(relPath, p) {
			return true
		}
	}
	return false
}

// detectLanguage maps a file extension to its Language tag. Recognized
// source languages get dedicated parsers; everything else is "text".
func detectLanguage(relPath string) Language {
	switch {
	case strings.HasSuffix(relPath, ".py"):
		return LangPython
	case strings.HasSuffix(relPath, ".go"):
		return LangGo
	case strings.HasSuffix(relPath, ".ts"), strings.HasSuffix(relPath, ".tsx"):
		return LangTypeScript
	case strings.HasSuffix(relPath, ".js"), strings.HasSuffix(relPath, ".jsx"):
		return LangJavaScript
	default:
		return LangText
	}
}
