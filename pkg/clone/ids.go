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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
)

// hashText returns the hex SHA-256 digest of s.
func hashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// normalizePath normalizes a file path for consistent identity and
// hashing: forward slashes, no leading "./" or "/".
func normalizePath(path string) string {
	if len(path) >= 2 && path[0:2] == "./" {
		path = path[2:]
	}
	path = filepath.Clean(path)
	path = filepath.ToSlash(path)
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	return path
}

// snippetHash computes the content hash for a snippet: sha256 of
// "{path}|{qualified_name}|{kind}|{start_line}|{end_line}|{norm_text}".
func snippetHash(fn FunctionRef, kind SnippetKind, startLine, endLine int, normText string) string {
	s := fmt.Sprintf("%s|%s|%s|%d|%d|%s",
		normalizePath(fn.Path), fn.QualifiedName, string(kind), startLine, endLine, normText)
	return hashText(s)
}

// embedCacheKey computes the cache key for a snippet under a given model
// configuration: sha256("{model}:{revision}:{max_tokens}:{snippet_hash}").
func embedCacheKey(model, revision string, maxTokens int, snippetHash string) string {
	s := fmt.Sprintf("%s:%s:%d:%s", model, revision, maxTokens, snippetHash)
	return hashText(s)
}

// snippetID derives a stable identifier for a snippet from its hash and
// kind, used for candidate-retrieval bookkeeping and finding de-dup keys.
func snippetID(kind SnippetKind, hash string) string {
	return fmt.Sprintf("%s:%s", kind, hash)
}
