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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// EmbeddingCache is a content-addressed, one-JSON-file-per-key store for
// embedding vectors, keyed by sha256("{model}:{revision}:{max_len}:{snippet_hash}").
// Because the key already encodes everything that could make an
// embedding stale, entries are never invalidated in place: a changed
// snippet or model config simply misses and writes a new key. Writes are
// atomic (write to a temp file, then rename), so concurrent readers
// never observe a torn entry and two scans sharing a cache root never
// corrupt each other's writes.
type EmbeddingCache struct {
	root string
}

// NewEmbeddingCache opens (creating if necessary) a cache rooted at dir.
func NewEmbeddingCache(dir string) (*EmbeddingCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return &EmbeddingCache{root: dir}, nil
}

type cacheEntry struct {
	Vector []float32 `json:"vector"`
	Dim    int       `json:"dim"`
	Model  string    `json:"model"`
}

func (c *EmbeddingCache) pathFor(key string) string {
	return filepath.Join(c.root, key+".json")
}

// GetMany looks up every key in keys, returning a map of the ones found.
// Missing keys are simply absent from the result (a cache miss is not
// an error).
func (c *EmbeddingCache) GetMany(keys []string) (map[string][]float32, error) {
	result := make(map[string][]float32, len(keys))
	for _, key := range keys {
		b, err := os.ReadFile(c.pathFor(key))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read cache entry %s: %w", key, err)
		}
		var entry cacheEntry
		if err := json.Unmarshal(b, &entry); err != nil {
			// A corrupt entry is treated as a miss rather than a fatal
			// error: the embedder will simply recompute it.
			continue
		}
		result[key] = entry.Vector
	}
	return result, nil
}

// SetMany writes every (key, vector) pair, each atomically.
func (c *EmbeddingCache) SetMany(entries map[string][]float32, model string) error {
	for key, vec := range entries {
		if err := c.set(key, vec, model); err != nil {
			return err
		}
	}
	return nil
}

func (c *EmbeddingCache) set(key string, vec []float32, model string) error {
	entry := cacheEntry{Vector: vec, Dim: len(vec), Model: model}
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry %s: %w", key, err)
	}

	finalPath := c.pathFor(key)
	tmpPath := finalPath + ".tmp"
	if err := os.WriteFile(tmpPath, b, 0o644); err != nil {
		return fmt.Errorf("write cache temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("rename cache entry %s: %w", key, err)
	}
	return nil
}
