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
	"math"
	"sort"
)

// scoredID is one (id, similarity) query result.
type scoredID struct {
	ID    string
	Score float64
}

// VectorIndex finds the k nearest neighbors of a query vector by cosine
// similarity.
type VectorIndex interface {
	// Build indexes the given vectors under the given parallel ids.
	Build(vectors [][]float32, ids []string)

	// Query returns up to k nearest neighbors, descending by score.
	Query(vector []float32, k int) []scoredID
}

var (
	_ VectorIndex = (*BruteIndex)(nil)
	_ VectorIndex = (*ApproxIndex)(nil)
)

// BruteIndex does a full cosine scan over every indexed vector. Exact,
// O(n) per query; the right choice below the approximate index's
// break-even point (see ApproxIndex).
type BruteIndex struct {
	ids     []string
	vectors [][]float32
}

// NewBruteIndex builds an empty BruteIndex.
func NewBruteIndex() *BruteIndex { return &BruteIndex{} }

func (b *BruteIndex) Build(vectors [][]float32, ids []string) {
	b.ids = ids
	b.vectors = vectors
}

func (b *BruteIndex) Query(vector []float32, k int) []scoredID {
	scored := make([]scoredID, 0, len(b.ids))
	for i, id := range b.ids {
		scored = append(scored, scoredID{ID: id, Score: cosineSimilarity(vector, b.vectors[i])})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)
	if normA == 0 {
		normA = 1
	}
	if normB == 0 {
		normB = 1
	}
	return dot / (normA * normB)
}
