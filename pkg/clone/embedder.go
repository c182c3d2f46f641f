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
	"context"
	"crypto/sha256"
	"math"
)

// Embedder turns snippet text into a fixed-dimension vector.
type Embedder interface {
	// Embed returns one vector per text, in the same order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Name identifies the embedder for cache-key namespacing.
	Name() string
	Revision() string
	MaxLength() int
}

var (
	_ Embedder = (*StubEmbedder)(nil)
	_ Embedder = (*ExternalEmbedder)(nil)
)

// StubEmbedder is a deterministic, model-free embedder: each text's
// SHA-256 digest is truncated/extended to `dim` bytes, mapped from
// [0,255] to [0,1], then L2-normalized. It never errors and requires no
// network access, making it the default for tests and offline scans.
type StubEmbedder struct {
	dim int
}

// NewStubEmbedder builds a StubEmbedder producing `dim`-length vectors.
func NewStubEmbedder(dim int) *StubEmbedder {
	if dim <= 0 {
		dim = 16
	}
	return &StubEmbedder{dim: dim}
}

func (e *StubEmbedder) Name() string     { return "stub" }
func (e *StubEmbedder) Revision() string { return "main" }
func (e *StubEmbedder) MaxLength() int   { return 0 }

func (e *StubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = stubVector(t, e.dim)
	}
	return out, nil
}

func stubVector(text string, dim int) []float32 {
	digest := sha256.Sum256([]byte(text))
	vec := make([]float32, dim)
	for i := 0; i < dim; i++ {
		b := digest[i%len(digest)]
		vec[i] = float32(b) / 255.0
	}
	return l2Normalize(vec)
}

func l2Normalize(vec []float32) []float32 {
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq == 0 {
		return vec
	}
	norm := math.Sqrt(sumSq)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
