// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import (
	"math"
	"testing"
)

func TestCosineSimilarityIdenticalVectors(t *testing.T) {
	a := []float32{1, 2, 3}
	if got := cosineSimilarity(a, a); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("cosineSimilarity(a, a) = %v, want 1.0", got)
	}
}

func TestCosineSimilarityOrthogonalVectors(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := cosineSimilarity(a, b); math.Abs(got) > 1e-6 {
		t.Errorf("cosineSimilarity(orthogonal) = %v, want 0", got)
	}
}

func TestCosineSimilarityZeroNormGuardsAgainstNaN(t *testing.T) {
	zero := []float32{0, 0, 0}
	got := cosineSimilarity(zero, zero)
	if math.IsNaN(got) {
		t.Fatal("cosineSimilarity should never return NaN for zero vectors")
	}
}

func TestBruteIndexQueryReturnsNearestFirst(t *testing.T) {
	idx := NewBruteIndex()
	idx.Build([][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	}, []string{"a", "b", "c"})

	got := idx.Query([]float32{1, 0, 0}, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].ID != "a" {
		t.Errorf("expected exact match 'a' to rank first, got %q", got[0].ID)
	}
	if got[1].ID != "c" {
		t.Errorf("expected 'c' to rank second (closer than 'b'), got %q", got[1].ID)
	}
}

func TestBruteIndexQueryTruncatesToK(t *testing.T) {
	idx := NewBruteIndex()
	idx.Build([][]float32{{1, 0}, {0, 1}, {1, 1}}, []string{"a", "b", "c"})
	got := idx.Query([]float32{1, 0}, 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
}

func TestApproxIndexFallsBackToFlatBelowNList(t *testing.T) {
	idx := NewApproxIndex(128, 8)
	idx.Build([][]float32{{1, 0}, {0, 1}}, []string{"a", "b"})
	got := idx.Query([]float32{1, 0}, 2)
	if len(got) != 2 {
		t.Fatalf("expected flat-fallback to return both vectors, got %d", len(got))
	}
	if got[0].ID != "a" {
		t.Errorf("expected exact match 'a' to rank first, got %q", got[0].ID)
	}
}

func TestApproxIndexTrainsCentroidsAboveNList(t *testing.T) {
	vectors := make([][]float32, 20)
	ids := make([]string, 20)
	for i := range vectors {
		if i%2 == 0 {
			vectors[i] = []float32{1, 0}
		} else {
			vectors[i] = []float32{0, 1}
		}
		ids[i] = string(rune('a' + i))
	}
	idx := NewApproxIndex(2, 1)
	idx.Build(vectors, ids)

	got := idx.Query([]float32{1, 0}, 5)
	if len(got) == 0 {
		t.Fatal("expected at least one neighbor from the trained index")
	}
}

func TestNewApproxIndexDefaultsNonPositiveParams(t *testing.T) {
	idx := NewApproxIndex(0, 0)
	if idx.nlist != 128 {
		t.Errorf("expected default nlist 128, got %d", idx.nlist)
	}
	if idx.nprobe != 8 {
		t.Errorf("expected default nprobe 8, got %d", idx.nprobe)
	}
}
