// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import "testing"

func bruteFactory() VectorIndex { return NewBruteIndex() }

func embOf(s SnippetRef, vec []float32) Embedding {
	return Embedding{SnippetID: s.ID, Vector: vec}
}

func TestThresholdForKind(t *testing.T) {
	thresholds := ThresholdConfig{FuncThreshold: 0.9, WinThreshold: 0.8, ExpThreshold: 0.7}
	if got := thresholdForKind(KindFunc, thresholds); got != 0.9 {
		t.Errorf("KindFunc threshold = %v, want 0.9", got)
	}
	if got := thresholdForKind(KindWin, thresholds); got != 0.8 {
		t.Errorf("KindWin threshold = %v, want 0.8", got)
	}
	if got := thresholdForKind(KindExp, thresholds); got != 0.7 {
		t.Errorf("KindExp threshold = %v, want 0.7", got)
	}
}

func TestRetrieveCandidatesEmpty(t *testing.T) {
	out := retrieveCandidates(nil, nil, bruteFactory, ThresholdConfig{}, 5, 1)
	if out != nil {
		t.Errorf("expected nil for empty snippets, got %v", out)
	}
}

func TestRetrieveCandidatesSkipsSelfAndGatesByThreshold(t *testing.T) {
	a := fn("a.go", "Handle", 1, 10)
	b := fn("b.go", "Handle", 1, 10)

	s1 := snip(a, KindFunc, 1, 10, "foo bar baz")
	s2 := snip(b, KindFunc, 1, 10, "foo bar baz")

	snippets := []SnippetRef{s1, s2}
	embeddings := []Embedding{
		embOf(s1, []float32{1, 0, 0}),
		embOf(s2, []float32{1, 0, 0}),
	}

	thresholds := ThresholdConfig{FuncThreshold: 0.5, WinThreshold: 0.5, ExpThreshold: 0.5, LexicalWeight: 0.5}
	out := retrieveMatchesRange(snippets, embeddings, bruteFactory, thresholds, 5, 0, len(snippets))

	if len(out) != 2 {
		t.Fatalf("expected each snippet to match the other (2 directed matches), got %d", len(out))
	}
	for _, m := range out {
		if m.QuerySnippet.SnippetHash == m.CandidateSnippet.SnippetHash {
			t.Error("a snippet should never match itself")
		}
	}
}

func TestRetrieveCandidatesLexicalFloorDropsDissimilarPairs(t *testing.T) {
	a := fn("a.go", "Handle", 1, 10)
	b := fn("b.go", "Handle", 1, 10)

	s1 := snip(a, KindFunc, 1, 10, "foo bar baz")
	s2 := snip(b, KindFunc, 1, 10, "qux quux corge")

	snippets := []SnippetRef{s1, s2}
	embeddings := []Embedding{
		embOf(s1, []float32{1, 0, 0}),
		embOf(s2, []float32{1, 0, 0}),
	}

	thresholds := ThresholdConfig{FuncThreshold: 0.1, LexicalMinRatio: 0.5}
	out := retrieveMatchesRange(snippets, embeddings, bruteFactory, thresholds, 5, 0, len(snippets))
	if len(out) != 0 {
		t.Errorf("expected lexical floor to drop fully disjoint pair, got %d matches", len(out))
	}
}

func TestRetrieveCandidatesParallelMatchesSequential(t *testing.T) {
	a := fn("a.go", "Handle", 1, 10)
	b := fn("b.go", "Handle", 1, 10)
	c := fn("c.go", "Handle", 1, 10)

	s1 := snip(a, KindFunc, 1, 10, "foo bar baz")
	s2 := snip(b, KindFunc, 1, 10, "foo bar baz")
	s3 := snip(c, KindFunc, 1, 10, "foo bar baz")

	snippets := []SnippetRef{s1, s2, s3}
	embeddings := []Embedding{
		embOf(s1, []float32{1, 0, 0}),
		embOf(s2, []float32{1, 0, 0}),
		embOf(s3, []float32{1, 0, 0}),
	}
	thresholds := ThresholdConfig{FuncThreshold: 0.5, LexicalWeight: 0.5}

	sequential := retrieveCandidates(snippets, embeddings, bruteFactory, thresholds, 5, 1)
	parallel := retrieveCandidates(snippets, embeddings, bruteFactory, thresholds, 5, 3)

	if len(sequential) != len(parallel) {
		t.Fatalf("expected worker count to not change match count: sequential=%d parallel=%d", len(sequential), len(parallel))
	}
}
