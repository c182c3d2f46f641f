// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import "testing"

func snip(f FunctionRef, kind SnippetKind, start, end int, text string) SnippetRef {
	return SnippetRef{Function: f, Kind: kind, StartLine: start, EndLine: end, Text: text}
}

func TestRollupReasons(t *testing.T) {
	thresholds := ThresholdConfig{FuncThreshold: 0.9, ExpThreshold: 0.85, MinWindowHits: 2}

	a := fn("a.go", "Handle", 1, 10)
	b := fn("b.go", "Handle", 1, 10)

	funcHit := CandidateMatch{
		QuerySnippet:     snip(a, KindFunc, 1, 10, "x"),
		CandidateSnippet: snip(b, KindFunc, 1, 10, "x"),
		CompositeScore:   0.95,
	}
	belowThreshold := CandidateMatch{
		QuerySnippet:     snip(a, KindFunc, 1, 10, "x"),
		CandidateSnippet: snip(b, KindFunc, 1, 10, "x"),
		CompositeScore:   0.5,
	}
	winHit1 := CandidateMatch{QuerySnippet: snip(a, KindWin, 1, 40, "x"), CandidateSnippet: snip(b, KindWin, 1, 40, "x")}
	winHit2 := CandidateMatch{QuerySnippet: snip(a, KindWin, 10, 50, "x"), CandidateSnippet: snip(b, KindWin, 10, 50, "x")}

	if reasons := rollupReasons([]CandidateMatch{funcHit}, thresholds); len(reasons) != 1 || reasons[0] != "func_threshold" {
		t.Errorf("expected [func_threshold], got %v", reasons)
	}
	if reasons := rollupReasons([]CandidateMatch{belowThreshold}, thresholds); len(reasons) != 0 {
		t.Errorf("expected no reasons below threshold, got %v", reasons)
	}
	if reasons := rollupReasons([]CandidateMatch{winHit1}, thresholds); len(reasons) != 0 {
		t.Errorf("single window hit should not clear min_window_hits=2, got %v", reasons)
	}
	if reasons := rollupReasons([]CandidateMatch{winHit1, winHit2}, thresholds); len(reasons) != 1 || reasons[0] != "min_window_hits" {
		t.Errorf("two window hits should clear min_window_hits, got %v", reasons)
	}
}

func TestDedupeMatchesKeepsHighestScoreOnKeyCollision(t *testing.T) {
	a := fn("a.go", "Handle", 1, 10)
	b := fn("b.go", "Handle", 1, 10)

	weak := CandidateMatch{
		QuerySnippet:     snip(a, KindWin, 1, 10, "x"),
		CandidateSnippet: snip(b, KindWin, 1, 10, "x"),
		CompositeScore:   0.8,
	}
	strong := CandidateMatch{
		QuerySnippet:     snip(a, KindWin, 1, 10, "x"),
		CandidateSnippet: snip(b, KindWin, 1, 10, "x"),
		CompositeScore:   0.95,
	}

	out := dedupeMatches([]CandidateMatch{weak, strong})
	if len(out) != 1 {
		t.Fatalf("expected 1 deduped match, got %d", len(out))
	}
	if out[0].CompositeScore != 0.95 {
		t.Errorf("expected the higher-scoring duplicate to survive, got %v", out[0].CompositeScore)
	}
}

func TestDedupeMatchesTreatsSwappedPairsAsSameKey(t *testing.T) {
	a := fn("a.go", "Handle", 1, 10)
	b := fn("b.go", "Handle", 1, 10)

	forward := CandidateMatch{
		QuerySnippet:     snip(a, KindFunc, 1, 10, "x"),
		CandidateSnippet: snip(b, KindFunc, 1, 10, "x"),
		CompositeScore:   0.9,
	}
	backward := CandidateMatch{
		QuerySnippet:     snip(b, KindFunc, 1, 10, "x"),
		CandidateSnippet: snip(a, KindFunc, 1, 10, "x"),
		CompositeScore:   0.9,
	}

	out := dedupeMatches([]CandidateMatch{forward, backward})
	if len(out) != 1 {
		t.Fatalf("expected symmetric pair to dedupe to 1 match, got %d", len(out))
	}
}

func TestFilterOverlappingFunctionsDropsNestedFunctionPairs(t *testing.T) {
	outer := fn("a.go", "Outer", 1, 50)
	inner := fn("a.go", "Outer.inner", 10, 20)
	unrelated := fn("b.go", "Other", 1, 50)

	nested := CandidateMatch{QuerySnippet: snip(outer, KindFunc, 1, 50, "x"), CandidateSnippet: snip(inner, KindFunc, 10, 20, "x")}
	independent := CandidateMatch{QuerySnippet: snip(outer, KindFunc, 1, 50, "x"), CandidateSnippet: snip(unrelated, KindFunc, 1, 50, "x")}

	out := filterOverlappingFunctions([]CandidateMatch{nested, independent})
	if len(out) != 1 {
		t.Fatalf("expected 1 match to survive (nested pair dropped), got %d", len(out))
	}
	if out[0].CandidateSnippet.Function.Path != "b.go" {
		t.Errorf("expected the independent-function match to survive, got %v", out[0])
	}
}

func TestFilterOverlappingWindowsDropsSameKindOverlap(t *testing.T) {
	a := fn("a.go", "Handle", 1, 100)

	overlapping := CandidateMatch{
		QuerySnippet:     snip(a, KindWin, 1, 40, "x"),
		CandidateSnippet: snip(a, KindWin, 20, 60, "x"),
	}
	nonOverlapping := CandidateMatch{
		QuerySnippet:     snip(a, KindWin, 1, 40, "x"),
		CandidateSnippet: snip(a, KindWin, 50, 90, "x"),
	}

	out := filterOverlappingWindows([]CandidateMatch{overlapping, nonOverlapping})
	if len(out) != 1 {
		t.Fatalf("expected 1 match to survive, got %d", len(out))
	}
	if out[0].CandidateSnippet.StartLine != 50 {
		t.Errorf("expected the non-overlapping window pair to survive, got %v", out[0])
	}
}

func TestFilterLexicalMatchesAppliesFloor(t *testing.T) {
	a := fn("a.go", "Handle", 1, 10)
	b := fn("b.go", "Handle", 1, 10)

	similar := CandidateMatch{QuerySnippet: snip(a, KindFunc, 1, 10, "foo bar baz"), CandidateSnippet: snip(b, KindFunc, 1, 10, "foo bar baz")}
	dissimilar := CandidateMatch{QuerySnippet: snip(a, KindFunc, 1, 10, "foo bar"), CandidateSnippet: snip(b, KindFunc, 1, 10, "qux quux")}

	out := filterLexicalMatches([]CandidateMatch{similar, dissimilar}, 0.5)
	if len(out) != 1 {
		t.Fatalf("expected 1 match above lexical floor, got %d", len(out))
	}
}

func TestDuplicatedLinesTakesMinOfBothSidesMergedCoverage(t *testing.T) {
	a := fn("a.go", "Handle", 1, 100)
	b := fn("b.go", "Handle", 1, 100)

	matches := []CandidateMatch{
		{QuerySnippet: snip(a, KindWin, 1, 20, "x"), CandidateSnippet: snip(b, KindWin, 1, 10, "x")},
		{QuerySnippet: snip(a, KindWin, 15, 30, "x"), CandidateSnippet: snip(b, KindWin, 40, 50, "x")},
	}
	// side A covers [1,30] = 30 lines; side B covers [1,10]+[40,50] = 21 lines.
	if got := duplicatedLines(matches); got != 21 {
		t.Errorf("duplicatedLines() = %d, want 21", got)
	}
}

func TestRollupFindingsEndToEnd(t *testing.T) {
	thresholds := ThresholdConfig{
		FuncThreshold: 0.9, ExpThreshold: 0.9, MinWindowHits: 2, LexicalMinRatio: 0,
	}
	a := fn("a.go", "Handle", 1, 10)
	b := fn("b.go", "Handle", 1, 10)

	match := CandidateMatch{
		QuerySnippet:     snip(a, KindFunc, 1, 10, "func Handle() { return 1 }"),
		CandidateSnippet: snip(b, KindFunc, 1, 10, "func Handle() { return 1 }"),
		CompositeScore:   0.95,
	}

	findings := rollupFindings([]CandidateMatch{match}, thresholds)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Score != 0.95 {
		t.Errorf("expected score 0.95, got %v", f.Score)
	}
	if len(f.Reasons) != 1 || f.Reasons[0] != "func_threshold" {
		t.Errorf("expected [func_threshold], got %v", f.Reasons)
	}
}

func TestRollupFindingsCanonicalizesFunctionOrderRegardlessOfQuerySide(t *testing.T) {
	thresholds := ThresholdConfig{
		FuncThreshold: 0.9, ExpThreshold: 0.9, MinWindowHits: 2, LexicalMinRatio: 0,
	}
	// z.go sorts after a.go, so the a.go function's Identity() sorts
	// first -- the query snippet here is deliberately the
	// lexicographically larger side.
	larger := fn("z.go", "Handle", 1, 10)
	smaller := fn("a.go", "Handle", 1, 10)

	match := CandidateMatch{
		QuerySnippet:     snip(larger, KindFunc, 1, 10, "func Handle() { return 1 }"),
		CandidateSnippet: snip(smaller, KindFunc, 1, 10, "func Handle() { return 1 }"),
		CompositeScore:   0.95,
	}

	findings := rollupFindings([]CandidateMatch{match}, thresholds)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.FunctionA.Identity() > f.FunctionB.Identity() {
		t.Errorf("expected FunctionA.Identity() <= FunctionB.Identity(), got A=%q B=%q",
			f.FunctionA.Identity(), f.FunctionB.Identity())
	}
	if f.FunctionA.Path != "a.go" || f.FunctionB.Path != "z.go" {
		t.Errorf("expected canonical order (a.go, z.go) regardless of query/candidate side, got (%s, %s)",
			f.FunctionA.Path, f.FunctionB.Path)
	}
}

func TestRollupFindingsDropsGroupsWithNoReasons(t *testing.T) {
	thresholds := ThresholdConfig{FuncThreshold: 0.99, ExpThreshold: 0.99, MinWindowHits: 10, LexicalMinRatio: 0}
	a := fn("a.go", "Handle", 1, 10)
	b := fn("b.go", "Handle", 1, 10)

	match := CandidateMatch{
		QuerySnippet:     snip(a, KindFunc, 1, 10, "x"),
		CandidateSnippet: snip(b, KindFunc, 1, 10, "x"),
		CompositeScore:   0.5,
	}
	findings := rollupFindings([]CandidateMatch{match}, thresholds)
	if len(findings) != 0 {
		t.Errorf("expected no findings when no reason clears its threshold, got %d", len(findings))
	}
}
