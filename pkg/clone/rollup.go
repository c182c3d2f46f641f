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

import "sort"

// rollupFindings turns raw candidate matches into deduplicated,
// reasoned Findings. Filter order matters: matches between overlapping
// functions of the same file are suppressed first, then same-function
// window overlap, then the lexical floor, then symmetric and
// identical-span duplicate matches are collapsed before grouping by
// function pair.
func rollupFindings(matches []CandidateMatch, thresholds ThresholdConfig) []Finding {
	filtered := filterOverlappingFunctions(matches)
	filtered = filterOverlappingWindows(filtered)
	filtered = filterLexicalMatches(filtered, thresholds.LexicalMinRatio)
	filtered = dedupeMatches(filtered)

	type group struct {
		key     [2]string
		matches []CandidateMatch
	}
	order := make([]string, 0)
	groups := make(map[string]*group)
	for _, m := range filtered {
		keyA, keyB := fnPairKey(m)
		k := keyA + "\x00" + keyB
		g, ok := groups[k]
		if !ok {
			g = &group{key: [2]string{keyA, keyB}}
			groups[k] = g
			order = append(order, k)
		}
		g.matches = append(g.matches, m)
	}

	var findings []Finding
	for _, k := range order {
		g := groups[k]
		m0 := g.matches[0]
		funcA, funcB := m0.QuerySnippet.Function, m0.CandidateSnippet.Function
		if funcA.Identity() != g.key[0] {
			funcA, funcB = funcB, funcA
		}
		reasons := rollupReasons(g.matches, thresholds)
		if len(reasons) == 0 {
			continue
		}
		findings = append(findings, Finding{
			FunctionA:       funcA,
			FunctionB:       funcB,
			Score:           bestScore(g.matches),
			DuplicatedLines: duplicatedLines(g.matches),
			Reasons:         reasons,
		})
	}
	return findings
}

type spanKey struct {
	identity string
	start    int
	end      int
}

// dedupeMatches removes symmetric duplicates and identical span pairs,
// collapsing across snippet kinds: keep the strongest similarity, and
// on ties prefer FUNC/FUNC over any other kind combination.
func dedupeMatches(matches []CandidateMatch) []CandidateMatch {
	type pairKey struct{ a, b spanKey }
	best := make(map[pairKey]CandidateMatch)
	var order []pairKey

	for _, m := range matches {
		a := m.QuerySnippet
		b := m.CandidateSnippet
		aKey := spanKey{a.Function.Identity(), a.StartLine, a.EndLine}
		bKey := spanKey{b.Function.Identity(), b.StartLine, b.EndLine}
		key := pairKey{a: aKey, b: bKey}
		if spanKeyGreater(aKey, bKey) {
			key = pairKey{a: bKey, b: aKey}
		}
		existing, ok := best[key]
		if !ok {
			best[key] = m
			order = append(order, key)
			continue
		}
		if m.CompositeScore > existing.CompositeScore ||
			(m.CompositeScore == existing.CompositeScore && matchKindRank(m) > matchKindRank(existing)) {
			best[key] = m
		}
	}

	out := make([]CandidateMatch, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

func spanKeyGreater(a, b spanKey) bool {
	if a.identity != b.identity {
		return a.identity > b.identity
	}
	if a.start != b.start {
		return a.start > b.start
	}
	return a.end > b.end
}

func matchKindRank(m CandidateMatch) int {
	return pairKindRank(m.QuerySnippet.Kind, m.CandidateSnippet.Kind)
}

func fnPairKey(m CandidateMatch) (string, string) {
	a := m.QuerySnippet.Function.Identity()
	b := m.CandidateSnippet.Function.Identity()
	if a <= b {
		return a, b
	}
	return b, a
}

// rollupReasons decides whether a grouped set of matches for one
// function pair clears the bar to be reported, and why: a FUNC-kind
// hit at or above the func threshold, an EXP-kind hit at or above the
// exp threshold, or enough WIN-kind hits to meet min_window_hits.
func rollupReasons(matches []CandidateMatch, thresholds ThresholdConfig) []string {
	var funcHits, winHits, expHits []CandidateMatch
	for _, m := range matches {
		if m.QuerySnippet.Kind == KindFunc || m.CandidateSnippet.Kind == KindFunc {
			funcHits = append(funcHits, m)
		}
		if m.QuerySnippet.Kind == KindWin || m.CandidateSnippet.Kind == KindWin {
			winHits = append(winHits, m)
		}
		if m.QuerySnippet.Kind == KindExp || m.CandidateSnippet.Kind == KindExp {
			expHits = append(expHits, m)
		}
	}

	var reasons []string
	if len(funcHits) > 0 && bestScore(funcHits) >= thresholds.FuncThreshold {
		reasons = append(reasons, "func_threshold")
	}
	if len(expHits) > 0 && bestScore(expHits) >= thresholds.ExpThreshold {
		reasons = append(reasons, "exp_threshold")
	}
	if len(winHits) >= thresholds.MinWindowHits {
		reasons = append(reasons, "min_window_hits")
	}
	return reasons
}

// filterOverlappingWindows drops same-function matches whose two spans
// are identical (whatever their kinds), whose spans overlap with
// different kinds (e.g. FUNC vs. one of its own WIN slices), or whose
// spans overlap as two WIN snippets. Overlapping, non-identical spans of
// the same non-WIN kind are kept.
func filterOverlappingWindows(matches []CandidateMatch) []CandidateMatch {
	filtered := make([]CandidateMatch, 0, len(matches))
	for _, m := range matches {
		a := m.QuerySnippet
		b := m.CandidateSnippet
		if a.Function.Identity() == b.Function.Identity() {
			sameSpan := a.StartLine == b.StartLine && a.EndLine == b.EndLine
			if sameSpan {
				continue
			}
			if overlapLen(a.StartLine, a.EndLine, b.StartLine, b.EndLine) > 0 {
				if a.Kind != b.Kind {
					continue
				}
				if a.Kind == KindWin {
					continue
				}
			}
		}
		filtered = append(filtered, m)
	}
	return filtered
}

// filterOverlappingFunctions drops matches between two functions in
// the same file whose line ranges overlap -- typically a nested
// function and its enclosing one, which are not independent clones.
func filterOverlappingFunctions(matches []CandidateMatch) []CandidateMatch {
	filtered := make([]CandidateMatch, 0, len(matches))
	for _, m := range matches {
		funcA := m.QuerySnippet.Function
		funcB := m.CandidateSnippet.Function
		if funcA.Path == funcB.Path && funcA.Identity() != funcB.Identity() {
			if overlapLen(funcA.StartLine, funcA.EndLine, funcB.StartLine, funcB.EndLine) > 0 {
				continue
			}
		}
		filtered = append(filtered, m)
	}
	return filtered
}

func overlapLen(aStart, aEnd, bStart, bEnd int) int {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	if start > end {
		return 0
	}
	return end - start + 1
}

func filterLexicalMatches(matches []CandidateMatch, minRatio float64) []CandidateMatch {
	if minRatio <= 0 {
		return matches
	}
	filtered := make([]CandidateMatch, 0, len(matches))
	for _, m := range matches {
		ratio := lexicalSimilarity(m.QuerySnippet.Text, m.CandidateSnippet.Text)
		if ratio >= minRatio {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func duplicatedLines(matches []CandidateMatch) int {
	if len(matches) == 0 {
		return 0
	}
	spansA := make([][2]int, len(matches))
	spansB := make([][2]int, len(matches))
	for i, m := range matches {
		spansA[i] = [2]int{m.QuerySnippet.StartLine, m.QuerySnippet.EndLine}
		spansB[i] = [2]int{m.CandidateSnippet.StartLine, m.CandidateSnippet.EndLine}
	}
	a := coveredLines(spansA)
	b := coveredLines(spansB)
	if b < a {
		return b
	}
	return a
}

func coveredLines(spans [][2]int) int {
	if len(spans) == 0 {
		return 0
	}
	sorted := append([][2]int(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})

	merged := make([][2]int, 0, len(sorted))
	for _, s := range sorted {
		if len(merged) == 0 || s[0] > merged[len(merged)-1][1]+1 {
			merged = append(merged, s)
			continue
		}
		if s[1] > merged[len(merged)-1][1] {
			merged[len(merged)-1][1] = s[1]
		}
	}

	total := 0
	for _, m := range merged {
		total += m[1] - m[0] + 1
	}
	return total
}
