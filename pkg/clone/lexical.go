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
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9_]+`)

// lexicalSimilarity is the Jaccard index over the lowercased
// word/identifier token sets of a and b.
func lexicalSimilarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	intersection := 0
	for t := range tokensA {
		if tokensB[t] {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenize(text string) map[string]bool {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// spanLen is the inclusive line-count length of a snippet's span.
func spanLen(s SnippetRef) int {
	l := s.EndLine - s.StartLine + 1
	if l < 0 {
		return 0
	}
	return l
}

// pairKindRank scores a candidate pair's kind combination for
// tiebreaking: FUNC/FUNC beats any-FUNC beats WIN/WIN beats everything
// else.
func pairKindRank(a, b SnippetKind) int {
	if a == KindFunc && b == KindFunc {
		return 3
	}
	if a == KindFunc || b == KindFunc {
		return 2
	}
	if a == KindWin && b == KindWin {
		return 1
	}
	return 0
}

// bestMatch returns the highest-ranked candidate in matches by
// (pairKindRank, min span length, similarity), or ok=false if empty.
func bestMatch(matches []CandidateMatch) (CandidateMatch, bool) {
	if len(matches) == 0 {
		return CandidateMatch{}, false
	}
	best := matches[0]
	bestKey := matchRankKey(best)
	for _, m := range matches[1:] {
		key := matchRankKey(m)
		if rankKeyLess(bestKey, key) {
			best, bestKey = m, key
		}
	}
	return best, true
}

type rankKey struct {
	kindRank int
	minSpan  int
	score    float64
}

func matchRankKey(m CandidateMatch) rankKey {
	lenA := spanLen(m.QuerySnippet)
	lenB := spanLen(m.CandidateSnippet)
	minSpan := lenA
	if lenB < minSpan {
		minSpan = lenB
	}
	return rankKey{
		kindRank: pairKindRank(m.QuerySnippet.Kind, m.CandidateSnippet.Kind),
		minSpan:  minSpan,
		score:    m.CompositeScore,
	}
}

func rankKeyLess(a, b rankKey) bool {
	if a.kindRank != b.kindRank {
		return a.kindRank < b.kindRank
	}
	if a.minSpan != b.minSpan {
		return a.minSpan < b.minSpan
	}
	return a.score < b.score
}

// bestScore returns the maximum CompositeScore across matches, or 0 if
// empty.
func bestScore(matches []CandidateMatch) float64 {
	best := 0.0
	for _, m := range matches {
		if m.CompositeScore > best {
			best = m.CompositeScore
		}
	}
	return best
}
