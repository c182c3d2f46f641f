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
	"fmt"
	"runtime"
	"sort"
	"sync"
)

// IndexFactory builds a fresh, empty VectorIndex. retrieveCandidates calls
// it once per worker so each goroutine owns an independent index instance
// instead of sharing one across threads.
type IndexFactory func() VectorIndex

const parallelRetrievalThreshold = 1000

// retrieveCandidates finds, for every snippet, its top-K nearest
// neighbors by embedding cosine similarity, gated by the per-kind
// threshold and the lexical floor. Below parallelRetrievalThreshold
// snippets it runs on the calling goroutine; above it, the snippet list
// is chunked across a worker pool where each worker builds its OWN
// index over the FULL embeddings array but only queries its chunk --
// more memory per worker, but each worker's output is independent of
// worker count, which keeps results identical across machines.
func retrieveCandidates(snippets []SnippetRef, embeddings []Embedding, factory IndexFactory, thresholds ThresholdConfig, topK, workers int) []CandidateMatch {
	if len(snippets) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
	}
	if workers > len(snippets) {
		workers = len(snippets)
	}
	if workers <= 1 || len(snippets) < parallelRetrievalThreshold {
		return retrieveMatchesRange(snippets, embeddings, factory, thresholds, topK, 0, len(snippets))
	}

	chunkSize := (len(snippets) + workers - 1) / workers
	type chunkRange struct{ start, end int }
	var chunks []chunkRange
	for start := 0; start < len(snippets); start += chunkSize {
		end := start + chunkSize
		if end > len(snippets) {
			end = len(snippets)
		}
		chunks = append(chunks, chunkRange{start, end})
	}

	results := make([][]CandidateMatch, len(chunks))
	var wg sync.WaitGroup
	for i, c := range chunks {
		wg.Add(1)
		go func(i int, c chunkRange) {
			defer wg.Done()
			results[i] = retrieveMatchesRange(snippets, embeddings, factory, thresholds, topK, c.start, c.end)
		}(i, c)
	}
	wg.Wait()

	var all []CandidateMatch
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

// retrieveMatchesRange builds one index over the full corpus and
// queries only snippets[start:end] against it.
func retrieveMatchesRange(snippets []SnippetRef, embeddings []Embedding, factory IndexFactory, thresholds ThresholdConfig, topK, start, end int) []CandidateMatch {
	idToSnippet := make(map[string]SnippetRef, len(snippets))
	ids := make([]string, len(snippets))
	vectors := make([][]float32, len(snippets))
	for i, snip := range snippets {
		idToSnippet[snip.SnippetHash] = snip
		ids[i] = snip.SnippetHash
		vectors[i] = embeddings[i].Vector
	}

	index := factory()
	index.Build(vectors, ids)

	var matches []CandidateMatch
	for i := start; i < end; i++ {
		snip := snippets[i]
		emb := embeddings[i]
		neighbors := index.Query(emb.Vector, topK)
		for _, n := range neighbors {
			if n.ID == snip.SnippetHash {
				continue
			}
			other, ok := idToSnippet[n.ID]
			if !ok {
				continue
			}
			lexical := lexicalSimilarity(snip.Text, other.Text)
			if thresholds.LexicalMinRatio > 0 && lexical < thresholds.LexicalMinRatio {
				continue
			}
			composite := (1.0-thresholds.LexicalWeight)*n.Score + thresholds.LexicalWeight*lexical
			threshold := thresholdForKind(other.Kind, thresholds)
			if composite < threshold {
				continue
			}
			matches = append(matches, CandidateMatch{
				QuerySnippet:     snip,
				CandidateSnippet: other,
				EmbeddingScore:   n.Score,
				LexicalScore:     lexical,
				CompositeScore:   composite,
				Evidence: fmt.Sprintf("%s->%s|emb=%.3f|lex=%.3f|comp=%.3f",
					snip.Kind, other.Kind, n.Score, lexical, composite),
			})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].QuerySnippet.SnippetHash < matches[j].QuerySnippet.SnippetHash
	})
	return matches
}

func thresholdForKind(kind SnippetKind, thresholds ThresholdConfig) float64 {
	switch kind {
	case KindFunc:
		return thresholds.FuncThreshold
	case KindWin:
		return thresholds.WinThreshold
	default:
		return thresholds.ExpThreshold
	}
}
