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

import "fmt"

// Language tags a file or snippet by how it should be parsed.
type Language string

const (
	LangPython     Language = "python"
	LangGo         Language = "go"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangText       Language = "text"
)

// SnippetKind is the granularity a snippet was generated at.
type SnippetKind string

const (
	KindFunc SnippetKind = "FUNC"
	KindWin  SnippetKind = "WIN"
	KindExp  SnippetKind = "EXP"
)

// kindRank ranks a single snippet kind: FUNC beats WIN beats everything
// else. Dedup tiebreaking ranks kind pairs with pairKindRank instead.
func kindRank(k SnippetKind) int {
	switch k {
	case KindFunc:
		return 2
	case KindWin:
		return 1
	default:
		return 0
	}
}

// FileRef identifies a collected source file.
type FileRef struct {
	Path        string
	Language    Language
	ContentHash string
	SizeBytes   int
}

// FunctionRef identifies an extracted function, method, or (for the
// text fallback) a whole file treated as one unit.
type FunctionRef struct {
	Path          string
	QualifiedName string
	StartLine     int
	EndLine       int
	StartCol      int
	EndCol        int
	Language      Language
}

// Identity is the canonical string identity of a function, used for
// dedup, visited-sets, and grouping.
func (f FunctionRef) Identity() string {
	return fmt.Sprintf("%s:%s:%d:%d", f.Path, f.QualifiedName, f.StartLine, f.EndLine)
}

// SnippetRef is a unit of text submitted for embedding and retrieval.
type SnippetRef struct {
	ID           string
	Function     FunctionRef
	Kind         SnippetKind
	Text         string
	NormText     string
	StartLine    int
	EndLine      int
	SnippetHash  string
	CharLen      int
}

// Embedding is a vector produced for a SnippetRef by some Embedder.
type Embedding struct {
	SnippetID string
	Vector    []float32
	Model     string
	Revision  string
}

// CandidateMatch is a retrieved pair of snippets above threshold, before
// rollup/dedup.
type CandidateMatch struct {
	QuerySnippet      SnippetRef
	CandidateSnippet  SnippetRef
	EmbeddingScore    float64
	LexicalScore      float64
	CompositeScore    float64
	Evidence          string
}

// Finding is a deduplicated, reasoned clone pair emitted by rollup.
type Finding struct {
	FunctionA       FunctionRef
	FunctionB       FunctionRef
	Score           float64
	DuplicatedLines int
	Reasons         []string
	ClusterID       int
}

// ScanStats summarizes counts produced during a scan.
type ScanStats struct {
	FilesCollected    int
	FunctionsExtracted int
	SnippetsGenerated  int
	SnippetsByKind     map[SnippetKind]int
	CacheHits          int
	CacheMisses        int
	CandidatesFound    int
	FindingsEmitted    int
	ClustersEmitted    int
}

// StageTiming records wall-clock seconds spent in each pipeline stage.
type StageTiming struct {
	CollectSeconds    float64
	ExtractSeconds    float64
	GenerateSeconds   float64
	EmbedSeconds      float64
	SimilaritySeconds float64
}

// ScanResult is the output of a complete Pipeline.Run.
type ScanResult struct {
	Findings       []Finding
	Stats          ScanStats
	ConfigSnapshot Config
	Timing         StageTiming
}
