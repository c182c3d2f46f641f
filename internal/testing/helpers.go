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

package testing

import (
	"testing"

	"github.com/kraklabs/clonehunter/pkg/clone"
)

// NewTestCache creates an on-disk embedding cache rooted in a temp
// directory. The directory is removed automatically when the test
// finishes.
//
// Example:
//
//	cache := testing.NewTestCache(t)
//	_, err := cache.GetMany([]string{"missing"})
func NewTestCache(t *testing.T) *clone.EmbeddingCache {
	t.Helper()

	cache, err := clone.NewEmbeddingCache(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	return cache
}

// TestFunction builds a FunctionRef for use in snippet/candidate/rollup
// tests, filling in sensible defaults for fields the caller doesn't
// care about.
//
// Example:
//
//	fn := testing.TestFunction("auth.go", "HandleAuth", 10, 25)
func TestFunction(path, qualifiedName string, startLine, endLine int) clone.FunctionRef {
	return clone.FunctionRef{
		Path:          path,
		QualifiedName: qualifiedName,
		StartLine:     startLine,
		EndLine:       endLine,
		StartCol:      0,
		EndCol:        0,
		Language:      clone.LangGo,
	}
}

// TestFile builds a FileRef for collector/extractor tests.
//
// Example:
//
//	f := testing.TestFile("auth.go", clone.LangGo, 1234)
func TestFile(path string, language clone.Language, sizeBytes int) clone.FileRef {
	return clone.FileRef{
		Path:        path,
		Language:    language,
		ContentHash: "", // callers that need a real hash compute it themselves
		SizeBytes:   sizeBytes,
	}
}

// TestSnippet builds a SnippetRef for similarity/rollup tests. ID is
// derived from the function identity and kind, SnippetHash from the
// function identity and text, which is good enough for tests that don't
// depend on the exact hash scheme.
//
// Example:
//
//	s := testing.TestSnippet(fn, clone.KindFunc, "def f():\n    return 1", 10, 12)
func TestSnippet(fn clone.FunctionRef, kind clone.SnippetKind, text string, startLine, endLine int) clone.SnippetRef {
	return clone.SnippetRef{
		ID:          fn.Identity() + ":" + string(kind),
		Function:    fn,
		Kind:        kind,
		Text:        text,
		NormText:    text,
		StartLine:   startLine,
		EndLine:     endLine,
		SnippetHash: fn.Identity() + ":" + text,
		CharLen:     len(text),
	}
}

// TestEmbedding builds an Embedding that lines up with a SnippetRef's
// SnippetID, for feeding synthetic vectors into retrieval tests without
// running a real embedder.
//
// Example:
//
//	e := testing.TestEmbedding(s, []float32{1, 0, 0})
func TestEmbedding(s clone.SnippetRef, vector []float32) clone.Embedding {
	return clone.Embedding{
		SnippetID: s.ID,
		Vector:    vector,
		Model:     "test",
		Revision:  "v1",
	}
}

// RequireNoError fails the test immediately if err is non-nil,
// annotating the failure with msg.
//
// Example:
//
//	result, err := pipeline.Run(ctx, root)
//	testing.RequireNoError(t, err, "pipeline run")
func RequireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}
