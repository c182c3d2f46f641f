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

// Package testing provides test fixtures for clonehunter's clone-detection
// packages.
//
// It builds FileRef, FunctionRef, SnippetRef, and Embedding values with
// sensible defaults so pkg/clone tests can focus on the behavior under
// test instead of struct boilerplate.
//
// # Quick Start
//
//	func TestMySimilarityRule(t *testing.T) {
//	    fnA := testing.TestFunction("a.go", "Handle", 10, 20)
//	    fnB := testing.TestFunction("b.go", "Handle", 30, 40)
//	    snipA := testing.TestSnippet(fnA, clone.KindFunc, "func Handle() {}", 10, 20)
//	    snipB := testing.TestSnippet(fnB, clone.KindFunc, "func Handle() {}", 30, 40)
//
//	    embeddings := []clone.Embedding{
//	        testing.TestEmbedding(snipA, []float32{1, 0, 0}),
//	        testing.TestEmbedding(snipB, []float32{1, 0, 0}),
//	    }
//	    // feed snipA, snipB, embeddings into the function under test
//	}
//
// # Fixtures
//
//   - NewTestCache: an on-disk EmbeddingCache rooted in t.TempDir()
//   - TestFile: a FileRef with defaults filled in
//   - TestFunction: a FunctionRef with defaults filled in
//   - TestSnippet: a SnippetRef whose ID derives from the function
//     identity and kind, and whose SnippetHash from the identity and text
//   - TestEmbedding: an Embedding whose SnippetID lines up with a
//     SnippetRef, for synthetic vectors in retrieval tests
package testing
