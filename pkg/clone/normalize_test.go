// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import "testing"

func TestNormalizeTrimsTrailingWhitespacePreservingBlankLines(t *testing.T) {
	in := "func main() {   \n\n\tfmt.Println(1)\t\n}\n"
	want := "func main() {\n\n\tfmt.Println(1)\n}\n"
	if got := Normalize(in, LangGo); got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeStripsPythonDocstrings(t *testing.T) {
	in := "def foo():\n    \"\"\"docstring\"\"\"\n    return 1\n"
	got := Normalize(in, LangPython)
	if got == in {
		t.Error("expected the docstring to be blanked out")
	}
	// Line count must be preserved since we blank in place, not delete.
	wantLines := 4
	lines := 1
	for _, c := range got {
		if c == '\n' {
			lines++
		}
	}
	if lines != wantLines {
		t.Errorf("expected normalization to preserve line structure, got %d lines want %d", lines, wantLines)
	}
}

func TestNormalizeNonPythonSkipsDocstringStripping(t *testing.T) {
	in := "// comment\nfunc foo() {}\n"
	if got := Normalize(in, LangGo); got != in {
		t.Errorf("Go source with no trailing whitespace should be unchanged, got %q", got)
	}
}

func TestNormalizeOnUnparseablePythonReturnsInputUnchangedModuloWhitespace(t *testing.T) {
	in := "this is not valid python @@@ ###"
	got := Normalize(in, LangPython)
	// canonicalizeWhitespace still runs even when the docstring parse
	// itself fails to find anything to strip.
	if got != in {
		t.Errorf("expected unchanged text for input with no docstrings, got %q", got)
	}
}
