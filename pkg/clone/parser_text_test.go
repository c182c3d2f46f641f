// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import "testing"

func TestTextExtractorWholeFileAsOneUnit(t *testing.T) {
	refs, err := NewTextExtractor().Extract(FileRef{Path: "notes/readme.txt"}, "line1\nline2\nline3")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	r := refs[0]
	if r.QualifiedName != "readme.txt" {
		t.Errorf("expected basename as qualified name, got %q", r.QualifiedName)
	}
	if r.StartLine != 1 || r.EndLine != 3 {
		t.Errorf("expected span [1,3], got [%d,%d]", r.StartLine, r.EndLine)
	}
}

func TestTextExtractorEmptyFileStillYieldsOneLine(t *testing.T) {
	refs, err := NewTextExtractor().Extract(FileRef{Path: "empty.txt"}, "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(refs) != 1 || refs[0].StartLine != 1 || refs[0].EndLine != 1 {
		t.Errorf("expected single-line span for empty file, got %v", refs)
	}
}

func TestExtractorForLanguageDispatch(t *testing.T) {
	tests := []struct {
		lang Language
		want Language
	}{
		{LangGo, LangGo},
		{LangPython, LangPython},
		{LangTypeScript, LangTypeScript},
		{LangJavaScript, LangJavaScript},
		{LangText, LangText},
	}
	for _, tt := range tests {
		e := ExtractorForLanguage(tt.lang)
		if e.Language() != tt.want {
			t.Errorf("ExtractorForLanguage(%v).Language() = %v, want %v", tt.lang, e.Language(), tt.want)
		}
	}
}
