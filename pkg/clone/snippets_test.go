// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import (
	"strings"
	"testing"
)

func TestGenerateFunctionSnippetsSlicesFunctionBody(t *testing.T) {
	f := FunctionRef{Path: "a.go", QualifiedName: "Handle", StartLine: 2, EndLine: 4, Language: LangGo}
	source := map[string]string{
		"a.go": "package main\nfunc Handle() {\n\treturn\n}\n",
	}
	snips := GenerateFunctionSnippets([]FunctionRef{f}, source)
	if len(snips) != 1 {
		t.Fatalf("expected 1 snippet, got %d", len(snips))
	}
	s := snips[0]
	if s.Kind != KindFunc {
		t.Errorf("expected KindFunc, got %v", s.Kind)
	}
	if s.StartLine != 2 || s.EndLine != 4 {
		t.Errorf("expected span [2,4], got [%d,%d]", s.StartLine, s.EndLine)
	}
	if s.Text != "func Handle() {\n\treturn\n}" {
		t.Errorf("unexpected function text: %q", s.Text)
	}
	if s.SnippetHash == "" || s.ID == "" {
		t.Error("expected non-empty hash and ID")
	}
}

func TestGenerateFunctionSnippetsKeepsMissingSourceAsEmptyText(t *testing.T) {
	f := FunctionRef{Path: "missing.go", StartLine: 1, EndLine: 5, Language: LangGo}
	snips := GenerateFunctionSnippets([]FunctionRef{f}, map[string]string{})
	if len(snips) != 1 {
		t.Fatalf("expected 1 snippet even with empty text, got %d", len(snips))
	}
	if snips[0].Text != "" {
		t.Errorf("expected empty text for missing source, got %q", snips[0].Text)
	}
}

func TestGenerateWindowSnippetsRejectsBadParams(t *testing.T) {
	if _, err := GenerateWindowSnippets(nil, nil, WindowConfig{WindowLines: 0, StrideLines: 1}); err == nil {
		t.Error("expected error for window_lines <= 0")
	}
	if _, err := GenerateWindowSnippets(nil, nil, WindowConfig{WindowLines: 1, StrideLines: 0}); err == nil {
		t.Error("expected error for stride_lines <= 0")
	}
}

func TestGenerateWindowSnippetsFiltersMinNonEmpty(t *testing.T) {
	f := FunctionRef{Path: "a.go", QualifiedName: "Handle", StartLine: 1, EndLine: 6, Language: LangGo}
	source := map[string]string{
		"a.go": "func Handle() {\n\tx := 1\n\n\n\n\treturn x\n}\n",
	}
	params := WindowConfig{WindowLines: 3, StrideLines: 3, MinNonEmpty: 2}
	snips, err := GenerateWindowSnippets([]FunctionRef{f}, source, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range snips {
		nonEmpty := 0
		for _, l := range strings.Split(s.Text, "\n") {
			if strings.TrimSpace(l) != "" {
				nonEmpty++
			}
		}
		if nonEmpty < params.MinNonEmpty {
			t.Errorf("window %q has only %d non-empty lines, want >= %d", s.Text, nonEmpty, params.MinNonEmpty)
		}
	}
}

func TestGenerateWindowSnippetsOffsetsAreRelativeToFunctionStart(t *testing.T) {
	f := FunctionRef{Path: "a.go", QualifiedName: "Handle", StartLine: 10, EndLine: 14, Language: LangGo}
	source := map[string]string{
		"a.go": strings.Repeat("x\n", 9) + "func Handle() {\n\ta := 1\n\tb := 2\n}\n",
	}
	params := WindowConfig{WindowLines: 5, StrideLines: 5, MinNonEmpty: 1}
	snips, err := GenerateWindowSnippets([]FunctionRef{f}, source, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snips) != 1 {
		t.Fatalf("expected 1 window snippet, got %d", len(snips))
	}
	if snips[0].StartLine != 10 {
		t.Errorf("expected window to start at function start line 10, got %d", snips[0].StartLine)
	}
}
