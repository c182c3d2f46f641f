// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import (
	"strings"
	"testing"
)

func TestExpandCallsZeroDepthReturnsNil(t *testing.T) {
	out := ExpandCalls(nil, nil, ExpansionConfig{MaxDepth: 0, MaxChars: 1000})
	if out != nil {
		t.Errorf("expected nil when MaxDepth <= 0, got %v", out)
	}
}

func TestExpandCallsGoLikeInlinesCalledHelper(t *testing.T) {
	outer := FunctionRef{Path: "a.go", QualifiedName: "Outer", StartLine: 1, EndLine: 3, Language: LangGo}
	helper := FunctionRef{Path: "a.go", QualifiedName: "Helper", StartLine: 5, EndLine: 7, Language: LangGo}
	source := map[string]string{
		"a.go": "func Outer() {\n\tHelper()\n}\nfunc Helper() {\n\treturn\n}\n",
	}
	out := ExpandCalls([]FunctionRef{outer, helper}, source, ExpansionConfig{MaxDepth: 2, MaxChars: 4000})

	var found *SnippetRef
	for i := range out {
		if out[i].Function.QualifiedName == "Outer" {
			found = &out[i]
		}
	}
	if found == nil {
		t.Fatalf("expected an EXP snippet for Outer, got %v", out)
	}
	if found.Kind != KindExp {
		t.Errorf("expected KindExp, got %v", found.Kind)
	}
	if !strings.Contains(found.Text, "expanded:Helper") {
		t.Errorf("expected expanded text to inline Helper, got %q", found.Text)
	}
}

func TestExpandCallsGoLikeRespectsMaxChars(t *testing.T) {
	outer := FunctionRef{Path: "a.go", QualifiedName: "Outer", StartLine: 1, EndLine: 3, Language: LangGo}
	helper := FunctionRef{Path: "a.go", QualifiedName: "Helper", StartLine: 5, EndLine: 7, Language: LangGo}
	source := map[string]string{
		"a.go": "func Outer() {\n\tHelper()\n}\nfunc Helper() {\n\treturn\n}\n",
	}
	out := ExpandCalls([]FunctionRef{outer, helper}, source, ExpansionConfig{MaxDepth: 2, MaxChars: 1})
	for _, s := range out {
		if s.Function.QualifiedName == "Outer" {
			t.Errorf("expected no expansion to survive a MaxChars=1 budget, got %v", s)
		}
	}
}

func TestExpandCallsGoLikeWithNoCalleesProducesNoSnippet(t *testing.T) {
	lonely := FunctionRef{Path: "a.go", QualifiedName: "Lonely", StartLine: 1, EndLine: 3, Language: LangGo}
	source := map[string]string{"a.go": "func Lonely() {\n\treturn\n}\n"}
	out := ExpandCalls([]FunctionRef{lonely}, source, ExpansionConfig{MaxDepth: 2, MaxChars: 4000})
	if len(out) != 0 {
		t.Errorf("expected no EXP snippets when nothing is called, got %v", out)
	}
}

func TestGoLikeCallNamesFindsIdentifierBeforeParen(t *testing.T) {
	names := goLikeCallNames("a := Foo(1, 2)\nb := bar.Baz()\n")
	want := map[string]bool{"Foo": true, "Baz": true}
	got := map[string]bool{}
	for _, n := range names {
		got[n] = true
	}
	for w := range want {
		if !got[w] {
			t.Errorf("expected to find call name %q in %v", w, names)
		}
	}
}
