// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import "testing"

func TestGoExtractorTopLevelFunction(t *testing.T) {
	src := `package main

func Add(a, b int) int {
	return a + b
}
`
	refs, err := NewGoExtractor().Extract(FileRef{Path: "a.go"}, src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(refs))
	}
	if refs[0].QualifiedName != "Add" {
		t.Errorf("expected QualifiedName 'Add', got %q", refs[0].QualifiedName)
	}
	if refs[0].Language != LangGo {
		t.Errorf("expected LangGo, got %v", refs[0].Language)
	}
}

func TestGoExtractorMethodGetsReceiverQualifiedName(t *testing.T) {
	src := `package main

type Server struct{}

func (s *Server) Handle() {}
`
	refs, err := NewGoExtractor().Extract(FileRef{Path: "a.go"}, src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 method, got %d", len(refs))
	}
	if refs[0].QualifiedName != "Server.Handle" {
		t.Errorf("expected 'Server.Handle', got %q", refs[0].QualifiedName)
	}
}

func TestGoExtractorFuncLiteralGetsAnonymousName(t *testing.T) {
	src := `package main

func Outer() {
	f := func() {}
	_ = f
}
`
	refs, err := NewGoExtractor().Extract(FileRef{Path: "a.go"}, src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected outer func + literal, got %d", len(refs))
	}
	foundAnon := false
	for _, r := range refs {
		if r.QualifiedName == "$anon_1" {
			foundAnon = true
		}
	}
	if !foundAnon {
		t.Errorf("expected a $anon_1 entry, got %v", refs)
	}
}

func TestGoSimpleNameStripsReceiverQualifier(t *testing.T) {
	if got := goSimpleName("Server.Handle"); got != "Handle" {
		t.Errorf("goSimpleName(%q) = %q, want Handle", "Server.Handle", got)
	}
	if got := goSimpleName("Plain"); got != "Plain" {
		t.Errorf("goSimpleName(%q) = %q, want Plain", "Plain", got)
	}
}

func TestGoExtractorOnGenericReceiverStripsTypeParams(t *testing.T) {
	src := `package main

type Box[T any] struct{ v T }

func (b *Box[T]) Get() T { return b.v }
`
	refs, err := NewGoExtractor().Extract(FileRef{Path: "a.go"}, src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 method, got %d", len(refs))
	}
	if refs[0].QualifiedName != "Box.Get" {
		t.Errorf("expected 'Box.Get', got %q", refs[0].QualifiedName)
	}
}
