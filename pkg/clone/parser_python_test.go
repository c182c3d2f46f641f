// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import "testing"

func TestPythonExtractorTopLevelFunction(t *testing.T) {
	src := "def foo(x):\n    return x\n"
	refs, err := NewPythonExtractor().Extract(FileRef{Path: "a.py"}, src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(refs) != 1 || refs[0].QualifiedName != "foo" {
		t.Fatalf("expected single top-level function 'foo', got %v", refs)
	}
}

func TestPythonExtractorMethodGetsClassQualifiedName(t *testing.T) {
	src := "class Server:\n    def handle(self):\n        pass\n"
	refs, err := NewPythonExtractor().Extract(FileRef{Path: "a.py"}, src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(refs) != 1 || refs[0].QualifiedName != "Server.handle" {
		t.Fatalf("expected 'Server.handle', got %v", refs)
	}
}

func TestPythonExtractorNestedFunctionGetsDottedName(t *testing.T) {
	src := "def outer():\n    def inner():\n        pass\n    return inner\n"
	refs, err := NewPythonExtractor().Extract(FileRef{Path: "a.py"}, src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected outer+inner, got %d: %v", len(refs), refs)
	}
	if refs[0].QualifiedName != "outer" {
		t.Errorf("expected first ref 'outer', got %q", refs[0].QualifiedName)
	}
	if refs[1].QualifiedName != "outer.inner" {
		t.Errorf("expected second ref 'outer.inner', got %q", refs[1].QualifiedName)
	}
}
