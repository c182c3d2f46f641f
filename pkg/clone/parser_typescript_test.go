// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import "testing"

func TestTypeScriptExtractorFunctionDeclaration(t *testing.T) {
	src := "function add(a: number, b: number): number {\n  return a + b;\n}\n"
	refs, err := NewTypeScriptExtractor(LangTypeScript).Extract(FileRef{Path: "a.ts"}, src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(refs) != 1 || refs[0].QualifiedName != "add" {
		t.Fatalf("expected single function 'add', got %v", refs)
	}
	if refs[0].Language != LangTypeScript {
		t.Errorf("expected LangTypeScript, got %v", refs[0].Language)
	}
}

func TestTypeScriptExtractorNamedArrowFunction(t *testing.T) {
	src := "const add = (a: number, b: number) => a + b;\n"
	refs, err := NewTypeScriptExtractor(LangTypeScript).Extract(FileRef{Path: "a.ts"}, src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(refs) != 1 || refs[0].QualifiedName != "add" {
		t.Fatalf("expected named arrow function 'add', got %v", refs)
	}
}

func TestTypeScriptExtractorAnonymousArrowFunctionGetsGeneratedName(t *testing.T) {
	src := "setTimeout(() => {\n  doWork();\n}, 100);\n"
	refs, err := NewTypeScriptExtractor(LangJavaScript).Extract(FileRef{Path: "a.js"}, src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 anonymous arrow function, got %d: %v", len(refs), refs)
	}
	if refs[0].QualifiedName != "$anon_1" {
		t.Errorf("expected '$anon_1', got %q", refs[0].QualifiedName)
	}
	if refs[0].Language != LangJavaScript {
		t.Errorf("expected LangJavaScript, got %v", refs[0].Language)
	}
}

func TestTypeScriptExtractorMethodDefinition(t *testing.T) {
	src := "class Server {\n  handle() {\n    return 1;\n  }\n}\n"
	refs, err := NewTypeScriptExtractor(LangTypeScript).Extract(FileRef{Path: "a.ts"}, src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(refs) != 1 || refs[0].QualifiedName != "handle" {
		t.Fatalf("expected method 'handle', got %v", refs)
	}
}
