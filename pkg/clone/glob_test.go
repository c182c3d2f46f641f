// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import "testing"

func TestMatchesGlob(t *testing.T) {
	tests := []struct {
		path, pattern string
		want          bool
	}{
		{"main.go", "*.go", true},
		{"pkg/clone/main.go", "*.go", true},
		{"main.py", "*.go", false},
		{"a/b/c.go", "**/*.go", true},
		{"c.go", "**/*.go", true},
		{"vendor/foo/bar.go", "vendor/**", true},
		{"vendor", "vendor/**", true},
		{"vendorish/bar.go", "vendor/**", false},
		{"a/x/b/file.go", "a/**/b/*.go", true},
		{"a/b/file.go", "a/**/b/*.go", true},
		{"a/b/file.txt", "a/**/b/*.go", false},
	}
	for _, tt := range tests {
		if got := matchesGlob(tt.path, tt.pattern); got != tt.want {
			t.Errorf("matchesGlob(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
		}
	}
}

func TestMatchesAny(t *testing.T) {
	if matchesAny("a.go", nil) {
		t.Error("empty pattern list should match nothing")
	}
	if !matchesAny("a.go", []string{"*.py", "*.go"}) {
		t.Error("expected a.go to match *.go among alternatives")
	}
	if matchesAny("a.txt", []string{"*.py", "*.go"}) {
		t.Error("a.txt should not match either pattern")
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"main.go", LangGo},
		{"script.py", LangPython},
		{"app.ts", LangTypeScript},
		{"app.tsx", LangTypeScript},
		{"app.js", LangJavaScript},
		{"app.jsx", LangJavaScript},
		{"README.md", LangText},
		{"Makefile", LangText},
	}
	for _, tt := range tests {
		if got := detectLanguage(tt.path); got != tt.want {
			t.Errorf("detectLanguage(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
