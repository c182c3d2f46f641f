// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"./a/b.go", "a/b.go"},
		{"/a/b.go", "a/b.go"},
		{"a/./b.go", "a/b.go"},
		{"a/b.go", "a/b.go"},
		{"a\\b.go", "a\\b.go"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHashTextDeterministic(t *testing.T) {
	a := hashText("hello")
	b := hashText("hello")
	c := hashText("world")
	if a != b {
		t.Error("hashText should be deterministic for the same input")
	}
	if a == c {
		t.Error("hashText should differ for different input")
	}
	if len(a) != 64 {
		t.Errorf("expected 64-char hex sha256 digest, got len %d", len(a))
	}
}

func TestSnippetHashSensitiveToEveryField(t *testing.T) {
	base := fn("a.go", "Handle", 1, 10)
	h := snippetHash(base, KindFunc, 1, 10, "text")

	other := fn("b.go", "Handle", 1, 10)
	if snippetHash(other, KindFunc, 1, 10, "text") == h {
		t.Error("changing path should change the hash")
	}
	if snippetHash(base, KindWin, 1, 10, "text") == h {
		t.Error("changing kind should change the hash")
	}
	if snippetHash(base, KindFunc, 2, 10, "text") == h {
		t.Error("changing start line should change the hash")
	}
	if snippetHash(base, KindFunc, 1, 10, "other text") == h {
		t.Error("changing text should change the hash")
	}
}

func TestEmbedCacheKeySensitiveToModelConfig(t *testing.T) {
	h := "abc123"
	k1 := embedCacheKey("model-a", "rev1", 256, h)
	k2 := embedCacheKey("model-b", "rev1", 256, h)
	k3 := embedCacheKey("model-a", "rev2", 256, h)
	k4 := embedCacheKey("model-a", "rev1", 512, h)

	keys := []string{k1, k2, k3, k4}
	for i := range keys {
		for j := range keys {
			if i != j && keys[i] == keys[j] {
				t.Errorf("expected distinct cache keys, got collision between index %d and %d", i, j)
			}
		}
	}
}

func TestSnippetIDFormat(t *testing.T) {
	got := snippetID(KindFunc, "deadbeef")
	want := "FUNC:deadbeef"
	if got != want {
		t.Errorf("snippetID() = %q, want %q", got, want)
	}
}
