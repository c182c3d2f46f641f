// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import (
	"context"
	"math"
	"testing"
)

func TestStubEmbedderDeterministic(t *testing.T) {
	e := NewStubEmbedder(8)
	v1, err := e.Embed(context.Background(), []string{"func foo() {}"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	v2, err := e.Embed(context.Background(), []string{"func foo() {}"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(v1[0]) != 8 {
		t.Fatalf("expected dim 8, got %d", len(v1[0]))
	}
	for i := range v1[0] {
		if v1[0][i] != v2[0][i] {
			t.Fatalf("expected deterministic output, mismatch at index %d", i)
		}
	}
}

func TestStubEmbedderDiffersForDifferentText(t *testing.T) {
	e := NewStubEmbedder(8)
	out, err := e.Embed(context.Background(), []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	same := true
	for i := range out[0] {
		if out[0][i] != out[1][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different text to produce different vectors")
	}
}

func TestStubEmbedderVectorsAreL2Normalized(t *testing.T) {
	e := NewStubEmbedder(16)
	out, err := e.Embed(context.Background(), []string{"some snippet text"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	var sumSq float64
	for _, v := range out[0] {
		sumSq += float64(v) * float64(v)
	}
	norm := math.Sqrt(sumSq)
	if math.Abs(norm-1.0) > 1e-6 {
		t.Errorf("expected unit-norm vector, got norm %v", norm)
	}
}

func TestNewStubEmbedderDefaultsNonPositiveDim(t *testing.T) {
	e := NewStubEmbedder(0)
	if e.dim != 16 {
		t.Errorf("expected default dim 16, got %d", e.dim)
	}
	e2 := NewStubEmbedder(-5)
	if e2.dim != 16 {
		t.Errorf("expected default dim 16 for negative input, got %d", e2.dim)
	}
}
