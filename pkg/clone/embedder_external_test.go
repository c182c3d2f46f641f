// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestExternalEmbedderSuccessfulRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req externalEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		vectors := make([][]float32, len(req.Texts))
		for i := range req.Texts {
			vectors[i] = []float32{float32(i), 0, 0}
		}
		json.NewEncoder(w).Encode(externalEmbedResponse{Vectors: vectors})
	}))
	defer srv.Close()

	e := NewExternalEmbedder(srv.URL, "test-model", "main", 256, DefaultRetryConfig())
	out, err := e.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(out))
	}
	if out[1][0] != 1 {
		t.Errorf("expected second vector's first element to be 1, got %v", out[1][0])
	}
}

func TestExternalEmbedderRetriesTransientFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(externalEmbedResponse{Vectors: [][]float32{{1, 2, 3}}})
	}))
	defer srv.Close()

	retry := RetryConfig{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond, Multiplier: 2}
	e := NewExternalEmbedder(srv.URL, "m", "main", 256, retry)
	out, err := e.Embed(context.Background(), []string{"x"})
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts before success, got %d", calls)
	}
	if len(out) != 1 || out[0][0] != 1 {
		t.Errorf("unexpected output: %v", out)
	}
}

func TestExternalEmbedderExhaustsRetriesAndReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	retry := RetryConfig{MaxRetries: 1, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, Multiplier: 1}
	e := NewExternalEmbedder(srv.URL, "m", "main", 256, retry)
	_, err := e.Embed(context.Background(), []string{"x"})
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
}

func TestExternalEmbedderNameRevisionMaxLength(t *testing.T) {
	e := NewExternalEmbedder("http://example.invalid", "my-model", "rev7", 128, DefaultRetryConfig())
	if e.Name() != "my-model" {
		t.Errorf("Name() = %q, want my-model", e.Name())
	}
	if e.Revision() != "rev7" {
		t.Errorf("Revision() = %q, want rev7", e.Revision())
	}
	if e.MaxLength() != 128 {
		t.Errorf("MaxLength() = %d, want 128", e.MaxLength())
	}
}
