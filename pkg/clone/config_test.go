// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig() should validate cleanly, got %v", err)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"zero window lines", func(c *Config) { c.Window.WindowLines = 0 }, true},
		{"negative stride", func(c *Config) { c.Window.StrideLines = -1 }, true},
		{"zero min window hits", func(c *Config) { c.Threshold.MinWindowHits = 0 }, true},
		{"lexical weight above 1", func(c *Config) { c.Threshold.LexicalWeight = 1.5 }, true},
		{"lexical weight below 0", func(c *Config) { c.Threshold.LexicalWeight = -0.1 }, true},
		{"unknown index name", func(c *Config) { c.Index.Name = "faiss" }, true},
		{"zero top k", func(c *Config) { c.Index.TopK = 0 }, true},
		{"unknown embedder name", func(c *Config) { c.Embedder.Name = "openai" }, true},
		{"approx index is valid", func(c *Config) { c.Index.Name = "approx" }, false},
		{"external embedder is valid", func(c *Config) { c.Embedder.Name = "external" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
