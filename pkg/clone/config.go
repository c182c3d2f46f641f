// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package clone

import "fmt"

// WindowConfig controls sliding-window (WIN) snippet generation.
type WindowConfig struct {
	WindowLines int `yaml:"window_lines"`
	StrideLines int `yaml:"stride_lines"`
	MinNonEmpty int `yaml:"min_nonempty"`
}

// ExpansionConfig controls call-expansion (EXP) snippet generation.
type ExpansionConfig struct {
	MaxDepth int `yaml:"max_depth"`
	MaxChars int `yaml:"max_chars"`
}

// ThresholdConfig controls per-kind similarity gates and rollup rules.
type ThresholdConfig struct {
	FuncThreshold    float64 `yaml:"func_threshold"`
	WinThreshold     float64 `yaml:"win_threshold"`
	ExpThreshold     float64 `yaml:"exp_threshold"`
	MinWindowHits    int     `yaml:"min_window_hits"`
	LexicalMinRatio  float64 `yaml:"lexical_min_ratio"`
	LexicalWeight    float64 `yaml:"lexical_weight"`
}

// IndexConfig selects and tunes the vector index backend.
type IndexConfig struct {
	Name             string `yaml:"name"` // "brute" or "approx"
	TopK             int    `yaml:"top_k"`
	ApproxNList      int    `yaml:"approx_nlist"`
	ApproxNProbe     int    `yaml:"approx_nprobe"`
	RetrievalWorkers int    `yaml:"retrieval_workers"` // 0 = runtime.NumCPU()-1, floor 1
}

// EmbedderConfig selects and tunes the embedder.
type EmbedderConfig struct {
	Name      string `yaml:"name"` // "stub" or "external"
	ModelName string `yaml:"model_name"`
	Revision  string `yaml:"revision"`
	MaxLength int    `yaml:"max_length"`
	BatchSize int    `yaml:"batch_size"`
	Dimension int     `yaml:"dimension"`
	EndpointURL string `yaml:"endpoint_url"` // only used by the external embedder
}

// Config is the full, immutable pipeline configuration for one run.
type Config struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	Window     WindowConfig    `yaml:"window"`
	Expansion  ExpansionConfig `yaml:"expansion"`
	Threshold  ThresholdConfig `yaml:"threshold"`
	Index      IndexConfig     `yaml:"index"`
	Embedder   EmbedderConfig  `yaml:"embedder"`

	CacheDir string `yaml:"cache_dir"`

	ClusterFindings bool `yaml:"cluster_findings"`
	ClusterMinSize  int  `yaml:"cluster_min_size"`
}

// DefaultConfig returns the spec-mandated default configuration.
func DefaultConfig() Config {
	return Config{
		Include: []string{"**/*"},
		Exclude: nil,
		Window: WindowConfig{
			WindowLines: 40,
			StrideLines: 6,
			MinNonEmpty: 4,
		},
		Expansion: ExpansionConfig{
			MaxDepth: 2,
			MaxChars: 4000,
		},
		Threshold: ThresholdConfig{
			FuncThreshold:   0.92,
			WinThreshold:    0.90,
			ExpThreshold:    0.90,
			MinWindowHits:   2,
			LexicalMinRatio: 0.5,
			LexicalWeight:   0.3,
		},
		Index: IndexConfig{
			Name:             "brute",
			TopK:             25,
			ApproxNList:      128,
			ApproxNProbe:     8,
			RetrievalWorkers: 0,
		},
		Embedder: EmbedderConfig{
			Name:      "stub",
			ModelName: "microsoft/codebert-base",
			Revision:  "main",
			MaxLength: 256,
			BatchSize: 16,
			Dimension: 16,
		},
		CacheDir:        "~/.cache/clonehunter",
		ClusterFindings: false,
		ClusterMinSize:  2,
	}
}

// Validate checks the configuration for internally inconsistent values.
func (c Config) Validate() error {
	if c.Window.WindowLines <= 0 {
		return fmt.Errorf("window.window_lines must be positive, got %d", c.Window.WindowLines)
	}
	if c.Window.StrideLines <= 0 {
		return fmt.Errorf("window.stride_lines must be positive, got %d", c.Window.StrideLines)
	}
	if c.Threshold.MinWindowHits <= 0 {
		return fmt.Errorf("threshold.min_window_hits must be positive, got %d", c.Threshold.MinWindowHits)
	}
	if c.Threshold.LexicalWeight < 0 || c.Threshold.LexicalWeight > 1 {
		return fmt.Errorf("threshold.lexical_weight must be in [0,1], got %f", c.Threshold.LexicalWeight)
	}
	if c.Index.Name != "brute" && c.Index.Name != "approx" {
		return fmt.Errorf("index.name must be 'brute' or 'approx', got %q", c.Index.Name)
	}
	if c.Index.TopK <= 0 {
		return fmt.Errorf("index.top_k must be positive, got %d", c.Index.TopK)
	}
	if c.Embedder.Name != "stub" && c.Embedder.Name != "external" {
		return fmt.Errorf("embedder.name must be 'stub' or 'external', got %q", c.Embedder.Name)
	}
	return nil
}
