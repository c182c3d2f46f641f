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

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ProgressFunc is notified as each pipeline stage advances, for CLI
// progress bars. total is 0 when the count isn't known ahead of time.
type ProgressFunc func(stage string, done, total int)

// Pipeline orchestrates a full scan: collect, extract, generate
// snippets, embed, retrieve candidates, roll up, cluster.
type Pipeline struct {
	config   Config
	logger   *slog.Logger
	embedder Embedder
	cache    *EmbeddingCache
	progress ProgressFunc
}

// NewPipeline builds a Pipeline from config. A nil logger falls back to
// slog.Default; a nil progress callback is a no-op.
func NewPipeline(config Config, embedder Embedder, cache *EmbeddingCache, logger *slog.Logger, progress ProgressFunc) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = func(string, int, int) {}
	}
	return &Pipeline{config: config, logger: logger, embedder: embedder, cache: cache, progress: progress}
}

// Run executes a complete scan over root and returns the findings,
// stats, and per-stage timing.
func (p *Pipeline) Run(ctx context.Context, root string) (ScanResult, error) {
	if err := p.config.Validate(); err != nil {
		return ScanResult{}, fmt.Errorf("invalid config: %w", err)
	}

	var timing StageTiming
	stats := ScanStats{SnippetsByKind: map[SnippetKind]int{}}

	start := time.Now()
	collector := NewCollector(p.logger)
	files, err := collector.Collect(root, p.config)
	if err != nil {
		return ScanResult{}, fmt.Errorf("collect files: %w", err)
	}
	timing.CollectSeconds = time.Since(start).Seconds()
	observeStageDuration(cloneMetrics.collectDuration, timing.CollectSeconds)
	stats.FilesCollected = len(files)
	p.progress("collect", len(files), len(files))

	start = time.Now()
	fileSource := make(map[string]string, len(files))
	var pythonFunctions []FunctionRef
	var allFunctions []FunctionRef
	for i, file := range files {
		source, err := ReadSource(root, file)
		if err != nil {
			p.logger.Warn("clone.extract.read_failed", "path", file.Path, "err", err)
			continue
		}
		fileSource[file.Path] = source

		extractor := ExtractorForLanguage(file.Language)
		extracted, err := extractor.Extract(file, source)
		if err != nil {
			p.logger.Warn("clone.extract.parse_failed", "path", file.Path, "err", err)
			continue
		}
		allFunctions = append(allFunctions, extracted...)
		if file.Language == LangPython {
			pythonFunctions = append(pythonFunctions, extracted...)
		}
		p.progress("extract", i+1, len(files))
	}
	timing.ExtractSeconds = time.Since(start).Seconds()
	observeStageDuration(cloneMetrics.extractDuration, timing.ExtractSeconds)
	stats.FunctionsExtracted = len(allFunctions)

	start = time.Now()
	snippets := GenerateFunctionSnippets(allFunctions, fileSource)
	winSnippets, err := GenerateWindowSnippets(allFunctions, fileSource, p.config.Window)
	if err != nil {
		return ScanResult{}, fmt.Errorf("generate window snippets: %w", err)
	}
	snippets = append(snippets, winSnippets...)
	snippets = append(snippets, ExpandCalls(pythonFunctions, fileSource, p.config.Expansion)...)
	for _, s := range snippets {
		recordSnippetKind(s.Kind)
		stats.SnippetsByKind[s.Kind]++
	}
	timing.GenerateSeconds = time.Since(start).Seconds()
	observeStageDuration(cloneMetrics.generateDuration, timing.GenerateSeconds)
	stats.SnippetsGenerated = len(snippets)
	p.progress("generate", len(snippets), len(snippets))

	start = time.Now()
	embeddings, cacheHits, cacheMisses, err := p.embedSnippets(ctx, snippets)
	if err != nil {
		return ScanResult{}, fmt.Errorf("embed snippets: %w", err)
	}
	timing.EmbedSeconds = time.Since(start).Seconds()
	observeStageDuration(cloneMetrics.embedDuration, timing.EmbedSeconds)
	stats.CacheHits = cacheHits
	stats.CacheMisses = cacheMisses

	start = time.Now()
	factory := p.indexFactory()
	workers := p.config.Index.RetrievalWorkers
	candidates := retrieveCandidates(snippets, embeddings, factory, p.config.Threshold, p.config.Index.TopK, workers)
	stats.CandidatesFound = len(candidates)
	p.progress("search", len(snippets), len(snippets))

	findings := rollupFindings(candidates, p.config.Threshold)
	if p.config.ClusterFindings {
		findings = clusterFindings(findings)
		findings = filterClusters(findings, p.config.ClusterMinSize)
		clusterIDs := map[int]bool{}
		for _, f := range findings {
			clusterIDs[f.ClusterID] = true
		}
		stats.ClustersEmitted = len(clusterIDs)
	}
	timing.SimilaritySeconds = time.Since(start).Seconds()
	observeStageDuration(cloneMetrics.similarityDuration, timing.SimilaritySeconds)
	stats.FindingsEmitted = len(findings)

	recordScanCounts(stats)
	totalSeconds := timing.CollectSeconds + timing.ExtractSeconds + timing.GenerateSeconds + timing.EmbedSeconds + timing.SimilaritySeconds
	observeStageDuration(cloneMetrics.scanDuration, totalSeconds)

	p.logger.Info("clone.scan.done",
		"files", stats.FilesCollected,
		"functions", stats.FunctionsExtracted,
		"snippets", stats.SnippetsGenerated,
		"candidates", stats.CandidatesFound,
		"findings", stats.FindingsEmitted,
		"cache_hits", stats.CacheHits,
		"cache_misses", stats.CacheMisses,
		"seconds", totalSeconds,
	)

	return ScanResult{
		Findings:       findings,
		Stats:          stats,
		ConfigSnapshot: p.config,
		Timing:         timing,
	}, nil
}

// embedSnippets resolves each snippet's embedding from cache where
// possible, computing and storing only the misses.
func (p *Pipeline) embedSnippets(ctx context.Context, snippets []SnippetRef) ([]Embedding, int, int, error) {
	model := p.embedder.Name()
	revision := p.embedder.Revision()
	maxLength := p.embedder.MaxLength()

	keyFor := make(map[string]string, len(snippets))
	keys := make([]string, 0, len(snippets))
	for _, s := range snippets {
		key := embedCacheKey(model, revision, maxLength, s.SnippetHash)
		keyFor[s.SnippetHash] = key
		keys = append(keys, key)
	}

	cached, err := p.cache.GetMany(keys)
	if err != nil {
		return nil, 0, 0, err
	}

	var toEmbed []SnippetRef
	cacheHits, cacheMisses := 0, 0
	for _, s := range snippets {
		if _, ok := cached[keyFor[s.SnippetHash]]; ok {
			cacheHits++
		} else {
			cacheMisses++
			toEmbed = append(toEmbed, s)
		}
	}

	if len(toEmbed) > 0 {
		batchSize := p.config.Embedder.BatchSize
		if batchSize <= 0 {
			batchSize = 16
		}
		newEntries := make(map[string][]float32, len(toEmbed))
		for start := 0; start < len(toEmbed); start += batchSize {
			end := start + batchSize
			if end > len(toEmbed) {
				end = len(toEmbed)
			}
			batch := toEmbed[start:end]
			texts := make([]string, len(batch))
			for i, s := range batch {
				texts[i] = s.NormText
			}
			vectors, err := p.embedder.Embed(ctx, texts)
			if err != nil {
				recordEmbedError()
				return nil, 0, 0, fmt.Errorf("embed batch: %w", err)
			}
			for i, s := range batch {
				key := keyFor[s.SnippetHash]
				cached[key] = vectors[i]
				newEntries[key] = vectors[i]
			}
			p.progress("embed", end, len(toEmbed))
		}
		if err := p.cache.SetMany(newEntries, model); err != nil {
			return nil, 0, 0, fmt.Errorf("write embed cache: %w", err)
		}
	}

	embeddings := make([]Embedding, len(snippets))
	for i, s := range snippets {
		embeddings[i] = Embedding{
			SnippetID: s.ID,
			Vector:    cached[keyFor[s.SnippetHash]],
			Model:     model,
			Revision:  revision,
		}
	}
	return embeddings, cacheHits, cacheMisses, nil
}

// indexFactory builds a fresh VectorIndex per config.Index.Name. An
// unrecognized name already failed Config.Validate, so this always
// resolves to brute or approx.
func (p *Pipeline) indexFactory() IndexFactory {
	switch p.config.Index.Name {
	case "approx":
		nlist := p.config.Index.ApproxNList
		nprobe := p.config.Index.ApproxNProbe
		return func() VectorIndex { return NewApproxIndex(nlist, nprobe) }
	default:
		return func() VectorIndex { return NewBruteIndex() }
	}
}
