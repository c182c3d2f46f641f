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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsClone holds Prometheus metrics for the clone-detection pipeline.
type metricsClone struct {
	once sync.Once

	filesCollected      prometheus.Counter
	functionsExtracted  prometheus.Counter
	snippetsGenerated   prometheus.Counter
	snippetsFunc        prometheus.Counter
	snippetsWin         prometheus.Counter
	snippetsExp         prometheus.Counter

	embedCacheHits   prometheus.Counter
	embedCacheMisses prometheus.Counter
	embedRetries     prometheus.Counter
	embedErrors      prometheus.Counter

	candidatesFound prometheus.Counter
	findingsEmitted prometheus.Counter
	clustersEmitted prometheus.Counter

	collectDuration   prometheus.Histogram
	extractDuration   prometheus.Histogram
	generateDuration  prometheus.Histogram
	embedDuration     prometheus.Histogram
	similarityDuration prometheus.Histogram
	scanDuration      prometheus.Histogram
}

var cloneMetrics metricsClone

func (m *metricsClone) init() {
	m.once.Do(func() {
		m.filesCollected = prometheus.NewCounter(prometheus.CounterOpts{Name: "clonehunter_files_collected_total", Help: "Source files collected for scanning"})
		m.functionsExtracted = prometheus.NewCounter(prometheus.CounterOpts{Name: "clonehunter_functions_extracted_total", Help: "Functions/methods extracted from source files"})
		m.snippetsGenerated = prometheus.NewCounter(prometheus.CounterOpts{Name: "clonehunter_snippets_generated_total", Help: "Snippets generated across all kinds"})
		m.snippetsFunc = prometheus.NewCounter(prometheus.CounterOpts{Name: "clonehunter_snippets_func_total", Help: "FUNC-kind snippets generated"})
		m.snippetsWin = prometheus.NewCounter(prometheus.CounterOpts{Name: "clonehunter_snippets_win_total", Help: "WIN-kind snippets generated"})
		m.snippetsExp = prometheus.NewCounter(prometheus.CounterOpts{Name: "clonehunter_snippets_exp_total", Help: "EXP-kind snippets generated"})

		m.embedCacheHits = prometheus.NewCounter(prometheus.CounterOpts{Name: "clonehunter_embed_cache_hits_total", Help: "Embedding cache hits"})
		m.embedCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{Name: "clonehunter_embed_cache_misses_total", Help: "Embedding cache misses"})
		m.embedRetries = prometheus.NewCounter(prometheus.CounterOpts{Name: "clonehunter_embed_retries_total", Help: "External embedder request retries"})
		m.embedErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "clonehunter_embed_errors_total", Help: "External embedder requests that exhausted retries"})

		m.candidatesFound = prometheus.NewCounter(prometheus.CounterOpts{Name: "clonehunter_candidates_found_total", Help: "Candidate matches surfaced by retrieval before rollup"})
		m.findingsEmitted = prometheus.NewCounter(prometheus.CounterOpts{Name: "clonehunter_findings_emitted_total", Help: "Findings emitted after rollup"})
		m.clustersEmitted = prometheus.NewCounter(prometheus.CounterOpts{Name: "clonehunter_clusters_emitted_total", Help: "Distinct clusters emitted when clustering is enabled"})

		buckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}
		m.collectDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "clonehunter_collect_seconds", Help: "Duration of the file-collection stage", Buckets: buckets})
		m.extractDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "clonehunter_extract_seconds", Help: "Duration of the function-extraction stage", Buckets: buckets})
		m.generateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "clonehunter_generate_seconds", Help: "Duration of the snippet-generation stage", Buckets: buckets})
		m.embedDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "clonehunter_embed_seconds", Help: "Duration of the embedding stage", Buckets: buckets})
		m.similarityDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "clonehunter_similarity_seconds", Help: "Duration of retrieval, rollup, and clustering", Buckets: buckets})
		m.scanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "clonehunter_scan_seconds", Help: "Duration of a full pipeline run", Buckets: buckets})

		prometheus.MustRegister(
			m.filesCollected, m.functionsExtracted, m.snippetsGenerated,
			m.snippetsFunc, m.snippetsWin, m.snippetsExp,
			m.embedCacheHits, m.embedCacheMisses, m.embedRetries, m.embedErrors,
			m.candidatesFound, m.findingsEmitted, m.clustersEmitted,
			m.collectDuration, m.extractDuration, m.generateDuration,
			m.embedDuration, m.similarityDuration, m.scanDuration,
		)
	})
}

func recordEmbedRetry() { cloneMetrics.init(); cloneMetrics.embedRetries.Inc() }
func recordEmbedError()  { cloneMetrics.init(); cloneMetrics.embedErrors.Inc() }

func recordSnippetKind(kind SnippetKind) {
	cloneMetrics.init()
	cloneMetrics.snippetsGenerated.Inc()
	switch kind {
	case KindFunc:
		cloneMetrics.snippetsFunc.Inc()
	case KindWin:
		cloneMetrics.snippetsWin.Inc()
	case KindExp:
		cloneMetrics.snippetsExp.Inc()
	}
}

func recordScanCounts(stats ScanStats) {
	cloneMetrics.init()
	cloneMetrics.filesCollected.Add(float64(stats.FilesCollected))
	cloneMetrics.functionsExtracted.Add(float64(stats.FunctionsExtracted))
	cloneMetrics.embedCacheHits.Add(float64(stats.CacheHits))
	cloneMetrics.embedCacheMisses.Add(float64(stats.CacheMisses))
	cloneMetrics.candidatesFound.Add(float64(stats.CandidatesFound))
	cloneMetrics.findingsEmitted.Add(float64(stats.FindingsEmitted))
	cloneMetrics.clustersEmitted.Add(float64(stats.ClustersEmitted))
}

func observeStageDuration(hist prometheus.Histogram, seconds float64) {
	cloneMetrics.init()
	hist.Observe(seconds)
}
