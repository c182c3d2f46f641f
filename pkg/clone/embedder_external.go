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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RetryConfig tunes exponential backoff for transient ExternalEmbedder
// failures.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// DefaultRetryConfig mirrors the backoff schedule used for embedding
// providers elsewhere in the stack.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		Multiplier:     2.0,
	}
}

// ExternalEmbedder calls an HTTP batch-embedding endpoint: POST a JSON
// array of texts, receive a JSON array of float32 vectors back. This is
// the real-model counterpart to StubEmbedder for deployments that have
// an embedding service (e.g. a local sentence-transformers server)
// fronting the configured model/revision.
type ExternalEmbedder struct {
	client      *http.Client
	endpointURL string
	model       string
	revision    string
	maxLength   int
	retry       RetryConfig
}

// NewExternalEmbedder builds an ExternalEmbedder targeting endpointURL.
func NewExternalEmbedder(endpointURL, model, revision string, maxLength int, retry RetryConfig) *ExternalEmbedder {
	return &ExternalEmbedder{
		client:      &http.Client{Timeout: 30 * time.Second},
		endpointURL: endpointURL,
		model:       model,
		revision:    revision,
		maxLength:   maxLength,
		retry:       retry,
	}
}

func (e *ExternalEmbedder) Name() string     { return e.model }
func (e *ExternalEmbedder) Revision() string { return e.revision }
func (e *ExternalEmbedder) MaxLength() int   { return e.maxLength }

type externalEmbedRequest struct {
	Model     string   `json:"model"`
	MaxLength int      `json:"max_length"`
	Texts     []string `json:"texts"`
}

type externalEmbedResponse struct {
	Vectors [][]float32 `json:"vectors"`
}

// Embed submits texts as one batch request, retrying every failed
// attempt (transport error, non-200 status, or undecodable response)
// with exponential backoff.
func (e *ExternalEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody, err := json.Marshal(externalEmbedRequest{Model: e.model, MaxLength: e.maxLength, Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	backoff := e.retry.InitialBackoff
	var lastErr error
	for attempt := 0; attempt <= e.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			recordEmbedRetry()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff = time.Duration(float64(backoff) * e.retry.Multiplier)
			if backoff > e.retry.MaxBackoff {
				backoff = e.retry.MaxBackoff
			}
		}

		vectors, err := e.doRequest(ctx, reqBody)
		if err == nil {
			return vectors, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("external embed after %d attempts: %w", e.retry.MaxRetries+1, lastErr)
}

func (e *ExternalEmbedder) doRequest(ctx context.Context, body []byte) ([][]float32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed endpoint returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed externalEmbedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return parsed.Vectors, nil
}
