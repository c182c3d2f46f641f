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

// Package clone implements the semantic clone detection pipeline: it
// collects source files, extracts functions, generates snippets at
// multiple granularities, embeds them, retrieves near-duplicate
// candidates, and rolls the candidates up into findings and clusters.
//
// The pipeline is orchestrated by Pipeline.Run, which drives the stages
// in order:
//
//	collect -> extract -> generate snippets -> embed (cache-first) ->
//	retrieve candidates -> roll up -> cluster
//
// Every stage is deterministic given the same input tree and Config: file
// listing order does not matter, but extraction, snippet generation and
// rollup all produce stable, reproducible orderings.
package clone
