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

import "sort"

// ApproxIndex is a from-scratch inverted-file (IVF) approximate index:
// vectors are clustered into NList coarse centroids by k-means, and a
// query only scans the NProbe centroids nearest the query vector. Below
// NList vectors there aren't enough points to train a meaningful
// quantizer, so Build falls back to an exact flat scan -- the same
// fallback shape a CGO-backed ANN library would need when the corpus is
// too small to train.
type ApproxIndex struct {
	nlist  int
	nprobe int

	flat       *BruteIndex // used when len(vectors) < nlist
	centroids  [][]float32
	clusterIDs [][]int // cluster -> index into ids/vectors
	ids        []string
	vectors    [][]float32
}

// NewApproxIndex builds an empty ApproxIndex with nlist coarse
// centroids, probing nprobe of them per query.
func NewApproxIndex(nlist, nprobe int) *ApproxIndex {
	if nlist <= 0 {
		nlist = 128
	}
	if nprobe <= 0 {
		nprobe = 8
	}
	return &ApproxIndex{nlist: nlist, nprobe: nprobe}
}

func (a *ApproxIndex) Build(vectors [][]float32, ids []string) {
	a.flat = nil
	a.centroids = nil
	a.clusterIDs = nil
	a.ids = ids
	a.vectors = vectors

	if len(vectors) < a.nlist {
		a.flat = NewBruteIndex()
		a.flat.Build(vectors, ids)
		return
	}

	a.centroids, a.clusterIDs = kmeansTrain(vectors, a.nlist)
}

func (a *ApproxIndex) Query(vector []float32, k int) []scoredID {
	if a.flat != nil {
		return a.flat.Query(vector, k)
	}
	if len(a.centroids) == 0 {
		return nil
	}

	type centroidDist struct {
		idx   int
		score float64
	}
	dists := make([]centroidDist, len(a.centroids))
	for i, c := range a.centroids {
		dists[i] = centroidDist{idx: i, score: cosineSimilarity(vector, c)}
	}
	sort.Slice(dists, func(i, j int) bool { return dists[i].score > dists[j].score })

	nprobe := a.nprobe
	if nprobe > len(dists) {
		nprobe = len(dists)
	}

	var scored []scoredID
	for _, d := range dists[:nprobe] {
		for _, memberIdx := range a.clusterIDs[d.idx] {
			scored = append(scored, scoredID{
				ID:    a.ids[memberIdx],
				Score: cosineSimilarity(vector, a.vectors[memberIdx]),
			})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// kmeansTrain runs a fixed number of Lloyd's-algorithm iterations over
// cosine distance to produce nlist centroids, then assigns every vector
// to its nearest centroid.
func kmeansTrain(vectors [][]float32, nlist int) ([][]float32, [][]int) {
	const iterations = 10
	if len(vectors) == 0 {
		return nil, nil
	}
	dim := len(vectors[0])

	centroids := make([][]float32, nlist)
	for i := range centroids {
		src := vectors[(i*len(vectors))/nlist]
		centroids[i] = append([]float32(nil), src...)
	}

	assignment := make([]int, len(vectors))
	for iter := 0; iter < iterations; iter++ {
		for vi, v := range vectors {
			best, bestScore := 0, -2.0
			for ci, c := range centroids {
				if s := cosineSimilarity(v, c); s > bestScore {
					best, bestScore = ci, s
				}
			}
			assignment[vi] = best
		}

		sums := make([][]float64, nlist)
		counts := make([]int, nlist)
		for i := range sums {
			sums[i] = make([]float64, dim)
		}
		for vi, v := range vectors {
			c := assignment[vi]
			counts[c]++
			for d := 0; d < dim && d < len(v); d++ {
				sums[c][d] += float64(v[d])
			}
		}
		for c := 0; c < nlist; c++ {
			if counts[c] == 0 {
				continue
			}
			newCentroid := make([]float32, dim)
			for d := 0; d < dim; d++ {
				newCentroid[d] = float32(sums[c][d] / float64(counts[c]))
			}
			centroids[c] = newCentroid
		}
	}

	clusters := make([][]int, nlist)
	for vi := range vectors {
		c := assignment[vi]
		clusters[c] = append(clusters[c], vi)
	}
	return centroids, clusters
}
