// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-only

package clone

import "testing"

func fn(path, name string, start, end int) FunctionRef {
	return FunctionRef{Path: path, QualifiedName: name, StartLine: start, EndLine: end, Language: LangGo}
}

func TestUnionFindPathHalving(t *testing.T) {
	uf := newUnionFind()
	uf.union("a", "b")
	uf.union("b", "c")
	uf.union("d", "e")

	if uf.find("a") != uf.find("c") {
		t.Error("a and c should be in the same component")
	}
	if uf.find("a") == uf.find("d") {
		t.Error("a and d should be in different components")
	}
}

func TestClusterFindingsEmpty(t *testing.T) {
	if got := clusterFindings(nil); got != nil {
		t.Errorf("clusterFindings(nil) = %v, want nil", got)
	}
}

func TestClusterFindingsAssignsSequentialIDsInFirstAppearanceOrder(t *testing.T) {
	a := fn("a.go", "Handle", 1, 10)
	b := fn("b.go", "Handle", 1, 10)
	c := fn("c.go", "Handle", 1, 10)
	d := fn("d.go", "Other", 1, 10)
	e := fn("e.go", "Other", 1, 10)

	findings := []Finding{
		{FunctionA: a, FunctionB: b},
		{FunctionA: d, FunctionB: e},
		{FunctionA: b, FunctionB: c},
	}
	out := clusterFindings(findings)

	if out[0].ClusterID != 1 {
		t.Errorf("first finding should get cluster 1, got %d", out[0].ClusterID)
	}
	if out[1].ClusterID != 2 {
		t.Errorf("second finding (disjoint component) should get cluster 2, got %d", out[1].ClusterID)
	}
	if out[2].ClusterID != 1 {
		t.Errorf("third finding shares a's component via b-c, should get cluster 1, got %d", out[2].ClusterID)
	}
}

func TestFilterClustersCountsFindingsNotFunctions(t *testing.T) {
	// A 3-function cluster (A-B, B-C) produces 2 findings sharing one
	// cluster ID; filterClusters(3) must drop both since the cluster
	// has only 2 findings, even though it has 3 distinct functions.
	a := fn("a.go", "Handle", 1, 10)
	b := fn("b.go", "Handle", 1, 10)
	c := fn("c.go", "Handle", 1, 10)

	findings := clusterFindings([]Finding{
		{FunctionA: a, FunctionB: b},
		{FunctionA: b, FunctionB: c},
	})

	kept := filterClusters(findings, 3)
	if len(kept) != 0 {
		t.Errorf("expected 0 findings kept (2 findings < minSize 3), got %d", len(kept))
	}

	kept2 := filterClusters(findings, 2)
	if len(kept2) != 2 {
		t.Errorf("expected 2 findings kept (2 findings >= minSize 2), got %d", len(kept2))
	}
}

func TestFilterClustersMinSizeOneOrLessIsNoOp(t *testing.T) {
	findings := []Finding{{ClusterID: 1}}
	if got := filterClusters(findings, 1); len(got) != 1 {
		t.Errorf("minSize=1 should keep all findings, got %d", len(got))
	}
	if got := filterClusters(findings, 0); len(got) != 1 {
		t.Errorf("minSize=0 should keep all findings, got %d", len(got))
	}
}
