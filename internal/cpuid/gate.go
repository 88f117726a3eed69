// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpuid

// Gate guards every leaf access with the maxima reported by leaf 0 and leaf
// 0x80000000. Querying past those maxima returns undefined data on some CPUs,
// so callers go through Query/QuerySub and treat a false result as "absent".
type Gate struct {
	q           Querier
	base        Leaf
	maxExtended uint32
}

// NewGate reads the two baseline leaves. When leaf 0 reports no standard
// leaves the extended range is not probed at all.
func NewGate(q Querier) *Gate {
	g := &Gate{q: q}
	g.base = q.CPUID(LeafMaxStandard, 0)
	if g.base.EAX == 0 {
		return g
	}
	g.maxExtended = q.CPUID(LeafMaxExtended, 0).EAX
	return g
}

// Base returns the registers of leaf 0.
func (g *Gate) Base() Leaf {
	return g.base
}

// MaxStandard returns the highest supported standard leaf.
func (g *Gate) MaxStandard() uint32 {
	return g.base.EAX
}

// MaxExtended returns the highest supported extended leaf, or 0 when the
// extended range was not probed or is not implemented.
func (g *Gate) MaxExtended() uint32 {
	if g.maxExtended < LeafMaxExtended {
		return 0
	}
	return g.maxExtended
}

// Supports reports whether leaf can be queried safely.
func (g *Gate) Supports(leaf uint32) bool {
	if leaf >= LeafMaxExtended {
		return g.MaxExtended() != 0 && leaf <= g.maxExtended
	}
	return leaf <= g.base.EAX
}

// Query issues CPUID for leaf with sub-leaf 0 if the leaf is supported.
func (g *Gate) Query(leaf uint32) (Leaf, bool) {
	return g.QuerySub(leaf, 0)
}

// QuerySub issues CPUID for leaf and subleaf if the leaf is supported.
func (g *Gate) QuerySub(leaf, subleaf uint32) (Leaf, bool) {
	if !g.Supports(leaf) {
		return Leaf{}, false
	}
	return g.q.CPUID(leaf, subleaf), true
}

// XCR reads extended control register index. Callers must only do this after
// CPUID reported OSXSAVE, otherwise XGETBV faults.
func (g *Gate) XCR(index uint32) uint64 {
	return g.q.XGetBV(index)
}
