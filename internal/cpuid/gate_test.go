// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateEmptyCPUOnlyQueriesLeafZero(t *testing.T) {
	r := NewReplay(map[Key]Leaf{
		{LeafMaxExtended, 0}: {EAX: 0x80000008},
	}, 0)
	g := NewGate(r)
	assert.Equal(t, uint32(0), g.MaxStandard())
	assert.Equal(t, uint32(0), g.MaxExtended())
	assert.Equal(t, []Key{{LeafMaxStandard, 0}}, r.Queried())

	for _, leaf := range []uint32{LeafSignature, LeafExtFeatures, LeafMaxExtended, LeafExtSignature, LeafBrandLast} {
		_, ok := g.Query(leaf)
		assert.False(t, ok, "leaf 0x%x", leaf)
	}
	assert.Equal(t, []Key{{LeafMaxStandard, 0}}, r.Queried())
}

func TestGateSupports(t *testing.T) {
	tests := []struct {
		name        string
		maxStandard uint32
		maxExtended uint32
		leaf        uint32
		want        bool
	}{
		{name: "leaf zero always", maxStandard: 1, maxExtended: 0, leaf: 0, want: true},
		{name: "standard in range", maxStandard: 0x16, maxExtended: 0x80000008, leaf: 0x16, want: true},
		{name: "standard past max", maxStandard: 0x0d, maxExtended: 0x80000008, leaf: 0x16, want: false},
		{name: "extended in range", maxStandard: 1, maxExtended: 0x80000004, leaf: 0x80000004, want: true},
		{name: "extended past max", maxStandard: 1, maxExtended: 0x80000001, leaf: 0x80000002, want: false},
		{name: "extended not implemented", maxStandard: 1, maxExtended: 0, leaf: 0x80000000, want: false},
		{name: "extended garbage max", maxStandard: 1, maxExtended: 0x00000400, leaf: 0x80000001, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReplay(map[Key]Leaf{
				{LeafMaxStandard, 0}: {EAX: tt.maxStandard},
				{LeafMaxExtended, 0}: {EAX: tt.maxExtended},
			}, 0)
			g := NewGate(r)
			assert.Equal(t, tt.want, g.Supports(tt.leaf))
		})
	}
}

func TestGateQueryPassesSubleaf(t *testing.T) {
	r := NewReplay(map[Key]Leaf{
		{LeafMaxStandard, 0}: {EAX: 7},
		{LeafExtFeatures, 0}: {EBX: 0x20},
		{LeafExtFeatures, 1}: {EAX: 0x20},
	}, 0)
	g := NewGate(r)

	l, ok := g.QuerySub(LeafExtFeatures, 1)
	require.True(t, ok)
	assert.Equal(t, Leaf{EAX: 0x20}, l)

	l, ok = g.Query(LeafExtFeatures)
	require.True(t, ok)
	assert.Equal(t, Leaf{EBX: 0x20}, l)
}

func TestGateLeafOnlyBaseline(t *testing.T) {
	// leaf 1 only, no extended range
	r := NewReplay(map[Key]Leaf{
		{LeafMaxStandard, 0}: {EAX: 1},
		{LeafSignature, 0}:   {EAX: 0x0633},
	}, 0)
	g := NewGate(r)
	assert.True(t, g.Supports(LeafSignature))
	assert.False(t, g.Supports(LeafExtFeatures))
	assert.False(t, g.Supports(LeafExtSignature))
	assert.Equal(t, []Key{{LeafMaxStandard, 0}, {LeafMaxExtended, 0}}, r.Queried())
}

func TestBitAndField(t *testing.T) {
	assert.True(t, Bit(0x80000000, 31))
	assert.False(t, Bit(0x7fffffff, 31))
	assert.Equal(t, uint32(0x7), Field(0x1c000000, 26, 3))
	assert.Equal(t, uint32(0xe), Field(0x000506e3, 4, 4))
}

func TestReplayXCR(t *testing.T) {
	r := NewReplay(nil, 0xe7)
	assert.Equal(t, uint64(0xe7), r.XGetBV(0))
	assert.Equal(t, uint64(0), r.XGetBV(1))
	assert.Equal(t, 2, r.XCRReads())
}
