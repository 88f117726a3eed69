// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package simd assembles the SIMD and AVX-512 feature masks from CPUID.
package simd

import (
	"cpuprobe/internal/cpuid"
)

// Mask holds general SIMD capabilities, one bit each.
type Mask uint32

const (
	FMA3    Mask = 1 << 2
	FMA4    Mask = 1 << 3
	MMX     Mask = 1 << 4
	SSE     Mask = 1 << 5
	SSE2    Mask = 1 << 6
	SSE3    Mask = 1 << 7
	SSSE3   Mask = 1 << 8
	SSE41   Mask = 1 << 9
	SSE42   Mask = 1 << 10
	SSE4A   Mask = 1 << 11
	XOP     Mask = 1 << 14
	AVX     Mask = 1 << 16
	AVX2    Mask = 1 << 17
	AVX512  Mask = 1 << 18
	XSAVE   Mask = 1 << 24
	OSXSAVE Mask = 1 << 25
)

// Has reports whether every bit of f is set.
func (m Mask) Has(f Mask) bool {
	return m&f == f
}

// AVX512Mask holds AVX-512 sub-features, one bit each.
type AVX512Mask uint32

const (
	AVX512F            AVX512Mask = 1 << 1
	AVX512DQ           AVX512Mask = 1 << 2
	AVX512IFMA         AVX512Mask = 1 << 3
	AVX512PF           AVX512Mask = 1 << 4
	AVX512ER           AVX512Mask = 1 << 5
	AVX512CD           AVX512Mask = 1 << 6
	AVX512BW           AVX512Mask = 1 << 7
	AVX512VL           AVX512Mask = 1 << 8
	GFNI               AVX512Mask = 1 << 9
	AVX512VBMI         AVX512Mask = 1 << 10
	AVX512VBMI2        AVX512Mask = 1 << 11
	AVX512VNNI         AVX512Mask = 1 << 12
	AVX512BITALG       AVX512Mask = 1 << 13
	AVX512VPOPCNTDQ    AVX512Mask = 1 << 14
	AVX5124VNNIW       AVX512Mask = 1 << 16
	AVX5124FMAPS       AVX512Mask = 1 << 17
	AVX512VP2INTERSECT AVX512Mask = 1 << 18
	AVX512BF16         AVX512Mask = 1 << 24
	VPCLMULQDQ         AVX512Mask = 1 << 28
)

// Has reports whether every bit of f is set.
func (m AVX512Mask) Has(f AVX512Mask) bool {
	return m&f == f
}

// Flags is the pair of feature masks read from one CPU.
type Flags struct {
	SIMD   Mask
	AVX512 AVX512Mask
}

// XCR0 state components that must be enabled by the OS
const (
	xcr0Mask       = 0xE6 // SSE, AVX, opmask, ZMM_Hi256, Hi16_ZMM
	xcr0AVX        = 0x06 // SSE, AVX
	xcr0AVX512     = 0xE6
	xsaveAVXField  = 0b111 // XSAVE, OSXSAVE, AVX
	xsaveOSField   = 0b011 // XSAVE, OSXSAVE
	xsaveOnlyField = 0b001 // XSAVE
)

type bit struct {
	n    uint
	mask Mask
}

type bit512 struct {
	n    uint
	mask AVX512Mask
}

var leaf1ECX = []bit{
	{0, SSE3},
	{9, SSSE3},
	{12, FMA3},
	{19, SSE41},
	{20, SSE42},
}

var leaf1EDX = []bit{
	{23, MMX},
	{25, SSE},
	{26, SSE2},
}

var leaf7EBX512 = []bit512{
	{16, AVX512F},
	{17, AVX512DQ},
	{21, AVX512IFMA},
	{26, AVX512PF},
	{27, AVX512ER},
	{28, AVX512CD},
	{30, AVX512BW},
	{31, AVX512VL},
}

var leaf7ECX512 = []bit512{
	{1, AVX512VBMI},
	{6, AVX512VBMI2},
	{8, GFNI},
	{10, VPCLMULQDQ},
	{11, AVX512VNNI},
	{12, AVX512BITALG},
	{14, AVX512VPOPCNTDQ},
}

var leaf7EDX512 = []bit512{
	{2, AVX5124VNNIW},
	{3, AVX5124FMAPS},
	{8, AVX512VP2INTERSECT},
}

var extECX = []bit{
	{6, SSE4A},
	{11, XOP},
	{16, FMA4},
}

var extEDX = []bit{
	{23, MMX},
}

func setBits(reg uint32, bits []bit) (m Mask) {
	for _, b := range bits {
		if cpuid.Bit(reg, b.n) {
			m |= b.mask
		}
	}
	return
}

func setBits512(reg uint32, bits []bit512) (m AVX512Mask) {
	for _, b := range bits {
		if cpuid.Bit(reg, b.n) {
			m |= b.mask
		}
	}
	return
}

// Read builds a gate on q and assembles the feature masks.
func Read(q cpuid.Querier) Flags {
	return Assemble(cpuid.NewGate(q))
}

// Assemble reads the feature masks through g. Each stage stops at the first
// leaf the CPU does not report, so no bit depends on an unsupported leaf.
func Assemble(g *cpuid.Gate) (f Flags) {
	l1, ok := g.Query(cpuid.LeafSignature)
	if !ok {
		return
	}
	f.SIMD |= setBits(l1.ECX, leaf1ECX)
	f.SIMD |= setBits(l1.EDX, leaf1EDX)
	f.SIMD |= osEnabled(g, cpuid.Field(l1.ECX, 26, 3))

	l7, ok := g.Query(cpuid.LeafExtFeatures)
	if !ok {
		return
	}
	if cpuid.Bit(l7.EBX, 3) {
		f.SIMD |= AVX2
	}
	f.AVX512 |= setBits512(l7.EBX, leaf7EBX512)
	f.AVX512 |= setBits512(l7.ECX, leaf7ECX512)
	f.AVX512 |= setBits512(l7.EDX, leaf7EDX512)
	l71, _ := g.QuerySub(cpuid.LeafExtFeatures, 1)
	if cpuid.Bit(l71.EAX, 5) {
		f.AVX512 |= AVX512BF16
	}

	ext, ok := g.Query(cpuid.LeafExtSignature)
	if !ok {
		return
	}
	f.SIMD |= setBits(ext.ECX, extECX)
	f.SIMD |= setBits(ext.EDX, extEDX)
	return
}

// osEnabled decodes leaf 1 ecx bits 26-28 (XSAVE, OSXSAVE, AVX). AVX and
// AVX-512 are only reported when the OS saves their state, which is read
// from XCR0 and only when OSXSAVE says XGETBV is usable.
func osEnabled(g *cpuid.Gate, field uint32) (m Mask) {
	switch field {
	case xsaveAVXField:
		m = OSXSAVE | XSAVE
		switch g.XCR(0) & xcr0Mask {
		case xcr0AVX512:
			m |= AVX | AVX512
		case xcr0AVX:
			m |= AVX
		}
	case xsaveOSField:
		m = OSXSAVE | XSAVE
	case xsaveOnlyField:
		m = XSAVE
	}
	return
}
