// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package simd

import (
	"slices"
	"strings"
)

// Group classifies a feature by the register width it operates on.
type Group string

const (
	GroupMMX    Group = "64-bit"
	Group128    Group = "128-bit"
	Group256    Group = "256-bit"
	Group512    Group = "512-bit"
	GroupXState Group = "state"
)

// Feature names one bit of Flags.
type Feature struct {
	Name        string // identifier, e.g. SSE41
	Description string
	Group       Group
	simd        Mask
	avx512      AVX512Mask
}

// In reports whether flags has the feature.
func (f Feature) In(flags Flags) bool {
	if f.simd != 0 {
		return flags.SIMD.Has(f.simd)
	}
	return flags.AVX512.Has(f.avx512)
}

// IsAVX512 reports whether the feature lives in the AVX-512 mask.
func (f Feature) IsAVX512() bool {
	return f.avx512 != 0
}

var features = []Feature{
	{Name: "MMX", Description: "MultiMedia eXtensions", Group: GroupMMX, simd: MMX},
	{Name: "SSE", Description: "Streaming SIMD Extensions", Group: Group128, simd: SSE},
	{Name: "SSE2", Description: "Streaming SIMD Extensions 2", Group: Group128, simd: SSE2},
	{Name: "SSE3", Description: "Streaming SIMD Extensions 3", Group: Group128, simd: SSE3},
	{Name: "SSSE3", Description: "Supplemental Streaming SIMD Extensions 3", Group: Group128, simd: SSSE3},
	{Name: "SSE41", Description: "Streaming SIMD Extensions 4.1", Group: Group128, simd: SSE41},
	{Name: "SSE42", Description: "Streaming SIMD Extensions 4.2", Group: Group128, simd: SSE42},
	{Name: "SSE4A", Description: "Streaming SIMD Extensions 4a", Group: Group128, simd: SSE4A},
	{Name: "XOP", Description: "eXtended Operations", Group: Group128, simd: XOP},
	{Name: "FMA4", Description: "Four-operand Fused Multiply-Add", Group: Group128, simd: FMA4},
	{Name: "AVX", Description: "Advanced Vector Extensions", Group: Group256, simd: AVX},
	{Name: "AVX2", Description: "Advanced Vector Extensions 2", Group: Group256, simd: AVX2},
	{Name: "FMA3", Description: "Three-operand Fused Multiply-Add", Group: Group256, simd: FMA3},
	{Name: "XSAVE", Description: "Extended state save/restore", Group: GroupXState, simd: XSAVE},
	{Name: "OSXSAVE", Description: "Extended state enabled by the OS", Group: GroupXState, simd: OSXSAVE},
	{Name: "AVX512", Description: "AVX-512 state enabled by the OS", Group: Group512, simd: AVX512},
	{Name: "AVX512F", Description: "AVX-512 Foundation", Group: Group512, avx512: AVX512F},
	{Name: "AVX512DQ", Description: "AVX-512 Doubleword and Quadword", Group: Group512, avx512: AVX512DQ},
	{Name: "AVX512IFMA", Description: "AVX-512 Integer Fused Multiply-Add", Group: Group512, avx512: AVX512IFMA},
	{Name: "AVX512PF", Description: "AVX-512 Prefetch", Group: Group512, avx512: AVX512PF},
	{Name: "AVX512ER", Description: "AVX-512 Exponential and Reciprocal", Group: Group512, avx512: AVX512ER},
	{Name: "AVX512CD", Description: "AVX-512 Conflict Detection", Group: Group512, avx512: AVX512CD},
	{Name: "AVX512BW", Description: "AVX-512 Byte and Word", Group: Group512, avx512: AVX512BW},
	{Name: "AVX512VL", Description: "AVX-512 Vector Length", Group: Group512, avx512: AVX512VL},
	{Name: "GFNI", Description: "Galois Field New Instructions", Group: Group512, avx512: GFNI},
	{Name: "AVX512VBMI", Description: "AVX-512 Vector Byte Manipulation", Group: Group512, avx512: AVX512VBMI},
	{Name: "AVX512VBMI2", Description: "AVX-512 Vector Byte Manipulation 2", Group: Group512, avx512: AVX512VBMI2},
	{Name: "AVX512VNNI", Description: "AVX-512 Vector Neural Network Instructions", Group: Group512, avx512: AVX512VNNI},
	{Name: "AVX512BITALG", Description: "AVX-512 Bit Algorithms", Group: Group512, avx512: AVX512BITALG},
	{Name: "AVX512VPOPCNTDQ", Description: "AVX-512 Vector Population Count", Group: Group512, avx512: AVX512VPOPCNTDQ},
	{Name: "AVX512_4VNNIW", Description: "AVX-512 4-iteration Vector Neural Network Instructions", Group: Group512, avx512: AVX5124VNNIW},
	{Name: "AVX512_4FMAPS", Description: "AVX-512 4-iteration Fused Multiply-Add Single Precision", Group: Group512, avx512: AVX5124FMAPS},
	{Name: "AVX512VP2INTERSECT", Description: "AVX-512 Vector Pair Intersection", Group: Group512, avx512: AVX512VP2INTERSECT},
	{Name: "AVX512BF16", Description: "AVX-512 BFloat16", Group: Group512, avx512: AVX512BF16},
	{Name: "VPCLMULQDQ", Description: "Vector Carry-less Multiplication", Group: Group512, avx512: VPCLMULQDQ},
}

// Features returns every named feature, general SIMD features first.
func Features() []Feature {
	return slices.Clone(features)
}

// SIMDFeatures returns the features of the general SIMD mask.
func SIMDFeatures() []Feature {
	return slices.DeleteFunc(Features(), func(f Feature) bool { return f.IsAVX512() })
}

// AVX512Features returns the features of the AVX-512 mask.
func AVX512Features() []Feature {
	return slices.DeleteFunc(Features(), func(f Feature) bool { return !f.IsAVX512() })
}

// Lookup finds a feature by name, ignoring case.
func Lookup(name string) (Feature, bool) {
	for _, f := range features {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Feature{}, false
}

// Names returns the names of the supported features, in Features order.
func (f Flags) Names() (names []string) {
	for _, feature := range features {
		if feature.In(f) {
			names = append(names, feature.Name)
		}
	}
	return
}
