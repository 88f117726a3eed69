// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package requirement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpuprobe/internal/cpuinfo"
	"cpuprobe/internal/cpus"
	"cpuprobe/internal/simd"
)

func zen2() cpuinfo.Descriptor {
	return cpuinfo.Descriptor{
		Vendor:    cpus.VendorAMD,
		Signature: cpus.ParseSignature(0x00870F10),
		Model:     cpus.Model{Uarch: cpus.UarchZen2, Byte: 0x71},
		LongMode:  true,
		Features: simd.Flags{
			SIMD: simd.SSE | simd.SSE2 | simd.SSE3 | simd.SSSE3 | simd.SSE41 | simd.SSE42 | simd.SSE4A | simd.AVX | simd.AVX2 | simd.FMA3,
		},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want bool
	}{
		{name: "single feature", expr: "AVX2", want: true},
		{name: "conjunction", expr: "AVX2 && FMA3 && SSE41", want: true},
		{name: "missing feature", expr: "AVX2 && AVX512F", want: false},
		{name: "disjunction", expr: "AVX512F || SSE4A", want: true},
		{name: "negation", expr: "!XOP", want: true},
		{name: "vendor", expr: "Vendor == 'AMD'", want: true},
		{name: "uarch", expr: "Microarchitecture == 'Zen 2'", want: true},
		{name: "literal first", expr: "'Intel' != Vendor", want: true},
		{name: "long mode", expr: "LongMode", want: true},
		{name: "family", expr: "Family == 0x17", want: true},
		{name: "model", expr: "Model >= 0x70 && Model < 0x80", want: true},
		{name: "frequency not reported", expr: "MaxMHz > 0", want: false},
		{name: "underscore name", expr: "AVX512_4VNNIW", want: false},
		{name: "brackets", expr: "[SSE4A] && [AVX]", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr, zen2())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		errText string
	}{
		{name: "empty", expr: "  ", errText: "empty"},
		{name: "unknown identifier", expr: "AVX2 && AVX3 && NEON", errText: "AVX3, NEON"},
		{name: "syntax", expr: "AVX2 &&", errText: "failed to parse"},
		{name: "misspelled vendor", expr: "Vendor == 'Intell'", errText: `unknown vendor "Intell"`},
		{name: "vendor case", expr: "AVX2 && Vendor != 'amd'", errText: `must be written "AMD"`},
		{name: "unknown uarch", expr: "'Zen5' == Microarchitecture", errText: "microarchitecture not found: Zen5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.expr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestEvaluateNonBoolean(t *testing.T) {
	_, err := Evaluate("BaseMHz + 1", zen2())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a boolean")
}

func TestMissing(t *testing.T) {
	r, err := Parse("AVX2 && (AVX512F || AVX512BW) && BaseMHz >= 0")
	require.NoError(t, err)
	assert.Equal(t, []string{"AVX512F", "AVX512BW"}, r.Missing(zen2()))
	assert.Empty(t, r.Missing(cpuinfo.Descriptor{Features: simd.Flags{SIMD: simd.AVX2, AVX512: simd.AVX512F | simd.AVX512BW}}))
}

func TestVariableNames(t *testing.T) {
	names := VariableNames()
	assert.Len(t, names, len(simd.Features())+8)
	assert.Contains(t, names, "AVX512F")
	assert.Contains(t, names, VarMicroarchitecture)
	assert.IsIncreasing(t, names)
}

func TestEmptyDescriptor(t *testing.T) {
	got, err := Evaluate("SSE2 || Vendor == 'Unknown'", cpuinfo.Descriptor{})
	require.NoError(t, err)
	assert.True(t, got)
}
