// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package snapshot

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpuprobe/internal/cpuid"
	"cpuprobe/internal/cpuinfo"
	"cpuprobe/internal/cpus"
	"cpuprobe/internal/simd"
)

func load(t *testing.T, name string) Snapshot {
	t.Helper()
	s, err := Load(filepath.Join("testdata", name))
	require.NoError(t, err)
	return s
}

func TestLoadSkylake(t *testing.T) {
	s := load(t, "skylake-i7-6700k.yaml")
	assert.Equal(t, "Intel Core i7-6700K", s.Source)
	assert.Equal(t, Register64(0x1F), s.XCR0)
	require.Len(t, s.Leaves, 11)
	assert.Equal(t, Leaf{Leaf: 1, EAX: 0x000506E3, EBX: 0x00100800, ECX: 0x7FFAFBBF, EDX: 0xBFEBFBFF}, s.Leaves[1])

	d := cpuinfo.Read(s.Querier())
	assert.Equal(t, cpus.VendorIntel, d.Vendor)
	assert.Equal(t, cpus.Model{Uarch: cpus.UarchSkylake, Byte: 0x5E}, d.Model)
	assert.Equal(t, "Intel(R) Core(TM) i7-6700K CPU @ 4.00GHz", d.ProcessorBrand)
	assert.Equal(t, uint32(4000), d.BaseMHz)
	assert.Equal(t, uint32(4200), d.MaxMHz)
	assert.True(t, d.LongMode)
	assert.True(t, d.Features.SIMD.Has(simd.AVX|simd.AVX2|simd.FMA3))
	assert.False(t, d.Features.SIMD.Has(simd.AVX512))
	assert.Equal(t, simd.AVX512Mask(0), d.Features.AVX512)
}

func TestLoadZen2(t *testing.T) {
	d := cpuinfo.Read(load(t, "zen2-ryzen7-3700x.yaml").Querier())
	assert.Equal(t, cpus.VendorAMD, d.Vendor)
	assert.Equal(t, cpus.Model{Uarch: cpus.UarchZen2, Byte: 0x71}, d.Model)
	assert.Equal(t, "AMD Ryzen 7 3700X 8-Core Processor", d.Brand())
	assert.Equal(t, uint32(0), d.BaseMHz)
	assert.True(t, d.Features.SIMD.Has(simd.SSE4A))
	assert.False(t, d.Features.SIMD.Has(simd.XOP))
}

func TestLoadIceLakeServer(t *testing.T) {
	d := cpuinfo.Read(load(t, "icelake-xeon-8380.yaml").Querier())
	assert.Equal(t, cpus.Model{Uarch: cpus.UarchSunnyCove, Byte: 0x6A}, d.Model)
	assert.Equal(t, "Ice Lake-DE (10+ nm)", d.Model.Description())
	assert.True(t, d.Features.SIMD.Has(simd.AVX512))
	want := simd.AVX512F | simd.AVX512DQ | simd.AVX512IFMA | simd.AVX512CD | simd.AVX512BW | simd.AVX512VL |
		simd.AVX512VBMI | simd.AVX512VBMI2 | simd.GFNI | simd.VPCLMULQDQ | simd.AVX512VNNI | simd.AVX512BITALG | simd.AVX512VPOPCNTDQ
	assert.Equal(t, want, d.Features.AVX512)
	assert.Equal(t, "", d.VendorBrand)
	assert.Equal(t, uint32(2300), d.BaseMHz)
}

func TestLoadLeafOneOnly(t *testing.T) {
	q := load(t, "leaf1-only.yaml").Querier()
	d := cpuinfo.Read(q)
	assert.Equal(t, cpus.Model{Uarch: cpus.UarchPentium6, Byte: 0x03}, d.Model)
	assert.Equal(t, simd.Flags{SIMD: simd.MMX}, d.Features)
	assert.False(t, q.WasQueried(0x7))
	assert.False(t, q.WasQueried(0x80000001))
}

func TestLoadEmpty(t *testing.T) {
	q := load(t, "empty.yaml").Querier()
	assert.Equal(t, cpuinfo.Descriptor{}, cpuinfo.Read(q))
	assert.Equal(t, []cpuid.Key{{Leaf: 0, Subleaf: 0}}, q.Queried())
}

func TestCaptureReplaysIdentically(t *testing.T) {
	for _, name := range []string{"skylake-i7-6700k.yaml", "zen2-ryzen7-3700x.yaml", "icelake-xeon-8380.yaml", "leaf1-only.yaml", "empty.yaml"} {
		t.Run(name, func(t *testing.T) {
			original := load(t, name)
			captured := Capture(original.Querier(), "replay")
			require.NoError(t, captured.Validate())
			assert.Equal(t, cpuinfo.Read(original.Querier()), cpuinfo.Read(captured.Querier()))
		})
	}
}

func TestCaptureIsGated(t *testing.T) {
	q := load(t, "leaf1-only.yaml").Querier()
	s := Capture(q, "gated")
	for _, k := range q.Queried() {
		assert.Contains(t, []uint32{0, 1, 0x80000000}, k.Leaf)
	}
	assert.Equal(t, 0, q.XCRReads())
	assert.Len(t, s.Leaves, 2)
}

func TestCaptureSubleavesAndXCR(t *testing.T) {
	q := cpuid.NewReplay(map[cpuid.Key]cpuid.Leaf{
		{Leaf: 0, Subleaf: 0}:  {EAX: 0x17},
		{Leaf: 1, Subleaf: 0}:  {ECX: 1 << 27},
		{Leaf: 7, Subleaf: 1}:  {EAX: 0x20},
		{Leaf: 23, Subleaf: 2}: {EBX: 0x41},
	}, 0xE7)
	s := Capture(q, "subleaves")
	assert.Equal(t, Register64(0xE7), s.XCR0)
	assert.Equal(t, 1, q.XCRReads())
	assert.Contains(t, s.Leaves, Leaf{Leaf: 7, Subleaf: 1, EAX: 0x20})
	assert.Contains(t, s.Leaves, Leaf{Leaf: 0x17, Subleaf: 2, EBX: 0x41})
	assert.Contains(t, s.Leaves, Leaf{Leaf: 0x17, Subleaf: 3})
	assert.NotContains(t, s.Leaves, Leaf{Leaf: 0x17, Subleaf: 4})
}

func TestCaptureCapsImplausibleMaximum(t *testing.T) {
	q := cpuid.NewReplay(map[cpuid.Key]cpuid.Leaf{
		{Leaf: 0, Subleaf: 0}:          {EAX: 0x0FFFFFFF},
		{Leaf: 0x80000000, Subleaf: 0}: {EAX: 0x8FFFFFFF},
	}, 0)
	s := Capture(q, "capped")
	// leaf 0, 1..0x40, 7/1, 0x17/1..3, 0x80000000..0x80000040
	assert.Len(t, s.Leaves, 1+maxStandardLeaves+1+3+maxExtendedLeaves+1)
}

func TestMarshalRoundTrip(t *testing.T) {
	original := load(t, "zen2-ryzen7-3700x.yaml")
	for _, format := range []string{FormatYAML, FormatJSON} {
		t.Run(format, func(t *testing.T) {
			out, err := original.Marshal(format)
			require.NoError(t, err)
			assert.Contains(t, string(out), "0x00870F10")
			decoded, err := Unmarshal(out, format)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
	_, err := original.Marshal("xml")
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	original := load(t, "skylake-i7-6700k.yaml")
	for _, name := range []string{"cpu.yaml", "cpu.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, original.Save(path))
		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, original, loaded)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
	}{
		{name: "duplicate leaf", format: FormatYAML, data: "leaves:\n- {leaf: 1, subleaf: 0}\n- {leaf: 0x1, subleaf: 0}\n"},
		{name: "bad register", format: FormatYAML, data: "leaves:\n- {leaf: 1, eax: zz}\n"},
		{name: "register too wide", format: FormatYAML, data: "leaves:\n- {leaf: 0x100000000}\n"},
		{name: "unknown field", format: FormatYAML, data: "cores: 4\n"},
		{name: "bad json", format: FormatJSON, data: "{"},
		{name: "unknown format", format: "toml", data: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestUnmarshalJSONNumbers(t *testing.T) {
	s, err := Unmarshal([]byte(`{"xcr0": 231, "leaves": [{"leaf": 1, "subleaf": 0, "eax": "0x10", "ebx": 16}]}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, Register64(231), s.XCR0)
	assert.Equal(t, Leaf{Leaf: 1, EAX: 0x10, EBX: 16}, s.Leaves[0])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSort(t *testing.T) {
	s := Snapshot{Leaves: []Leaf{{Leaf: 0x80000000}, {Leaf: 7, Subleaf: 1}, {Leaf: 7}, {Leaf: 0}}}
	s.Sort()
	assert.Equal(t, []Leaf{{Leaf: 0}, {Leaf: 7}, {Leaf: 7, Subleaf: 1}, {Leaf: 0x80000000}}, s.Leaves)
	assert.Equal(t, FormatJSON, FormatFromPath("a/b.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.yml"))
}

func TestMarshalOrdersLeaves(t *testing.T) {
	unordered := []Leaf{{Leaf: 0x80000000, EAX: 0x80000001}, {Leaf: 7, Subleaf: 1}, {Leaf: 7}, {Leaf: 0, EAX: 7}}
	s := Snapshot{Source: "test", Leaves: slices.Clone(unordered)}
	for _, format := range []string{FormatYAML, FormatJSON} {
		t.Run(format, func(t *testing.T) {
			out, err := s.Marshal(format)
			require.NoError(t, err)
			decoded, err := Unmarshal(out, format)
			require.NoError(t, err)
			assert.Equal(t, []Leaf{{Leaf: 0, EAX: 7}, {Leaf: 7}, {Leaf: 7, Subleaf: 1}, {Leaf: 0x80000000, EAX: 0x80000001}}, decoded.Leaves)
		})
	}
	// the snapshot itself is left as it was
	assert.Equal(t, unordered, s.Leaves)
}
