// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpuid

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// brandRegisters is the size of a brand string buffer: three leaves of four
// registers, 48 bytes.
const brandRegisters = 12

// maxVendorBrandLeaves caps the sub-leaf count reported by leaf 0x17.
const maxVendorBrandLeaves = 3

// DecodeString reinterprets regs as little-endian bytes (the only byte order
// x86 has), cuts at the first NUL and decodes the prefix as UTF-8. Invalid
// sequences are replaced rather than rejected.
func DecodeString(regs []uint32) string {
	buf := make([]byte, 0, len(regs)*4)
	for _, r := range regs {
		buf = binary.LittleEndian.AppendUint32(buf, r)
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	if utf8.Valid(buf) {
		return string(buf)
	}
	// the decoder replaces invalid sequences and never fails
	out, _ := unicode.UTF8.NewDecoder().Bytes(buf)
	return string(out)
}

// VendorBrand assembles the SoC vendor brand string from leaf 0x17 sub-leaves
// 1..count, where count is the low byte of leaf 0x17 eax, at most three.
func VendorBrand(g *Gate, count uint32) string {
	if !g.Supports(LeafSoCVendor) {
		return ""
	}
	count = min(count&0xFF, maxVendorBrandLeaves)
	var regs [brandRegisters]uint32
	for i := range count {
		raw, _ := g.QuerySub(LeafSoCVendor, i+1)
		r := raw.Registers()
		copy(regs[i*4:], r[:])
	}
	return DecodeString(regs[:])
}

// ProcessorBrand assembles the processor brand string from extended leaves
// 0x80000002 through 0x80000004.
func ProcessorBrand(g *Gate) string {
	if !g.Supports(LeafBrandLast) {
		return ""
	}
	var regs [brandRegisters]uint32
	for i := range LeafBrandLast - LeafBrandFirst + 1 {
		raw, _ := g.Query(LeafBrandFirst + i)
		r := raw.Registers()
		copy(regs[i*4:], r[:])
	}
	return DecodeString(regs[:])
}
