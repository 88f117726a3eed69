// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package cpuid issues the CPUID instruction and provides the leaf gating and
// register-to-string assembly shared by the decoders. Only the Host querier
// touches the hardware; everything else works on returned register values.
package cpuid

import (
	"errors"
	"fmt"
)

// Leaf numbers used by the decoders.
const (
	LeafMaxStandard  uint32 = 0x00000000 // max standard leaf and vendor ID
	LeafSignature    uint32 = 0x00000001 // family/model/stepping and base features
	LeafExtFeatures  uint32 = 0x00000007 // structured extended features
	LeafFrequency    uint32 = 0x00000016 // base/max frequency
	LeafSoCVendor    uint32 = 0x00000017 // SoC vendor attribute enumeration
	LeafMaxExtended  uint32 = 0x80000000 // max extended leaf
	LeafExtSignature uint32 = 0x80000001 // extended signature and features
	LeafBrandFirst   uint32 = 0x80000002 // processor brand string, part 1
	LeafBrandLast    uint32 = 0x80000004 // processor brand string, part 3
)

// ErrUnsupportedArch is returned by Host on architectures without CPUID.
var ErrUnsupportedArch = errors.New("CPUID is only available on 386 and amd64")

// Leaf holds the four registers returned by one CPUID query.
type Leaf struct {
	EAX uint32
	EBX uint32
	ECX uint32
	EDX uint32
}

// Registers returns the registers in eax, ebx, ecx, edx order.
func (l Leaf) Registers() [4]uint32 {
	return [4]uint32{l.EAX, l.EBX, l.ECX, l.EDX}
}

func (l Leaf) String() string {
	return fmt.Sprintf("eax=0x%08x ebx=0x%08x ecx=0x%08x edx=0x%08x", l.EAX, l.EBX, l.ECX, l.EDX)
}

// Querier is the hardware boundary: CPUID for a leaf/sub-leaf pair and
// XGETBV for an extended control register.
type Querier interface {
	CPUID(leaf, subleaf uint32) Leaf
	XGetBV(index uint32) uint64
}

// Bit reports whether bit n of reg is set.
func Bit(reg uint32, n uint) bool {
	return (reg>>n)&1 == 1
}

// Field extracts width bits of reg starting at bit lo.
func Field(reg uint32, lo, width uint) uint32 {
	return (reg >> lo) & (1<<width - 1)
}
