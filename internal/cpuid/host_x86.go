// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

//go:build 386 || amd64

package cpuid

// implemented in cpuid_386.s and cpuid_amd64.s
func cpuid(eaxArg, ecxArg uint32) (eax, ebx, ecx, edx uint32)
func xgetbv(index uint32) (eax, edx uint32)

type hardware struct{}

func (hardware) CPUID(leaf, subleaf uint32) Leaf {
	a, b, c, d := cpuid(leaf, subleaf)
	return Leaf{EAX: a, EBX: b, ECX: c, EDX: d}
}

func (hardware) XGetBV(index uint32) uint64 {
	lo, hi := xgetbv(index)
	return uint64(hi)<<32 | uint64(lo)
}

// Host returns a Querier that executes CPUID on the running processor.
func Host() (Querier, error) {
	return hardware{}, nil
}
