// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package cpuinfo reads the capability descriptor of a CPU: vendor,
// microarchitecture, brand strings, frequency hints and feature masks.
package cpuinfo

import (
	"log/slog"

	"cpuprobe/internal/cpuid"
	"cpuprobe/internal/cpus"
	"cpuprobe/internal/simd"
)

// Descriptor is everything decoded from one pass over the CPUID leaves. A
// CPU that reports no standard leaves yields the zero Descriptor.
type Descriptor struct {
	VendorID        cpus.VendorID
	Vendor          cpus.Vendor
	Signature       cpus.Signature
	Model           cpus.Model
	LongMode        bool   // 64-bit mode supported
	BaseMHz         uint32 // 0 when not reported
	MaxMHz          uint32 // 0 when not reported
	SoCVendorID     uint32
	SoCProductID    uint32
	VendorBrand     string
	ProcessorBrand  string
	Features        simd.Flags
	MaxStandardLeaf uint32
	MaxExtendedLeaf uint32
}

// Read decodes a fresh Descriptor from q. Nothing is cached between calls.
func Read(q cpuid.Querier) (d Descriptor) {
	g := cpuid.NewGate(q)
	if g.MaxStandard() == 0 {
		slog.Debug("no standard CPUID leaves reported")
		return
	}
	d.MaxStandardLeaf = g.MaxStandard()
	d.MaxExtendedLeaf = g.MaxExtended()
	slog.Debug("CPUID leaf range", slog.String("max_standard", hex(d.MaxStandardLeaf)), slog.String("max_extended", hex(d.MaxExtendedLeaf)))

	d.VendorID = cpus.VendorIDFromLeaf(g.Base())
	d.Vendor = cpus.DecodeVendor(d.VendorID)

	if l1, ok := g.Query(cpuid.LeafSignature); ok {
		d.Signature = cpus.ParseSignature(l1.EAX)
		d.Model = cpus.DecodeModel(d.Vendor, d.Signature)
	}
	if ext, ok := g.Query(cpuid.LeafExtSignature); ok {
		d.LongMode = cpuid.Bit(ext.EDX, 29)
	}
	if freq, ok := g.Query(cpuid.LeafFrequency); ok {
		d.BaseMHz = cpuid.Field(freq.EAX, 0, 16)
		d.MaxMHz = cpuid.Field(freq.EBX, 0, 16)
	}
	if soc, ok := g.Query(cpuid.LeafSoCVendor); ok {
		d.SoCVendorID = soc.EBX
		d.SoCProductID = soc.ECX
		d.VendorBrand = cpuid.VendorBrand(g, soc.EAX)
	} else {
		slog.Debug("SoC vendor leaf not reported")
	}
	d.ProcessorBrand = cpuid.ProcessorBrand(g)
	d.Features = simd.Assemble(g)
	return
}

// ReadFeatures reads only the feature masks.
func ReadFeatures(q cpuid.Querier) simd.Flags {
	return simd.Read(q)
}

// Host reads the Descriptor of the running processor.
func Host() (d Descriptor, err error) {
	q, err := cpuid.Host()
	if err != nil {
		return
	}
	d = Read(q)
	return
}
