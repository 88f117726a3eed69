// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package cpus provides x86 CPU definitions and lookup utilities for vendor,
// family, model, stepping and microarchitecture, decoded from raw CPUID
// register values.
package cpus

import (
	"strings"

	"cpuprobe/internal/cpuid"
)

// Vendor identifies the silicon vendor reported by CPUID leaf 0.
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorIntel
	VendorAMD
	VendorCentaur
	VendorHygon
	VendorTransmeta
	VendorCyrix
	VendorRise
	VendorNSC
	VendorSiS
	VendorNexGen
	VendorUMC
	VendorRDC
	VendorDMP
	VendorZhaoxin
	VendorElbrus
)

var vendorNames = map[Vendor]string{
	VendorUnknown:   "Unknown",
	VendorIntel:     "Intel",
	VendorAMD:       "AMD",
	VendorCentaur:   "Centaur",
	VendorHygon:     "Hygon",
	VendorTransmeta: "Transmeta",
	VendorCyrix:     "Cyrix",
	VendorRise:      "Rise",
	VendorNSC:       "National Semiconductor",
	VendorSiS:       "Silicon Integrated Systems",
	VendorNexGen:    "NexGen",
	VendorUMC:       "UMC",
	VendorRDC:       "RDC",
	VendorDMP:       "DM&P",
	VendorZhaoxin:   "Zhaoxin",
	VendorElbrus:    "Elbrus",
}

func (v Vendor) String() string {
	if name, ok := vendorNames[v]; ok {
		return name
	}
	return vendorNames[VendorUnknown]
}

// VendorID is the leaf 0 vendor identification in (ebx, edx, ecx) order,
// the order in which the registers spell the 12 character string.
type VendorID [3]uint32

// vendorIDs maps every known vendor identification to its vendor. Elbrus
// has no entry; its string is not known.
var vendorIDs = map[VendorID]Vendor{
	{0x756E6547, 0x49656E69, 0x6C65746E}: VendorIntel,     // GenuineIntel
	{0x756E6547, 0x49656E69, 0x6C65746F}: VendorIntel,     // GenuineIotel
	{0x68747541, 0x69746E65, 0x444D4163}: VendorAMD,       // AuthenticAMD
	{0x69444D41, 0x74656273, 0x21726574}: VendorAMD,       // AMDisbetter!
	{0x20444D41, 0x45425349, 0x52455454}: VendorAMD,       // AMD ISBETTER
	{0x746E6543, 0x48727561, 0x736C7561}: VendorCentaur,   // CentaurHauls
	{0x20414956, 0x20414956, 0x20414956}: VendorCentaur,   // VIA VIA VIA
	{0x6E617254, 0x74656D73, 0x55504361}: VendorTransmeta, // TransmetaCPU
	{0x756E6547, 0x54656E69, 0x3638784D}: VendorTransmeta, // GenuineTMx86
	{0x6F677948, 0x6E65476E, 0x656E6975}: VendorHygon,     // HygonGenuine
	{0x69727943, 0x736E4978, 0x64616574}: VendorCyrix,     // CyrixInstead
	{0x65736952, 0x65736952, 0x65736952}: VendorRise,      // RiseRiseRise
	{0x646F6547, 0x79622065, 0x43534E20}: VendorNSC,       // Geode by NSC
	{0x20536953, 0x20536953, 0x20536953}: VendorSiS,       // SiS SiS SiS
	{0x4778654E, 0x72446E65, 0x6E657669}: VendorNexGen,    // NexGenDriven
	{0x20434D55, 0x20434D55, 0x20434D55}: VendorUMC,       // UMC UMC UMC
	{0x756E6547, 0x20656E69, 0x43445220}: VendorRDC,       // Genuine  RDC
	{0x74726F56, 0x36387865, 0x436F5320}: VendorDMP,       // Vortex86 SoC
	{0x68532020, 0x68676E61, 0x20206961}: VendorZhaoxin,   // "  Shanghai  "
}

// VendorIDFromLeaf takes the identification registers of leaf 0.
func VendorIDFromLeaf(l cpuid.Leaf) VendorID {
	return VendorID{l.EBX, l.EDX, l.ECX}
}

// String returns the 12 character identification, e.g. "GenuineIntel".
func (id VendorID) String() string {
	return cpuid.DecodeString(id[:])
}

// DecodeVendor returns the vendor for an exact identification match, or
// VendorUnknown.
func DecodeVendor(id VendorID) Vendor {
	if v, ok := vendorIDs[id]; ok {
		return v
	}
	return VendorUnknown
}

// GetVendorByName looks up a vendor by its display name, ignoring case.
func GetVendorByName(name string) (vendor Vendor, ok bool) {
	for v, n := range vendorNames {
		if strings.EqualFold(n, name) {
			vendor, ok = v, true
			return
		}
	}
	return
}
