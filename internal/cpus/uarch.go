// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpus

import (
	"fmt"
	"strings"
)

// Uarch is a named microarchitecture family.
type Uarch int

// Microarchitecture constants
const (
	UarchUnknown Uarch = iota
	// Intel
	UarchPentium5
	UarchPentium6
	UarchQuark
	UarchDothan
	UarchYonah
	UarchConroe
	UarchPenryn
	UarchNehalem
	UarchSandyBridge
	UarchIvyBridge
	UarchHaswell
	UarchBroadwell
	UarchSkylake
	UarchPalmCove
	UarchSunnyCove
	UarchBonnell
	UarchSaltwell
	UarchSilvermont
	UarchAirmont
	UarchGoldmont
	UarchGoldmontPlus
	UarchKnightsLanding
	UarchKnightsMill
	UarchWillamette
	UarchPrescott
	// AMD
	UarchK5
	UarchK6
	UarchGeode
	UarchK7
	UarchK8
	UarchK10
	UarchBobcat
	UarchBulldozer
	UarchPiledriver
	UarchSteamroller
	UarchExcavator
	UarchPuma
	UarchJaguar
	UarchZen
	UarchZen2
	UarchZen3
	// Hygon
	UarchDhyana
)

var uarchNames = map[Uarch]string{
	UarchUnknown:        "Unknown",
	UarchPentium5:       "P5",
	UarchPentium6:       "P6",
	UarchQuark:          "Quark",
	UarchDothan:         "Dothan",
	UarchYonah:          "Yonah",
	UarchConroe:         "Conroe",
	UarchPenryn:         "Penryn",
	UarchNehalem:        "Nehalem",
	UarchSandyBridge:    "Sandy Bridge",
	UarchIvyBridge:      "Ivy Bridge",
	UarchHaswell:        "Haswell",
	UarchBroadwell:      "Broadwell",
	UarchSkylake:        "Skylake",
	UarchPalmCove:       "Palm Cove",
	UarchSunnyCove:      "Sunny Cove",
	UarchBonnell:        "Bonnell",
	UarchSaltwell:       "Saltwell",
	UarchSilvermont:     "Silvermont",
	UarchAirmont:        "Airmont",
	UarchGoldmont:       "Goldmont",
	UarchGoldmontPlus:   "Goldmont Plus",
	UarchKnightsLanding: "Knights Landing",
	UarchKnightsMill:    "Knights Mill",
	UarchWillamette:     "Willamette",
	UarchPrescott:       "Prescott",
	UarchK5:             "K5",
	UarchK6:             "K6",
	UarchGeode:          "Geode",
	UarchK7:             "K7",
	UarchK8:             "K8",
	UarchK10:            "K10",
	UarchBobcat:         "Bobcat",
	UarchBulldozer:      "Bulldozer",
	UarchPiledriver:     "Piledriver",
	UarchSteamroller:    "Steamroller",
	UarchExcavator:      "Excavator",
	UarchPuma:           "Puma",
	UarchJaguar:         "Jaguar",
	UarchZen:            "Zen",
	UarchZen2:           "Zen 2",
	UarchZen3:           "Zen 3",
	UarchDhyana:         "Dhyana",
}

func (u Uarch) String() string {
	if name, ok := uarchNames[u]; ok {
		return name
	}
	return uarchNames[UarchUnknown]
}

// GetUarchByName looks up a microarchitecture by name, ignoring case.
func GetUarchByName(name string) (uarch Uarch, err error) {
	for u, n := range uarchNames {
		if strings.EqualFold(n, name) {
			uarch = u
			return
		}
	}
	err = fmt.Errorf("microarchitecture not found: %s", name)
	return
}

// Model is a decoded microarchitecture variant together with the byte that
// selected it: the combined model for most entries, the family for AMD
// families tabulated as a whole, the extended model for the AMD family 0x15
// fallback. The zero value is Unknown(0x00).
type Model struct {
	Uarch Uarch
	Byte  uint8
}

// IsKnown reports whether the variant was found in a table.
func (m Model) IsKnown() bool {
	return m.Uarch != UarchUnknown
}

func (m Model) String() string {
	return fmt.Sprintf("%s(0x%02X)", m.Uarch, m.Byte)
}

// Description returns the free text description of the variant: marketing
// names and process node. Variants that decode but were never described
// return "Inconsistent data".
func (m Model) Description() string {
	switch m.Uarch {
	case UarchUnknown:
		if m.Byte == 0 {
			return "Unknown architecture"
		}
	case UarchJaguar:
		if m.Byte <= 2 {
			return "Jaguar"
		}
	case UarchPuma:
		if m.Byte >= 3 {
			return "Puma"
		}
	default:
		if d, ok := descriptions[m]; ok {
			return d
		}
	}
	return "Inconsistent data"
}

// DecodeModel looks up the microarchitecture for a vendor and signature.
func DecodeModel(vendor Vendor, sig Signature) Model {
	return GetModel(vendor, sig.Family(), sig.Model(), sig.ExtModel)
}

// GetModel looks up the microarchitecture for the combined family and model.
// extModel is only consulted by the AMD family 0x15 fallback. Combinations
// that are not tabulated return Unknown(0x00).
func GetModel(vendor Vendor, family, model, extModel uint32) Model {
	switch vendor {
	case VendorIntel:
		return lookup(intelModels, family, model)
	case VendorAMD:
		return getAMDModel(family, model, extModel)
	case VendorHygon:
		if e, ok := hygonFamilies[family]; ok {
			return Model{Uarch: e.uarch, Byte: uint8(family)}
		}
	}
	return Model{}
}

func getAMDModel(family, model, extModel uint32) (m Model) {
	if e, ok := amdFamilies[family]; ok {
		m = Model{Uarch: e.uarch, Byte: uint8(family)}
		return
	}
	switch family {
	case 0x15:
		if m = lookup(amdModels, family, model); m.IsKnown() {
			return
		}
		if u, ok := amdBulldozerRevisions[extModel]; ok {
			m = Model{Uarch: u, Byte: uint8(extModel)}
		}
		return
	case 0x16:
		m = Model{Uarch: UarchJaguar, Byte: uint8(model)}
		if model >= 3 {
			m.Uarch = UarchPuma
		}
		return
	}
	m = lookup(amdModels, family, model)
	return
}

func lookup(tables map[uint32]map[uint32]modelEntry, family, model uint32) Model {
	if e, ok := tables[family][model]; ok {
		return Model{Uarch: e.uarch, Byte: uint8(model)}
	}
	return Model{}
}
