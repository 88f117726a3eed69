// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpus

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpuprobe/internal/cpuid"
)

// idFromString splits a 12 character vendor string into (ebx, edx, ecx).
func idFromString(s string) VendorID {
	b := []byte(s)
	return VendorID{
		binary.LittleEndian.Uint32(b[0:4]),
		binary.LittleEndian.Uint32(b[4:8]),
		binary.LittleEndian.Uint32(b[8:12]),
	}
}

func TestDecodeVendor(t *testing.T) {
	tests := []struct {
		id   string
		want Vendor
	}{
		{"GenuineIntel", VendorIntel},
		{"GenuineIotel", VendorIntel},
		{"AuthenticAMD", VendorAMD},
		{"AMDisbetter!", VendorAMD},
		{"AMD ISBETTER", VendorAMD},
		{"CentaurHauls", VendorCentaur},
		{"VIA VIA VIA ", VendorCentaur},
		{"TransmetaCPU", VendorTransmeta},
		{"GenuineTMx86", VendorTransmeta},
		{"HygonGenuine", VendorHygon},
		{"CyrixInstead", VendorCyrix},
		{"RiseRiseRise", VendorRise},
		{"Geode by NSC", VendorNSC},
		{"SiS SiS SiS ", VendorSiS},
		{"NexGenDriven", VendorNexGen},
		{"UMC UMC UMC ", VendorUMC},
		{"Genuine  RDC", VendorRDC},
		{"Vortex86 SoC", VendorDMP},
		{"  Shanghai  ", VendorZhaoxin},
		{"GenuineIntex", VendorUnknown},
		{"KVMKVMKVM\x00\x00\x00", VendorUnknown},
		{"E2K MACHINE ", VendorUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			id := idFromString(tt.id)
			assert.Equal(t, tt.want, DecodeVendor(id))
			// pure: same input, same output
			assert.Equal(t, DecodeVendor(id), DecodeVendor(id))
		})
	}
}

func TestVendorTableCoversEveryTuple(t *testing.T) {
	for id, want := range vendorIDs {
		assert.Equal(t, want, DecodeVendor(id), id.String())
		assert.Len(t, id.String(), 12)
	}
	assert.Len(t, vendorIDs, 19)
	assert.Equal(t, VendorUnknown, DecodeVendor(VendorID{}))
}

func TestVendorIDFromLeaf(t *testing.T) {
	leaf := cpuid.Leaf{EAX: 0x16, EBX: 0x756E6547, ECX: 0x6C65746E, EDX: 0x49656E69}
	id := VendorIDFromLeaf(leaf)
	assert.Equal(t, "GenuineIntel", id.String())
	assert.Equal(t, VendorIntel, DecodeVendor(id))
}

func TestVendorString(t *testing.T) {
	assert.Equal(t, "Intel", VendorIntel.String())
	assert.Equal(t, "DM&P", VendorDMP.String())
	assert.Equal(t, "Elbrus", VendorElbrus.String())
	assert.Equal(t, "Unknown", Vendor(99).String())

	v, ok := GetVendorByName("amd")
	require.True(t, ok)
	assert.Equal(t, VendorAMD, v)
	_, ok = GetVendorByName("Motorola")
	assert.False(t, ok)
}

func TestParseSignature(t *testing.T) {
	tests := []struct {
		name          string
		eax           uint32
		want          Signature
		family        uint32
		model         uint32
		displayFamily uint32
		displayModel  uint32
	}{
		{
			name:   "skylake desktop",
			eax:    0x000506E3,
			want:   Signature{Stepping: 3, BaseModel: 0xE, BaseFamily: 6, ExtModel: 5},
			family: 0x06, model: 0x5E, displayFamily: 0x06, displayModel: 0x5E,
		},
		{
			name:   "zen 2 desktop",
			eax:    0x00870F10,
			want:   Signature{Stepping: 0, BaseModel: 1, BaseFamily: 0xF, ExtModel: 7, ExtFamily: 8},
			family: 0x17, model: 0x71, displayFamily: 0x17, displayModel: 0x71,
		},
		{
			name:   "processor type",
			eax:    0x00003633,
			want:   Signature{Stepping: 3, BaseModel: 3, BaseFamily: 6, Type: 3},
			family: 0x06, model: 0x03, displayFamily: 0x06, displayModel: 0x03,
		},
		{
			name:   "extended model on family 5",
			eax:    0x00010550,
			want:   Signature{BaseModel: 5, BaseFamily: 5, ExtModel: 1},
			family: 0x05, model: 0x15, displayFamily: 0x05, displayModel: 0x05,
		},
		{
			name:   "extended family on family 6",
			eax:    0x00100650,
			want:   Signature{BaseModel: 5, BaseFamily: 6, ExtFamily: 1},
			family: 0x07, model: 0x05, displayFamily: 0x06, displayModel: 0x05,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := ParseSignature(tt.eax)
			assert.Equal(t, tt.want, sig)
			assert.Equal(t, tt.family, sig.Family())
			assert.Equal(t, tt.model, sig.Model())
			assert.Equal(t, tt.displayFamily, sig.DisplayFamily())
			assert.Equal(t, tt.displayModel, sig.DisplayModel())
		})
	}
}

func TestGetModel(t *testing.T) {
	tests := []struct {
		name     string
		vendor   Vendor
		family   uint32
		model    uint32
		extModel uint32
		want     Model
	}{
		{"intel skylake", VendorIntel, 0x06, 0x5E, 0x5, Model{UarchSkylake, 0x5E}},
		{"intel ice lake sp", VendorIntel, 0x06, 0x6C, 0x6, Model{UarchSunnyCove, 0x6C}},
		{"intel pentium pro", VendorIntel, 0x06, 0x01, 0x0, Model{UarchPentium6, 0x01}},
		{"intel quark", VendorIntel, 0x05, 0x09, 0x0, Model{UarchQuark, 0x09}},
		{"intel prescott", VendorIntel, 0x0F, 0x04, 0x0, Model{UarchPrescott, 0x04}},
		{"intel knights mill", VendorIntel, 0x06, 0x85, 0x8, Model{UarchKnightsMill, 0x85}},
		{"intel untabulated model", VendorIntel, 0x06, 0x8F, 0x8, Model{}},
		{"intel untabulated family", VendorIntel, 0x07, 0x01, 0x0, Model{}},
		{"amd zen 2", VendorAMD, 0x17, 0x71, 0x7, Model{UarchZen2, 0x71}},
		{"amd zen 3", VendorAMD, 0x19, 0x21, 0x2, Model{UarchZen3, 0x21}},
		{"amd zen", VendorAMD, 0x17, 0x01, 0x0, Model{UarchZen, 0x01}},
		{"amd jaguar", VendorAMD, 0x16, 0x02, 0x0, Model{UarchJaguar, 0x02}},
		{"amd puma", VendorAMD, 0x16, 0x05, 0x0, Model{UarchPuma, 0x05}},
		{"amd puma threshold", VendorAMD, 0x16, 0x03, 0x0, Model{UarchPuma, 0x03}},
		{"amd k6", VendorAMD, 0x05, 0x0D, 0x0, Model{UarchK6, 0x0D}},
		{"amd geode", VendorAMD, 0x05, 0x0A, 0x0, Model{UarchGeode, 0x0A}},
		{"amd k7 any model", VendorAMD, 0x06, 0x04, 0x0, Model{UarchK7, 0x06}},
		{"amd k8", VendorAMD, 0x0F, 0x2B, 0x2, Model{UarchK8, 0x0F}},
		{"amd k10 llano", VendorAMD, 0x12, 0x01, 0x0, Model{UarchK10, 0x12}},
		{"amd bobcat", VendorAMD, 0x14, 0x02, 0x0, Model{UarchBobcat, 0x14}},
		{"amd excavator", VendorAMD, 0x15, 0x65, 0x6, Model{UarchExcavator, 0x65}},
		{"amd piledriver by model", VendorAMD, 0x15, 0x13, 0x1, Model{UarchPiledriver, 0x13}},
		{"amd bulldozer fallback", VendorAMD, 0x15, 0x05, 0x0, Model{UarchBulldozer, 0x00}},
		{"amd piledriver fallback", VendorAMD, 0x15, 0x1F, 0x1, Model{UarchPiledriver, 0x01}},
		{"amd steamroller fallback", VendorAMD, 0x15, 0x48, 0x4, Model{UarchSteamroller, 0x04}},
		{"amd family 15 no fallback", VendorAMD, 0x15, 0x50, 0x5, Model{}},
		{"amd untabulated zen model", VendorAMD, 0x17, 0x02, 0x0, Model{}},
		{"amd untabulated family", VendorAMD, 0x1A, 0x01, 0x0, Model{}},
		{"hygon dhyana", VendorHygon, 0x00, 0x00, 0x0, Model{UarchDhyana, 0x00}},
		{"hygon untabulated family", VendorHygon, 0x18, 0x01, 0x0, Model{}},
		{"untabulated vendor", VendorCentaur, 0x06, 0x0F, 0x0, Model{}},
		{"unknown vendor", VendorUnknown, 0x06, 0x5E, 0x5, Model{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetModel(tt.vendor, tt.family, tt.model, tt.extModel)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, GetModel(tt.vendor, tt.family, tt.model, tt.extModel))
		})
	}
}

func TestDecodeModel(t *testing.T) {
	assert.Equal(t, Model{UarchSkylake, 0x5E}, DecodeModel(VendorIntel, ParseSignature(0x000506E3)))
	assert.Equal(t, Model{UarchZen2, 0x71}, DecodeModel(VendorAMD, ParseSignature(0x00870F10)))
	// Phenom II: base family 0xF plus extended family 1
	assert.Equal(t, Model{UarchK10, 0x10}, DecodeModel(VendorAMD, ParseSignature(0x00100F42)))
	assert.Equal(t, Model{}, DecodeModel(VendorIntel, ParseSignature(0)))
}

func TestModelDescription(t *testing.T) {
	tests := []struct {
		model Model
		want  string
	}{
		{Model{UarchSkylake, 0x5E}, "Sky Lake Client DT/H/S (14 nm)"},
		{Model{UarchZen2, 0x71}, "Zen 2 - Ryzen 3000 (7 nm)\n[Desktop CPU] 'Matisse'"},
		{Model{UarchK8, 0x11}, "K8 (90 nm - 65 nm)"},
		{Model{UarchBulldozer, 0x00}, "Bulldozer (Engineer sample)"},
		{Model{UarchPiledriver, 0x02}, "Piledriver Vishera"},
		{Model{UarchPiledriver, 0x01}, "Inconsistent data"},
		{Model{UarchJaguar, 0x00}, "Jaguar"},
		{Model{UarchJaguar, 0x02}, "Jaguar"},
		{Model{UarchJaguar, 0x05}, "Inconsistent data"},
		{Model{UarchPuma, 0x30}, "Puma"},
		{Model{UarchPuma, 0x01}, "Inconsistent data"},
		{Model{UarchDhyana, 0x00}, "Dhyana"},
		{Model{UarchSkylake, 0x01}, "Inconsistent data"},
		{Model{}, "Unknown architecture"},
		{Model{UarchUnknown, 0x01}, "Inconsistent data"},
	}
	for _, tt := range tests {
		t.Run(tt.model.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.model.Description())
		})
	}
}

func TestEveryTabulatedModelIsDescribed(t *testing.T) {
	for family, models := range intelModels {
		for model := range models {
			m := GetModel(VendorIntel, family, model, model>>4)
			require.True(t, m.IsKnown(), "intel family 0x%X model 0x%X", family, model)
			assert.NotEqual(t, "Inconsistent data", m.Description(), m.String())
		}
	}
	for family, models := range amdModels {
		for model := range models {
			m := GetModel(VendorAMD, family, model, model>>4)
			require.True(t, m.IsKnown(), "amd family 0x%X model 0x%X", family, model)
			assert.NotEqual(t, "Inconsistent data", m.Description(), m.String())
		}
	}
	for family := range amdFamilies {
		m := GetModel(VendorAMD, family, 0, 0)
		assert.NotEqual(t, "Inconsistent data", m.Description(), m.String())
	}
}

func TestGetUarchByName(t *testing.T) {
	u, err := GetUarchByName("zen 2")
	require.NoError(t, err)
	assert.Equal(t, UarchZen2, u)

	u, err = GetUarchByName("Skylake")
	require.NoError(t, err)
	assert.Equal(t, UarchSkylake, u)

	_, err = GetUarchByName("Lion Cove")
	assert.Error(t, err)
	assert.Equal(t, "Unknown", Uarch(-1).String())
}

func TestModelString(t *testing.T) {
	assert.Equal(t, "Skylake(0x5E)", Model{UarchSkylake, 0x5E}.String())
	assert.Equal(t, "Unknown(0x00)", Model{}.String())
}
