// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpus

type modelEntry struct {
	uarch       Uarch
	description string
}

// intelModels maps family, then combined model, to a microarchitecture
var intelModels = map[uint32]map[uint32]modelEntry{
	0x05: {
		0x01: {UarchPentium5, "Pentium (800 nm)"},
		0x02: {UarchPentium5, "Pentium (600 nm | 350 nm)"},
		0x03: {UarchPentium5, "Pentium Overdrive (600 nm)"},
		0x04: {UarchPentium5, "Pentium MMX (800 nm)"},
		0x09: {UarchQuark, "Quark"},
	},
	0x06: {
		0x01: {UarchPentium6, "Pentium Pro (350 nm)"},
		0x03: {UarchPentium6, "Pentium II (350 nm)\nPentium II Overdrive (250 nm)"},
		0x05: {UarchPentium6, "Pentium II (250 nm)\nPentium II Celeron (250 nm)\nPentium II Xeon (250 nm)"},
		0x06: {UarchPentium6, "Pentium II (250 nm)\nPentium II Celeron (250 nm)"},
		0x07: {UarchPentium6, "Pentium III (250 nm)\nPentium III Xeon (250 nm)"},
		0x08: {UarchPentium6, "Pentium III (250 nm)\nPentium II Celeron (250 nm)\nPentium III Xeon (180 nm)"},
		0x0A: {UarchPentium6, "Pentium III Xeon (180 nm)"},
		0x0B: {UarchPentium6, "Pentium III (130 nm)\nPentium III Celeron (130 nm)"},

		0x09: {UarchDothan, "Pentium M (130 nm)"},
		0x0D: {UarchDothan, "Pentium M (90 nm)"},
		0x15: {UarchDothan, "Intel 80579 (90 nm)"},

		0x0E: {UarchYonah, "Core Solo/Duo | Pentium Dual-Core T2xxx | Celeron M | Dual-Core Xeon (65 nm)"},

		0x0F: {UarchConroe, "Core 2 Duo  (65 nm)\nCore 2 Quad (65 nm)\nXeon (65 nm)"},
		0x16: {UarchConroe, "Celeron (65 nm)\nCore 2 Duo (65 nm)"},

		0x17: {UarchPenryn, "Core 2 Duo (45 nm)\nCore 2 Quad (45 nm)\nCore 2 Extreme (45 nm)\nXeon (45 nm)\nPentium Dual-Core (45 nm)"},
		0x1D: {UarchPenryn, "Xeon (45 nm)"},

		0x1A: {UarchNehalem, "Core iX (45 nm)\nXeon (45 nm)"},
		0x1E: {UarchNehalem, "Core iX (45 nm)"},
		0x1F: {UarchNehalem, "Core iX (45 nm)"},
		0x2E: {UarchNehalem, "Xeon (45 nm)"},
		0x25: {UarchNehalem, "Core iX (45 nm)"},
		0x2C: {UarchNehalem, "Core iX (45 nm)\nXeon (45 nm)"},
		0x2F: {UarchNehalem, "Xeon (45 nm)"},

		0x2A: {UarchSandyBridge, "Core iX (32 nm)"},
		0x2D: {UarchSandyBridge, "Core iX (32 nm)\nXeon (32 nm)"},

		0x3A: {UarchIvyBridge, "Core iX (22 nm)"},
		0x3E: {UarchIvyBridge, "Ivy Bridge-E (22 nm)"},

		0x3C: {UarchHaswell, "Haswell (22 nm)"},
		0x3F: {UarchHaswell, "Haswell-E (22 nm)"},
		0x45: {UarchHaswell, "Haswell-ULT (22 nm)"},
		0x46: {UarchHaswell, "Haswell [eDRAM] (22 nm)"},

		0x3D: {UarchBroadwell, "Broadwell-U (14 nm)"},
		0x47: {UarchBroadwell, "Broadwell-H (14 nm)"},
		0x4F: {UarchBroadwell, "Broadwell-E (14 nm)"},
		0x56: {UarchBroadwell, "Broadwell-DE (14 nm)"},

		0x4E: {UarchSkylake, "Sky Lake Client Y/U (14 nm)"},
		0x55: {UarchSkylake, "Sky/Cascade/Cooper Lake Server (14 nm)"},
		0x5E: {UarchSkylake, "Sky Lake Client DT/H/S (14 nm)"},
		0x8E: {UarchSkylake, "Kaby/Whiskey/Amber/Comet Lake Y/U (14 nm)"},
		0x9E: {UarchSkylake, "Kaby/Coffee Lake DT/H/S (14 nm)"},
		0xA5: {UarchSkylake, "Comet Lake H/S (14 nm)"},
		0xA6: {UarchSkylake, "Comet Lake U/Y (14 nm)"},

		0x66: {UarchPalmCove, "Cannon Lake (10 nm)"},

		0x6A: {UarchSunnyCove, "Ice Lake-DE (10+ nm)"},
		0x6C: {UarchSunnyCove, "Ice Lake-SP (10+ nm)"},
		0x7D: {UarchSunnyCove, "Ice Lake-Y (10+ nm)"},
		0x7E: {UarchSunnyCove, "Ice Lake-U (10+ nm)"},

		0x1C: {UarchBonnell, "Diamondville (45 nm)\nSilverthorne (45 nm)\nPineview (45 nm)"},
		0x26: {UarchBonnell, "Tunnel Creek (45 nm)"},

		0x27: {UarchSaltwell, "Medfield (32 nm)"},
		0x35: {UarchSaltwell, "Cloverview (32 nm)"},
		0x36: {UarchSaltwell, "Cedarview (32 nm)\nCenterton (32 nm)"},

		0x37: {UarchSilvermont, "Bay Trail (22 nm)"},
		0x4A: {UarchSilvermont, "Merrifield (22 nm)"},
		0x4D: {UarchSilvermont, "Avoton (22 nm)\nRangeley (22 nm)"},
		0x5A: {UarchSilvermont, "Moorefield (22 nm)"},
		0x5D: {UarchSilvermont, "SoFIA (22 nm)"},

		0x4C: {UarchAirmont, "Braswell (14 nm)\nCherry Trail (14 nm)"},
		0x75: {UarchAirmont, "Spreadtrum SC9853I-IA (14 nm)"},

		0x5C: {UarchGoldmont, "Apollo Lake (14 nm)"},
		0x5F: {UarchGoldmont, "Denverton (14 nm)"},

		0x7A: {UarchGoldmontPlus, "Gemini Lake (14 nm)"},

		0x57: {UarchKnightsLanding, "Knights Landing (14 nm)"},
		0x85: {UarchKnightsMill, "Knights Mill (14 nm)"},
	},
	0x0F: {
		0x00: {UarchWillamette, "Pentium 4 Xeon (180 nm)"},
		0x01: {UarchWillamette, "Pentium 4 Celeron (180 nm)\nPentium 4 Xeon (180 nm)"},
		0x02: {UarchWillamette, "Pentium 4 (130 nm)\nPentium 4 EE (130 nm)\nPentium 4 Celeron (130 nm)\nPentium 4 Xeon (130 nm)"},

		0x03: {UarchPrescott, "Pentium 4 (90 nm)\nPentium 4 Xeon (90 nm)"},
		0x04: {UarchPrescott, "Pentium 4 (90 nm)\nPentium 4 EE (90 nm)\nPentium D (90 nm)\nCeleron D (90 nm)\nPentium 4 Xeon (90 nm)"},
		0x06: {UarchPrescott, "Pentium 4 (65 nm)\nPentium D EE (65 nm)\nCeleron D (65 nm)\nPentium 4 Xeon (65 nm)"},
	},
}

// amdFamilies are AMD families tabulated as a whole, regardless of model.
// The variant carries the family.
var amdFamilies = map[uint32]modelEntry{
	0x06: {UarchK7, "K7 (250 nm - 14 nm)"},
	0x0F: {UarchK8, "K8 (130 nm - 65 nm)"},
	0x11: {UarchK8, "K8 (90 nm - 65 nm)"},
	0x10: {UarchK10, "K10 Opteron\nK10 Phenom\nK10 Athlon\nK10 Sempron"},
	0x12: {UarchK10, "K10 Llano APU"},
	0x14: {UarchBobcat, "Bobcat"},
}

// amdModels maps family, then combined model, to a microarchitecture.
// Family 0x16 is decided by a threshold and has no table.
var amdModels = map[uint32]map[uint32]modelEntry{
	0x05: {
		0x00: {UarchK5, "K5 (500 nm - 350 nm)"},
		0x01: {UarchK5, "K5 (500 nm - 350 nm)"},
		0x02: {UarchK5, "K5 (500 nm - 350 nm)"},

		0x06: {UarchK6, "K6 (350 nm - 250 nm)"},
		0x07: {UarchK6, "K6 (350 nm - 250 nm)"},
		0x08: {UarchK6, "K6 (350 nm - 250 nm)"},
		0x0D: {UarchK6, "K6 (350 nm - 250 nm)"},

		0x0A: {UarchGeode, "Geode"},
	},
	0x15: {
		0x00: {UarchBulldozer, "Bulldozer (Engineer sample)"},
		0x01: {UarchBulldozer, "Bulldozer Zambezi\nBulldozer Interlagos"},

		0x02: {UarchPiledriver, "Piledriver Vishera"},
		0x10: {UarchPiledriver, "Piledriver Trinity"},
		0x13: {UarchPiledriver, "Piledriver Richland"},

		0x38: {UarchSteamroller, "Steamroller Godavari"},
		0x30: {UarchSteamroller, "Steamroller Kaveri"},

		0x60: {UarchExcavator, "Excavator Carrizo"},
		0x65: {UarchExcavator, "Excavator Bristol Ridge"},
		0x70: {UarchExcavator, "Excavator Stone Ridge"},
	},
	0x17: {
		0x01: {UarchZen, "Zen  - Ryzen 1000 (14 nm)\n[EPYC Server] 'Naples'\n[Threadripper CPU] 'Whitehaven'\n[Desktop CPU] 'Summit ridge'\n[Embedded Server] 'Snowy Owl'"},
		0x08: {UarchZen, "Zen+ - Ryzen 2000 (12 nm)\n[Desktop CPU] 'Pinnacle Ridge'\n[Threadripper CPU] 'Colfax'"},
		0x11: {UarchZen, "Zen  - Ryzen 1000 (14 nm)\n[Desktop APU] 'Raven Ridge'\n[Mobile APU] 'Raven Ridge'\n[Embedded APU] 'Great Horned Owl'"},
		0x18: {UarchZen, "Zen+ - Ryzen 2000 (12 nm)\n[Desktop APU] 'Picasso'\n[Mobile APU] 'Picasso'"},

		0x31: {UarchZen2, "Zen 2 - Ryzen 3000 (7 nm)\n[EPYC Server] 'Rome'"},
		0x60: {UarchZen2, "Zen 2 - Ryzen 3000 (7 nm)\n[Desktop APU] 'Renoir'\n[Mobile APU] 'Renoir'\n[Threadripper CPU] 'Castle Peak'"},
		0x68: {UarchZen2, "Zen 2 - Ryzen 5000 (7 nm)\n[Mobile APU] 'Lucienne'"},
		0x71: {UarchZen2, "Zen 2 - Ryzen 3000 (7 nm)\n[Desktop CPU] 'Matisse'"},
		0x90: {UarchZen2, "Zen 2 - Ryzen X000 (7 nm)\n[Desktop APU] 'Van Gogh'"},
		0x98: {UarchZen2, "Zen 2 - Ryzen X000 (7 nm)\n[Mobile APU] 'Mero'"},
	},
	0x19: {
		0x01: {UarchZen3, "Zen 3 - Ryzen X000 (7 nm)\n[Threadripper CPU] 'Genesis Peak'"},
		0x21: {UarchZen3, "Zen 3 - Ryzen 5000 (7 nm)\n[Desktop CPU] 'Vermeer'"},
		0x30: {UarchZen3, "Zen 3 - Ryzen X000 (7 nm)\n[EPYC Embedded] 'Badami' 'Trento'"},
		0x40: {UarchZen3, "Zen 3 - Ryzen 5000 (7 nm)\n[Desktop APU] 'Rembrandt'"},
		0x50: {UarchZen3, "Zen 3 - Ryzen 5000 (7 nm)\n[Mobile APU] 'Cezanne'"},
	},
}

// amdBulldozerRevisions is the family 0x15 fallback on extended model alone,
// for early revisions whose combined model is not in amdModels.
var amdBulldozerRevisions = map[uint32]Uarch{
	0x00: UarchBulldozer,
	0x01: UarchPiledriver,
	0x02: UarchPiledriver,
	0x03: UarchSteamroller,
	0x04: UarchSteamroller,
}

// hygonFamilies are Hygon families tabulated as a whole.
var hygonFamilies = map[uint32]modelEntry{
	0x00: {UarchDhyana, "Dhyana"},
}

// descriptions indexes every tabulated variant by the byte it carries
var descriptions = map[Model]string{}

func init() {
	for _, tables := range []map[uint32]map[uint32]modelEntry{intelModels, amdModels} {
		for _, models := range tables {
			for model, e := range models {
				descriptions[Model{Uarch: e.uarch, Byte: uint8(model)}] = e.description
			}
		}
	}
	for _, families := range []map[uint32]modelEntry{amdFamilies, hygonFamilies} {
		for family, e := range families {
			descriptions[Model{Uarch: e.uarch, Byte: uint8(family)}] = e.description
		}
	}
}
