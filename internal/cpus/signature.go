// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpus

import (
	"fmt"

	"cpuprobe/internal/cpuid"
)

// Signature is the processor signature reported in leaf 1 eax.
type Signature struct {
	Stepping   uint32 // bits 0-3
	BaseModel  uint32 // bits 4-7
	BaseFamily uint32 // bits 8-11
	Type       uint32 // bits 12-13
	ExtModel   uint32 // bits 16-19
	ExtFamily  uint32 // bits 20-27
}

// ParseSignature splits leaf 1 eax into its fields.
func ParseSignature(eax uint32) Signature {
	return Signature{
		Stepping:   cpuid.Field(eax, 0, 4),
		BaseModel:  cpuid.Field(eax, 4, 4),
		BaseFamily: cpuid.Field(eax, 8, 4),
		Type:       cpuid.Field(eax, 12, 2),
		ExtModel:   cpuid.Field(eax, 16, 4),
		ExtFamily:  cpuid.Field(eax, 20, 8),
	}
}

// Family is the base family plus the extended family. The extended family is
// always added; the microarchitecture tables are keyed on this value.
func (s Signature) Family() uint32 {
	return s.BaseFamily + s.ExtFamily
}

// Model is the base model plus the extended model shifted into the high
// nibble, always added, matching Family.
func (s Signature) Model() uint32 {
	return s.BaseModel + s.ExtModel<<4
}

// DisplayFamily applies the conventional rule: the extended family only
// counts when the base family is 0xF.
func (s Signature) DisplayFamily() uint32 {
	if s.BaseFamily == 0xF {
		return s.BaseFamily + s.ExtFamily
	}
	return s.BaseFamily
}

// DisplayModel applies the conventional rule: the extended model only counts
// when the base family is 0x6 or 0xF.
func (s Signature) DisplayModel() uint32 {
	if s.BaseFamily == 0x6 || s.BaseFamily == 0xF {
		return s.BaseModel + s.ExtModel<<4
	}
	return s.BaseModel
}

func (s Signature) String() string {
	return fmt.Sprintf("family 0x%X model 0x%X stepping 0x%X", s.Family(), s.Model(), s.Stepping)
}
