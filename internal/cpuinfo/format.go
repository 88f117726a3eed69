// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpuinfo

import (
	"fmt"
	"strings"
)

func hex(v uint32) string {
	return fmt.Sprintf("0x%X", v)
}

// Brand returns the processor brand string without padding, falling back to
// the SoC vendor brand.
func (d Descriptor) Brand() string {
	if b := strings.TrimSpace(d.ProcessorBrand); b != "" {
		return b
	}
	return strings.TrimSpace(d.VendorBrand)
}

// Architecture returns "x86_64" when long mode is supported, else "x86".
func (d Descriptor) Architecture() string {
	if d.LongMode {
		return "x86_64"
	}
	return "x86"
}

// Summary is a short single line identification of the CPU.
func (d Descriptor) Summary() string {
	parts := []string{d.Vendor.String(), d.Model.Uarch.String()}
	if b := d.Brand(); b != "" {
		parts = append(parts, b)
	}
	return strings.Join(parts, ", ")
}
