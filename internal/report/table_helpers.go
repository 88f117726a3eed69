// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package report

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"cpuprobe/internal/simd"
	"cpuprobe/internal/table"
)

func hexString(v uint32) string {
	return fmt.Sprintf("0x%X", v)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// frequencyFromMHz formats a leaf 0x16 frequency, e.g. "4,200 MHz". Zero means
// the CPU does not report it.
func frequencyFromMHz(mhz uint32) string {
	if mhz == 0 {
		return ""
	}
	p := message.NewPrinter(language.English) // use printer to get commas at thousands
	return p.Sprintf("%d MHz", mhz)
}

func featureFields(features []simd.Feature, flags simd.Flags) []table.Field {
	fields := []table.Field{
		{Name: "Name"},
		{Name: "Description"},
		{Name: "Width"},
		{Name: "Supported"},
	}
	for _, feature := range features {
		fields[0].Values = append(fields[0].Values, feature.Name)
		fields[1].Values = append(fields[1].Values, feature.Description)
		fields[2].Values = append(fields[2].Values, string(feature.Group))
		fields[3].Values = append(fields[3].Values, yesNo(feature.In(flags)))
	}
	return fields
}
