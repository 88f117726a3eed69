// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package report

import (
	"cpuprobe/internal/cpuid"
	"cpuprobe/internal/cpuinfo"
	"cpuprobe/internal/cpus"
	"cpuprobe/internal/simd"
	"cpuprobe/internal/table"
)

const (
	ProcessorTableName = "Processor"
	SIMDTableName      = "SIMD Extensions"
	AVX512TableName    = "AVX-512 Extensions"
	SoCTableName       = "SoC Vendor"
)

var tableDefinitions = map[string]table.TableDefinition{
	ProcessorTableName: {
		Name:        ProcessorTableName,
		HasRows:     false,
		NoDataFound: "No CPUID leaves reported.",
		FieldsFunc:  processorTableValues,
	},
	SIMDTableName: {
		Name:       SIMDTableName,
		HasRows:    true,
		FieldsFunc: simdTableValues,
	},
	AVX512TableName: {
		Name:                  AVX512TableName,
		HasRows:               true,
		NoDataFound:           "AVX-512 not supported.",
		FieldsFunc:            avx512TableValues,
		TextTableRendererFunc: avx512TableTextRenderer,
	},
	// leaf 0x17 is only defined by Intel
	SoCTableName: {
		Name:        SoCTableName,
		Vendors:     []string{cpus.VendorIntel.String()},
		HasRows:     false,
		NoDataFound: "SoC vendor leaf not reported.",
		FieldsFunc:  socTableValues,
	},
}

// TableNames lists the report tables in render order.
var TableNames = []string{ProcessorTableName, SIMDTableName, AVX512TableName, SoCTableName}

// Tables returns the report table definitions in render order.
func Tables() []table.TableDefinition {
	tables := make([]table.TableDefinition, 0, len(TableNames))
	for _, name := range TableNames {
		tables = append(tables, tableDefinitions[name])
	}
	return tables
}

func processorTableValues(d cpuinfo.Descriptor) []table.Field {
	if d.MaxStandardLeaf == 0 {
		return []table.Field{}
	}
	return []table.Field{
		{Name: "Vendor", Values: []string{d.Vendor.String()}},
		{Name: "Vendor ID", Values: []string{d.VendorID.String()}},
		{Name: "Brand", Values: []string{d.Brand()}},
		{Name: "Architecture", Values: []string{d.Architecture()}},
		{Name: "Family", Values: []string{hexString(d.Signature.Family())}, Description: "base family plus extended family"},
		{Name: "Model", Values: []string{hexString(d.Signature.Model())}, Description: "base model plus extended model"},
		{Name: "Display Family", Values: []string{hexString(d.Signature.DisplayFamily())}},
		{Name: "Display Model", Values: []string{hexString(d.Signature.DisplayModel())}},
		{Name: "Stepping", Values: []string{hexString(d.Signature.Stepping)}},
		{Name: "Microarchitecture", Values: []string{d.Model.String()}},
		{Name: "Description", Values: []string{d.Model.Description()}},
		{Name: "Long Mode", Values: []string{yesNo(d.LongMode)}},
		{Name: "Base Frequency", Values: []string{frequencyFromMHz(d.BaseMHz)}},
		{Name: "Maximum Frequency", Values: []string{frequencyFromMHz(d.MaxMHz)}},
		{Name: "Max Standard Leaf", Values: []string{hexString(d.MaxStandardLeaf)}},
		{Name: "Max Extended Leaf", Values: []string{hexString(d.MaxExtendedLeaf)}},
	}
}

func simdTableValues(d cpuinfo.Descriptor) []table.Field {
	return featureFields(simd.SIMDFeatures(), d.Features)
}

func avx512TableValues(d cpuinfo.Descriptor) []table.Field {
	if d.Features.AVX512 == 0 {
		return []table.Field{}
	}
	return featureFields(simd.AVX512Features(), d.Features)
}

// avx512TableTextRenderer lists only the supported extensions.
func avx512TableTextRenderer(tableValues table.TableValues) string {
	supportedIdx, err := table.GetFieldIndex("Supported", tableValues)
	if err != nil {
		return DefaultTextTableRendererFunc(tableValues)
	}
	filtered := tableValues
	filtered.Fields = make([]table.Field, len(tableValues.Fields))
	for i, field := range tableValues.Fields {
		filtered.Fields[i] = table.Field{Name: field.Name, Description: field.Description}
	}
	for row, supported := range tableValues.Fields[supportedIdx].Values {
		if supported != "Yes" {
			continue
		}
		for i, field := range tableValues.Fields {
			filtered.Fields[i].Values = append(filtered.Fields[i].Values, field.Values[row])
		}
	}
	return DefaultTextTableRendererFunc(filtered)
}

func socTableValues(d cpuinfo.Descriptor) []table.Field {
	if d.MaxStandardLeaf < cpuid.LeafSoCVendor {
		return []table.Field{}
	}
	return []table.Field{
		{Name: "SoC Brand", Values: []string{d.VendorBrand}},
		{Name: "SoC Vendor ID", Values: []string{hexString(d.SoCVendorID)}},
		{Name: "SoC Product ID", Values: []string{hexString(d.SoCProductID)}},
	}
}
