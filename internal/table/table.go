// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package table provides functions for accessing and processing table definitions.
package table

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/xuri/excelize/v2"

	"cpuprobe/internal/cpuinfo"
)

// Field represents the values for a field in a table
type Field struct {
	Name        string
	Description string // optional description of the field
	Values      []string
}

// TableValues combines the table definition with the resulting fields and their values
type TableValues struct {
	TableDefinition
	Fields []Field
}

type FieldsRetriever func(cpuinfo.Descriptor) []Field
type TextTableRenderer func(TableValues) string
type XlsxTableRenderer func(TableValues, *excelize.File, string, *int)

// TableDefinition defines the structure of a table in the report
type TableDefinition struct {
	Name    string
	Vendors []string // vendors, e.g., Intel, AMD. If empty, it will be present for all vendors.
	// Fields function is called to retrieve field values from the descriptor
	FieldsFunc            FieldsRetriever
	HasRows               bool   // table is meant to be displayed in row form, i.e., a field may have multiple values
	NoDataFound           string // message to display when no data is found
	TextTableRendererFunc TextTableRenderer
	XlsxTableRendererFunc XlsxTableRenderer
}

// IsTableForVendor reports whether the table applies to the vendor.
func IsTableForVendor(table TableDefinition, vendor string) bool {
	return len(table.Vendors) == 0 || slices.Contains(table.Vendors, vendor)
}

// ProcessTables generates table values for every table that applies to the
// descriptor's vendor, in the order given.
func ProcessTables(tables []TableDefinition, d cpuinfo.Descriptor) (allTableValues []TableValues) {
	for _, table := range tables {
		if !IsTableForVendor(table, d.Vendor.String()) {
			slog.Debug("skipping table for vendor", slog.String("table", table.Name), slog.String("vendor", d.Vendor.String()))
			continue
		}
		allTableValues = append(allTableValues, GetValuesForTable(table, d))
	}
	return
}

// GetFieldIndex returns the index of a field with the given name in the TableValues structure.
// Returns:
//   - int: The index of the field if found and valid, -1 otherwise
//   - error: nil if successful, an error describing the issue otherwise
func GetFieldIndex(fieldName string, tableValues TableValues) (int, error) {
	for i, field := range tableValues.Fields {
		if field.Name == fieldName {
			if len(field.Values) == 0 {
				return -1, fmt.Errorf("field [%s] does not have associated value(s)", field.Name)
			}
			return i, nil
		}
	}
	return -1, fmt.Errorf("field [%s] not found in table [%s]", fieldName, tableValues.Name)
}

// GetValuesForTable returns the fields and their values for the table
func GetValuesForTable(table TableDefinition, d cpuinfo.Descriptor) TableValues {
	// FieldsFunc can't be nil
	if table.FieldsFunc == nil {
		panic(fmt.Sprintf("table %s, FieldsFunc cannot be nil", table.Name))
	}
	tableValues := TableValues{
		TableDefinition: table,
		Fields:          table.FieldsFunc(d),
	}
	// sanity check
	if err := validateTableValues(tableValues); err != nil {
		slog.Error("table validation failed", slog.String("table", table.Name), slog.String("error", err.Error()))
		return TableValues{
			TableDefinition: table,
			Fields:          []Field{},
		}
	}
	return tableValues
}

func validateTableValues(tableValues TableValues) error {
	if tableValues.Name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	// no field values is a valid state
	if len(tableValues.Fields) == 0 {
		return nil
	}
	// field names cannot be empty
	for i, field := range tableValues.Fields {
		if field.Name == "" {
			return fmt.Errorf("table %s, field %d, name cannot be empty", tableValues.Name, i)
		}
	}
	// the number of entries in each field must be the same
	numEntries := len(tableValues.Fields[0].Values)
	for i, field := range tableValues.Fields {
		if len(field.Values) != numEntries {
			return fmt.Errorf("table %s, field %d, %s, number of entries must be the same for all fields, expected %d, got %d", tableValues.Name, i, field.Name, numEntries, len(field.Values))
		}
	}
	return nil
}
