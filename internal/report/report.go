// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package report provides functions to generate reports in various formats such as txt, json, xlsx.
package report

import (
	"fmt"
	"slices"
	"strings"

	"cpuprobe/internal/table"
	"cpuprobe/internal/util"
)

const (
	FormatXlsx = "xlsx"
	FormatJson = "json"
	FormatTxt  = "txt"
	FormatAll  = "all"
)

const NoDataFound = "No data found."

var FormatOptions = []string{FormatTxt, FormatJson, FormatXlsx}

// Create generates a report in the specified format from the table values.
// The function ensures that all fields have the same number of values before generating the report.
// If the format is not supported, the function panics with an error message.
func Create(format string, allTableValues []table.TableValues) (out []byte, err error) {
	// make sure that all fields have the same number of values
	for _, tableValue := range allTableValues {
		numRows := -1
		for _, fieldValues := range tableValue.Fields {
			if numRows == -1 {
				numRows = len(fieldValues.Values)
				continue
			}
			if len(fieldValues.Values) != numRows {
				return nil, fmt.Errorf("expected %d value(s) for field, found %d", numRows, len(fieldValues.Values))
			}
		}
	}
	switch format {
	case FormatTxt:
		return createTextReport(allTableValues)
	case FormatJson:
		return createJsonReport(allTableValues)
	case FormatXlsx:
		return createXlsxReport(allTableValues)
	}
	panic(fmt.Sprintf("expected one of %s, got %s", strings.Join(FormatOptions, ", "), format))
}

// ParseFormats validates the requested formats and expands "all". The result
// has no duplicates and keeps the order of FormatOptions.
func ParseFormats(requested []string) ([]string, error) {
	var formats []string
	for _, format := range requested {
		format = strings.ToLower(strings.TrimSpace(format))
		switch {
		case format == FormatAll:
			return slices.Clone(FormatOptions), nil
		case slices.Contains(FormatOptions, format):
			formats = util.UniqueAppend(formats, format)
		default:
			return nil, fmt.Errorf("format options are: %s", strings.Join(append(slices.Clone(FormatOptions), FormatAll), ", "))
		}
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no report format specified")
	}
	var ordered []string
	for _, format := range FormatOptions {
		if slices.Contains(formats, format) {
			ordered = append(ordered, format)
		}
	}
	return ordered, nil
}
