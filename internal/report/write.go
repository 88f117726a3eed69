// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package report

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"cpuprobe/internal/table"
	"cpuprobe/internal/util"
)

// WriteReports creates one report file per format in outputDir, named
// <baseName>.<format>, creating outputDir when missing. It returns the paths
// written.
func WriteReports(allTableValues []table.TableValues, formats []string, outputDir string, baseName string) ([]string, error) {
	if err := util.CreateDirectoryIfNotExists(outputDir, 0755); err != nil {
		return nil, err
	}
	var reportPaths []string
	for _, format := range formats {
		reportBytes, err := Create(format, allTableValues)
		if err != nil {
			return reportPaths, fmt.Errorf("failed to create %s report: %w", format, err)
		}
		reportPath := filepath.Join(outputDir, fmt.Sprintf("%s.%s", baseName, format))
		if err = writeReport(reportBytes, reportPath); err != nil {
			return reportPaths, err
		}
		slog.Debug("wrote report", slog.String("path", reportPath))
		reportPaths = append(reportPaths, reportPath)
	}
	return reportPaths, nil
}

// writeReport writes the report bytes to the specified path.
func writeReport(reportBytes []byte, reportPath string) error {
	err := os.WriteFile(reportPath, reportBytes, 0644) // #nosec G306
	if err != nil {
		return fmt.Errorf("failed to write report file: %v", err)
	}
	return nil
}

// Print renders a single format to w. The xlsx format is binary and is
// refused when w is a terminal.
func Print(w io.Writer, format string, allTableValues []table.TableValues) error {
	if format == FormatXlsx {
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return fmt.Errorf("refusing to write %s report to a terminal, specify an output directory", format)
		}
	}
	reportBytes, err := Create(format, allTableValues)
	if err != nil {
		return err
	}
	_, err = w.Write(reportBytes)
	return err
}
