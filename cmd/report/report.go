// Package report is a subcommand of the root command. It generates a processor report for the host or a snapshot.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cpuprobe/internal/common"
	"cpuprobe/internal/report"
	"cpuprobe/internal/table"
)

const cmdName = "report"

var examples = []string{
	fmt.Sprintf("  Report the host processor:           $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  SIMD extensions only, as json:       $ %s %s --simd --avx512 --format json", common.AppName, cmdName),
	fmt.Sprintf("  All formats, written to a directory: $ %s %s --format all --output reports", common.AppName, cmdName),
	fmt.Sprintf("  Report a saved snapshot:             $ %s %s --input host.yaml", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Generate processor report for the host or a snapshot",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

// flag vars
var (
	flagAll bool
	// categories
	flagProcessor bool
	flagSIMD      bool
	flagAVX512    bool
	flagSoC       bool
)

// flag names
const (
	flagAllName = "all"
	// categories
	flagProcessorName = "processor"
	flagSIMDName      = "simd"
	flagAVX512Name    = "avx512"
	flagSoCName       = "soc"
)

// categories maps flag names to tables that will be included in report
var categories = []common.Category{
	{FlagName: flagProcessorName, FlagVar: &flagProcessor, Help: "Processor Identification", Tables: tablesNamed(report.ProcessorTableName)},
	{FlagName: flagSIMDName, FlagVar: &flagSIMD, Help: "SIMD Extensions", Tables: tablesNamed(report.SIMDTableName)},
	{FlagName: flagAVX512Name, FlagVar: &flagAVX512, Help: "AVX-512 Extensions", Tables: tablesNamed(report.AVX512TableName)},
	{FlagName: flagSoCName, FlagVar: &flagSoC, Help: "SoC Vendor (Intel only)", Tables: tablesNamed(report.SoCTableName)},
}

func tablesNamed(names ...string) (tables []table.TableDefinition) {
	for _, t := range report.Tables() {
		for _, name := range names {
			if t.Name == name {
				tables = append(tables, t)
			}
		}
	}
	return
}

func init() {
	// set up category flags
	for _, cat := range categories {
		Cmd.Flags().BoolVar(cat.FlagVar, cat.FlagName, cat.DefaultValue, cat.Help)
	}
	// set up other flags
	Cmd.Flags().StringVar(&common.FlagInput, common.FlagInputName, "", "")
	Cmd.Flags().BoolVar(&flagAll, flagAllName, true, "")
	Cmd.Flags().StringSliceVar(&common.FlagFormat, common.FlagFormatName, []string{report.FormatTxt}, "")

	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []common.FlagGroup {
	var groups []common.FlagGroup
	flags := []common.Flag{
		{
			Name: flagAllName,
			Help: "report all categories",
		},
	}
	for _, cat := range categories {
		flags = append(flags, common.Flag{
			Name: cat.FlagName,
			Help: cat.Help,
		})
	}
	groups = append(groups, common.FlagGroup{
		GroupName: "Categories",
		Flags:     flags,
	})
	groups = append(groups, common.FlagGroup{
		GroupName: "Other Options",
		Flags: []common.Flag{
			{
				Name: common.FlagFormatName,
				Help: fmt.Sprintf("choose output format(s) from: %s", strings.Join(append([]string{report.FormatAll}, report.FormatOptions...), ", ")),
			},
		},
	})
	groups = append(groups, common.FlagGroup{
		GroupName: "Advanced Options",
		Flags: []common.Flag{
			{
				Name: common.FlagInputName,
				Help: "snapshot file (.yaml, .yml or .json) created by the capture command. Will decode it instead of the host processor.",
			},
		},
	})
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	// clear flagAll if any categories are selected
	if flagAll {
		for _, cat := range categories {
			if cat.FlagVar != nil && *cat.FlagVar {
				flagAll = false
				break
			}
		}
	}
	formats, err := report.ParseFormats(common.FlagFormat)
	if err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	// only one format fits on stdout
	if len(formats) > 1 && !cmd.Flags().Lookup(common.FlagOutputDirName).Changed {
		return common.FlagValidationError(cmd, fmt.Sprintf("--%s is required when more than one format is requested", common.FlagOutputDirName))
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	var tables []table.TableDefinition
	for _, cat := range categories {
		if (cat.FlagVar != nil && *cat.FlagVar) || flagAll {
			tables = append(tables, cat.Tables...)
		}
	}
	reportingCommand := common.ReportingCommand{
		Cmd:    cmd,
		Tables: tables,
	}
	return reportingCommand.Run()
}
