// Package check is a subcommand of the root command. It evaluates a feature requirement against the host or a snapshot.
package check

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cpuprobe/internal/common"
	"cpuprobe/internal/cpuinfo"
	"cpuprobe/internal/requirement"
)

const cmdName = "check"

var examples = []string{
	fmt.Sprintf("  Require AVX2 and FMA3:            $ %s %s 'AVX2 && FMA3'", common.AppName, cmdName),
	fmt.Sprintf("  Require an AVX-512 capable Intel: $ %s %s \"Vendor == 'Intel' && AVX512F\"", common.AppName, cmdName),
	fmt.Sprintf("  Check a saved snapshot:           $ %s %s --input host.yaml 'SSE42 && MaxMHz >= 3000'", common.AppName, cmdName),
	fmt.Sprintf("  List the variables:               $ %s %s --list", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " <expression>",
	Short:         "Check the processor against a feature requirement",
	Long:          "Evaluates a boolean expression over the decoded processor. Exits with a non-zero status when the requirement is not met.",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
}

// ErrNotSatisfied is returned when the processor does not meet the requirement.
var ErrNotSatisfied = errors.New("requirement not satisfied")

var flagList bool

const flagListName = "list"

func init() {
	Cmd.Flags().StringVar(&common.FlagInput, common.FlagInputName, "", "")
	Cmd.Flags().BoolVar(&flagList, flagListName, false, "")
	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []common.FlagGroup {
	return []common.FlagGroup{
		{
			GroupName: "Options",
			Flags: []common.Flag{
				{Name: flagListName, Help: "list the variables an expression may use"},
			},
		},
		{
			GroupName: "Advanced Options",
			Flags: []common.Flag{
				{Name: common.FlagInputName, Help: "snapshot file created by the capture command. Will decode it instead of the host processor."},
			},
		},
	}
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if !flagList && len(args) != 1 {
		return common.FlagValidationError(cmd, "an expression is required")
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	if flagList {
		fmt.Println(strings.Join(requirement.VariableNames(), "\n"))
		return nil
	}
	r, err := requirement.Parse(args[0])
	if err != nil {
		return common.CommandError(cmd, err)
	}
	d, source, err := common.ReadDescriptor(common.FlagInput)
	if err != nil {
		return common.CommandError(cmd, err)
	}
	satisfied, err := evaluate(os.Stdout, r, d)
	if err != nil {
		return common.CommandError(cmd, err)
	}
	slog.Info("evaluated requirement", slog.String("expression", r.String()), slog.String("source", source), slog.Bool("satisfied", satisfied))
	if !satisfied {
		cmd.SilenceUsage = true
		return ErrNotSatisfied
	}
	return nil
}

// evaluate prints PASS or FAIL, with the missing features, to w.
func evaluate(w io.Writer, r *requirement.Requirement, d cpuinfo.Descriptor) (bool, error) {
	satisfied, err := r.Evaluate(d)
	if err != nil {
		return false, err
	}
	if satisfied {
		fmt.Fprintf(w, "PASS: %s\n", r)
		return true, nil
	}
	fmt.Fprintf(w, "FAIL: %s\n", r)
	if missing := r.Missing(d); len(missing) > 0 {
		fmt.Fprintf(w, "  missing: %s\n", strings.Join(missing, ", "))
	}
	return false, nil
}
