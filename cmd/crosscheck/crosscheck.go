// Package crosscheck is a subcommand of the root command. It compares the decoded host processor with other feature detectors.
package crosscheck

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
	"cpuprobe/internal/crosscheck"
)

const cmdName = "crosscheck"

var examples = []string{
	fmt.Sprintf("  Compare the host processor:     $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  Fail on any disagreement:       $ %s %s --strict", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Compare the decoded host processor with klauspost/cpuid and golang.org/x/sys/cpu",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	GroupID:       "other",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

// ErrDisagreement is returned in strict mode when any reference disagrees.
var ErrDisagreement = errors.New("references disagree with the decoded processor")

var flagStrict bool

const flagStrictName = "strict"

func init() {
	Cmd.Flags().BoolVar(&flagStrict, flagStrictName, false, "")
	Cmd.SetUsageFunc(common.UsageFunc(func() []common.FlagGroup {
		return []common.FlagGroup{{
			GroupName: "Options",
			Flags: []common.Flag{
				{Name: flagStrictName, Help: "exit with a non-zero status when any reference disagrees"},
			},
		}}
	}))
}

func runCmd(cmd *cobra.Command, args []string) error {
	d, err := cpuinfo.Host()
	if err != nil {
		return common.CommandError(cmd, err)
	}
	refs := crosscheck.HostReferences()
	if !printResults(os.Stdout, d, refs) && flagStrict {
		cmd.SilenceUsage = true
		return ErrDisagreement
	}
	return nil
}

// printResults writes one section per reference and reports whether all
// references agree.
func printResults(w io.Writer, d cpuinfo.Descriptor, refs []crosscheck.Reference) bool {
	agree := true
	for _, ref := range refs {
		result := crosscheck.Compare(d, ref)
		fmt.Fprintf(w, "%s\n%s\n", result.Reference, strings.Repeat("=", len(result.Reference)))
		fmt.Fprintf(w, "compared: %d, differences: %d\n", result.Compared, len(result.Differences))
		for _, difference := range result.Differences {
			fmt.Fprintf(w, "  %s\n", difference)
			slog.Info("crosscheck difference", slog.String("reference", result.Reference), slog.String("field", difference.Field), slog.String("decoded", difference.Decoded), slog.String("reported", difference.Reference))
		}
		fmt.Fprintln(w)
		agree = agree && result.Agrees()
	}
	if names := crosscheck.Unexpressed(refs); len(names) > 0 {
		fmt.Fprintf(w, "not compared: %s\n", strings.Join(names, ", "))
	}
	return agree
}
