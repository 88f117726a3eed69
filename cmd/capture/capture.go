// Package capture is a subcommand of the root command. It saves the raw CPUID leaves of the host to a snapshot file.
package capture

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cpuprobe/internal/common"
	"cpuprobe/internal/cpuid"
	"cpuprobe/internal/snapshot"
	"cpuprobe/internal/util"
)

const cmdName = "capture"

var examples = []string{
	fmt.Sprintf("  Save the host leaves as YAML: $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  Save to a specific file:      $ %s %s --file host.json", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Save the host's raw CPUID leaves to a snapshot file",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var (
	flagFile   string
	flagSource string
)

const (
	flagFileName   = "file"
	flagSourceName = "source"
)

func init() {
	Cmd.Flags().StringVar(&flagFile, flagFileName, "", "")
	Cmd.Flags().StringVar(&flagSource, flagSourceName, "", "")
	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []common.FlagGroup {
	return []common.FlagGroup{
		{
			GroupName: "Options",
			Flags: []common.Flag{
				{Name: flagFileName, Help: "snapshot file to write, .yaml, .yml or .json (default: <hostname>.yaml in the output directory)"},
				{Name: flagSourceName, Help: "description stored in the snapshot (default: hostname)"},
			},
		},
	}
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if flagFile == "" {
		return nil
	}
	switch strings.ToLower(filepath.Ext(flagFile)) {
	case ".yaml", ".yml", ".json":
		return nil
	}
	return common.FlagValidationError(cmd, fmt.Sprintf("--%s must end in .yaml, .yml or .json", flagFileName))
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := common.GetAppContext(cmd)
	q, err := cpuid.Host()
	if err != nil {
		return common.CommandError(cmd, err)
	}
	hostname, err := os.Hostname()
	if err != nil {
		slog.Warn("failed to get hostname", slog.String("error", err.Error()))
		hostname = "localhost"
	}
	source := flagSource
	if source == "" {
		source = hostname
	}
	path, err := snapshotPath(flagFile, appContext.OutputDir, hostname)
	if err != nil {
		return common.CommandError(cmd, err)
	}
	snap := snapshot.Capture(q, source)
	if err := snap.Save(path); err != nil {
		return common.CommandError(cmd, err)
	}
	slog.Info("captured snapshot", slog.String("path", path), slog.Int("leaves", len(snap.Leaves)))
	fmt.Printf("Snapshot file:\n  %s\n", path)
	return nil
}

// snapshotPath resolves where the snapshot goes, creating the output
// directory when the default location is used.
func snapshotPath(file string, outputDir string, hostname string) (string, error) {
	if file != "" {
		return util.AbsPath(file)
	}
	if outputDir == "" {
		return util.AbsPath(common.ReportBaseName(hostname, "") + ".yaml")
	}
	if err := util.CreateDirectoryIfNotExists(outputDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(outputDir, common.ReportBaseName(hostname, "")+".yaml"), nil
}
