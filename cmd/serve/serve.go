// Package serve is a subcommand of the root command. It exports the host processor as Prometheus metrics.
package serve

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cpuprobe/internal/common"
	"cpuprobe/internal/cpuinfo"
	"cpuprobe/internal/exporter"
)

const cmdName = "serve"

var examples = []string{
	fmt.Sprintf("  Serve metrics on the default port: $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  Serve on localhost only:           $ %s %s --listen 127.0.0.1:9123", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Export processor metrics for Prometheus on /metrics",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "other",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var flagListen string

const (
	flagListenName    = "listen"
	defaultListenAddr = ":9123"
)

func init() {
	Cmd.Flags().StringVar(&flagListen, flagListenName, defaultListenAddr, "")
	Cmd.SetUsageFunc(common.UsageFunc(func() []common.FlagGroup {
		return []common.FlagGroup{{
			GroupName: "Options",
			Flags: []common.Flag{
				{Name: flagListenName, Help: "address the metrics server listens on"},
			},
		}}
	}))
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if _, _, err := net.SplitHostPort(flagListen); err != nil {
		return common.FlagValidationError(cmd, fmt.Sprintf("invalid --%s address %q: %v", flagListenName, flagListen, err))
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	// fail early when the host can't be read
	if _, err := cpuinfo.Host(); err != nil {
		return common.CommandError(cmd, err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	fmt.Printf("Serving metrics on %s/metrics\n", flagListen)
	if err := exporter.Serve(ctx, flagListen, cpuinfo.Host); err != nil {
		return common.CommandError(cmd, err)
	}
	return nil
}
