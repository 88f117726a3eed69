// Package common defines data structures and functions that are used by multiple
// application commands, e.g., report, capture, check, serve.
package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"cpuprobe/internal/cpuinfo"
	"cpuprobe/internal/report"
	"cpuprobe/internal/snapshot"
	"cpuprobe/internal/table"
	"cpuprobe/internal/util"
)

var AppName = filepath.Base(os.Args[0])

// AppContext represents the application context that can be accessed from all commands.
type AppContext struct {
	Timestamp   string // Timestamp is the timestamp when the application was started.
	OutputDir   string // OutputDir is where reports are written. Empty means stdout.
	LogFilePath string // LogFilePath is the path to the log file.
	Version     string // Version is the version of the application.
	Debug       bool   // Debug is true if the application is running in debug mode.
}

// Flag names for flags defined in the root command, but sometimes used in other commands.
const (
	FlagDebugName     = "debug"
	FlagSyslogName    = "syslog"
	FlagLogStdOutName = "log-stdout"
	FlagOutputDirName = "output"
)

// Flag names for input and format flags used by reporting commands.
const (
	FlagInputName  = "input"
	FlagFormatName = "format"
)

var (
	FlagInput  string
	FlagFormat []string
)

type Flag struct {
	Name string
	Help string
}
type FlagGroup struct {
	GroupName string
	Flags     []Flag
}

// Category maps a command line flag to the tables it selects.
type Category struct {
	FlagName     string
	Tables       []table.TableDefinition
	FlagVar      *bool
	DefaultValue bool
	Help         string
}

// GetAppContext returns the context set by the root command, or the zero
// AppContext when the command runs outside the root command.
func GetAppContext(cmd *cobra.Command) AppContext {
	ctx := cmd.Root().Context()
	if ctx == nil {
		return AppContext{}
	}
	if appContext, ok := ctx.Value(AppContext{}).(AppContext); ok {
		return appContext
	}
	return AppContext{}
}

// FlagValidationError is used to report an error with a flag
func FlagValidationError(cmd *cobra.Command, msg string) error {
	err := errors.New(msg)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	fmt.Fprintf(os.Stderr, "See '%s --help' for usage details.\n", cmd.CommandPath())
	cmd.SilenceUsage = true
	return err
}

// CommandError reports a runtime error the way every command does: to stderr
// and to the log.
func CommandError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	slog.Error(err.Error())
	cmd.SilenceUsage = true
	return err
}

// UsageFunc prints the command's flag groups followed by the global flags.
func UsageFunc(groups func() []FlagGroup) func(*cobra.Command) error {
	return func(cmd *cobra.Command) error {
		cmd.Printf("Usage: %s [flags]\n\n", cmd.CommandPath())
		if cmd.Example != "" {
			cmd.Printf("Examples:\n%s\n\n", cmd.Example)
		}
		cmd.Println("Flags:")
		for _, group := range groups() {
			cmd.Printf("  %s:\n", group.GroupName)
			for _, flag := range group.Flags {
				flagDefault := ""
				if f := cmd.Flags().Lookup(flag.Name); f != nil && f.DefValue != "" && f.DefValue != "[]" {
					flagDefault = fmt.Sprintf(" (default: %s)", f.DefValue)
				}
				cmd.Printf("    --%-20s %s%s\n", flag.Name, flag.Help, flagDefault)
			}
		}
		cmd.Println("\nGlobal Flags:")
		cmd.Root().PersistentFlags().VisitAll(func(pf *pflag.Flag) {
			flagDefault := ""
			if pf.DefValue != "" {
				flagDefault = fmt.Sprintf(" (default: %s)", pf.DefValue)
			}
			cmd.Printf("  --%-20s %s%s\n", pf.Name, pf.Usage, flagDefault)
		})
		return nil
	}
}

// ReadDescriptor decodes the snapshot file at input, or the host processor
// when input is empty. The second result names where the data came from.
func ReadDescriptor(input string) (cpuinfo.Descriptor, string, error) {
	if input == "" {
		d, err := cpuinfo.Host()
		if err != nil {
			return d, "", fmt.Errorf("failed to read host processor: %w", err)
		}
		hostname, err := os.Hostname()
		if err != nil {
			slog.Warn("failed to get hostname", slog.String("error", err.Error()))
			hostname = "localhost"
		}
		return d, hostname, nil
	}
	path, err := util.AbsPath(input)
	if err != nil {
		return cpuinfo.Descriptor{}, "", fmt.Errorf("failed to expand input path: %w", err)
	}
	exists, err := util.FileExists(path)
	if err != nil {
		return cpuinfo.Descriptor{}, "", err
	}
	if !exists {
		return cpuinfo.Descriptor{}, "", fmt.Errorf("input file not found: %s", path)
	}
	snap, err := snapshot.Load(path)
	if err != nil {
		return cpuinfo.Descriptor{}, "", err
	}
	source := snap.Source
	if source == "" {
		source = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	slog.Info("decoding snapshot", slog.String("path", path), slog.String("source", source), slog.Int("leaves", len(snap.Leaves)))
	return cpuinfo.Read(snap.Querier()), source, nil
}

// ReportBaseName turns a source name into a file name without extension.
func ReportBaseName(source string, post string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '(', ')':
			return '_'
		}
		return r
	}, strings.TrimSpace(source))
	if name == "" {
		name = AppName
	}
	if post != "" {
		name += "_" + post
	}
	return name
}

type ReportingCommand struct {
	Cmd            *cobra.Command
	ReportNamePost string
	Tables         []table.TableDefinition
}

// Run is the common flow for reporting commands. It decodes the processor,
// builds the tables and writes the requested formats to the output
// directory, or to stdout when no output directory was given.
func (rc *ReportingCommand) Run() error {
	appContext := GetAppContext(rc.Cmd)
	formats, err := report.ParseFormats(FlagFormat)
	if err != nil {
		return CommandError(rc.Cmd, err)
	}
	d, source, err := ReadDescriptor(FlagInput)
	if err != nil {
		return CommandError(rc.Cmd, err)
	}
	slog.Debug("decoded processor", slog.String("source", source), slog.String("summary", d.Summary()))
	allTableValues := table.ProcessTables(rc.Tables, d)
	if appContext.OutputDir == "" {
		for _, format := range formats {
			if err := report.Print(os.Stdout, format, allTableValues); err != nil {
				return CommandError(rc.Cmd, err)
			}
		}
		return nil
	}
	reportFilePaths, err := report.WriteReports(allTableValues, formats, appContext.OutputDir, ReportBaseName(source, rc.ReportNamePost))
	if err != nil {
		return CommandError(rc.Cmd, err)
	}
	if len(reportFilePaths) > 0 {
		fmt.Println("Report files:")
	}
	for _, reportFilePath := range reportFilePaths {
		fmt.Printf("  %s\n", reportFilePath)
	}
	return nil
}
