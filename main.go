// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"cpuprobe/cmd"
)

const profileEnv = "CPUPROBE_PROFILE"

func main() {
	if os.Getenv(profileEnv) != "" {
		stop, err := startProfiling("cpu.prof", "mem.prof")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer stop()
	}
	cmd.Execute()
}

// startProfiling starts CPU profiling and returns a function that stops it
// and writes the heap profile.
func startProfiling(cpuPath, memPath string) (func(), error) {
	cpuFile, err := os.Create(cpuPath)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		cpuFile.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		cpuFile.Close()
		memFile, err := os.Create(memPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		defer memFile.Close()
		if err := pprof.WriteHeapProfile(memFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Printf("Profiling data written to %s and %s\n", cpuPath, memPath)
		fmt.Printf("  go tool pprof %s\n", cpuPath)
		fmt.Printf("  go tool pprof -http=:8080 %s\n", memPath)
	}, nil
}
