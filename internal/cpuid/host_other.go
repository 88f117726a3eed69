// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

//go:build !386 && !amd64

package cpuid

// Host returns ErrUnsupportedArch; snapshots can still be decoded.
func Host() (Querier, error) {
	return nil, ErrUnsupportedArch
}
