// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpuid

import (
	"slices"
	"sync"
)

// Key identifies a leaf/sub-leaf pair.
type Key struct {
	Leaf    uint32
	Subleaf uint32
}

// Replay is a Querier that answers from recorded register values. Leaves that
// were not recorded return zeros, like a CPU answering past its maximum.
// Every query is remembered so the issued leaves can be inspected afterwards.
type Replay struct {
	leaves map[Key]Leaf
	xcr0   uint64

	mu      sync.Mutex
	queried []Key
	xcrRead int
}

// NewReplay returns a Replay answering from leaves, with xcr0 as the value of
// extended control register 0.
func NewReplay(leaves map[Key]Leaf, xcr0 uint64) *Replay {
	if leaves == nil {
		leaves = map[Key]Leaf{}
	}
	return &Replay{leaves: leaves, xcr0: xcr0}
}

func (r *Replay) CPUID(leaf, subleaf uint32) Leaf {
	k := Key{Leaf: leaf, Subleaf: subleaf}
	r.mu.Lock()
	r.queried = append(r.queried, k)
	r.mu.Unlock()
	return r.leaves[k]
}

func (r *Replay) XGetBV(index uint32) uint64 {
	r.mu.Lock()
	r.xcrRead++
	r.mu.Unlock()
	if index != 0 {
		return 0
	}
	return r.xcr0
}

// Queried returns every leaf/sub-leaf pair issued so far, in order.
func (r *Replay) Queried() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.queried)
}

// WasQueried reports whether leaf was issued with any sub-leaf.
func (r *Replay) WasQueried(leaf uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.ContainsFunc(r.queried, func(k Key) bool { return k.Leaf == leaf })
}

// XCRReads returns how many times XGetBV was called.
func (r *Replay) XCRReads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.xcrRead
}
