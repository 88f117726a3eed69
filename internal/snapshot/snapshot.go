// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package snapshot captures raw CPUID leaves to a file and replays them, so a
// CPU can be decoded away from the machine it was captured on.
package snapshot

import (
	"cmp"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"cpuprobe/internal/cpuid"
)

// Format of a snapshot file
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Leaves past these offsets are not captured. Some hypervisors report
// implausible maxima.
const (
	maxStandardLeaves = 0x40
	maxExtendedLeaves = 0x40
)

// maxSoCVendorSubleaves is the number of brand sub-leaves of leaf 0x17.
const maxSoCVendorSubleaves = 3

// Register is a 32-bit register value, written as hex.
type Register uint32

// Register64 is a 64-bit register value, written as hex.
type Register64 uint64

// Leaf is one recorded CPUID query.
type Leaf struct {
	Leaf    Register `yaml:"leaf" json:"leaf"`
	Subleaf Register `yaml:"subleaf" json:"subleaf"`
	EAX     Register `yaml:"eax" json:"eax"`
	EBX     Register `yaml:"ebx" json:"ebx"`
	ECX     Register `yaml:"ecx" json:"ecx"`
	EDX     Register `yaml:"edx" json:"edx"`
}

// Snapshot is the set of leaves recorded from one CPU.
type Snapshot struct {
	Source   string     `yaml:"source" json:"source"`
	Captured string     `yaml:"captured,omitempty" json:"captured,omitempty"`
	XCR0     Register64 `yaml:"xcr0" json:"xcr0"`
	Leaves   []Leaf     `yaml:"leaves" json:"leaves"`
}

// Capture walks every leaf q reports, through the leaf gate, and records it.
func Capture(q cpuid.Querier, source string) (s Snapshot) {
	s.Source = source
	s.Captured = time.Now().UTC().Format(time.RFC3339)
	g := cpuid.NewGate(q)
	s.add(cpuid.LeafMaxStandard, 0, g.Base())
	if g.MaxStandard() == 0 {
		return
	}
	lastStandard := min(g.MaxStandard(), maxStandardLeaves)
	if lastStandard < g.MaxStandard() {
		slog.Debug("capping standard leaves", slog.String("reported", hex(g.MaxStandard())), slog.String("captured", hex(lastStandard)))
	}
	for leaf := uint32(1); leaf <= lastStandard; leaf++ {
		l, _ := g.Query(leaf)
		s.add(leaf, 0, l)
		switch leaf {
		case cpuid.LeafExtFeatures:
			l1, _ := g.QuerySub(leaf, 1)
			s.add(leaf, 1, l1)
		case cpuid.LeafSoCVendor:
			for sub := uint32(1); sub <= maxSoCVendorSubleaves; sub++ {
				ls, _ := g.QuerySub(leaf, sub)
				s.add(leaf, sub, ls)
			}
		case cpuid.LeafSignature:
			// XGETBV faults unless the OS set OSXSAVE
			if cpuid.Bit(l.ECX, 27) {
				s.XCR0 = Register64(g.XCR(0))
			}
		}
	}
	if g.MaxExtended() == 0 {
		return
	}
	lastExtended := min(g.MaxExtended(), cpuid.LeafMaxExtended+maxExtendedLeaves)
	for leaf := cpuid.LeafMaxExtended; leaf <= lastExtended; leaf++ {
		l, _ := g.Query(leaf)
		s.add(leaf, 0, l)
	}
	return
}

func (s *Snapshot) add(leaf, subleaf uint32, l cpuid.Leaf) {
	s.Leaves = append(s.Leaves, Leaf{
		Leaf:    Register(leaf),
		Subleaf: Register(subleaf),
		EAX:     Register(l.EAX),
		EBX:     Register(l.EBX),
		ECX:     Register(l.ECX),
		EDX:     Register(l.EDX),
	})
}

// Querier returns a Querier that replays the snapshot. Leaves that were not
// recorded read as zero.
func (s Snapshot) Querier() *cpuid.Replay {
	leaves := make(map[cpuid.Key]cpuid.Leaf, len(s.Leaves))
	for _, l := range s.Leaves {
		leaves[cpuid.Key{Leaf: uint32(l.Leaf), Subleaf: uint32(l.Subleaf)}] = cpuid.Leaf{
			EAX: uint32(l.EAX),
			EBX: uint32(l.EBX),
			ECX: uint32(l.ECX),
			EDX: uint32(l.EDX),
		}
	}
	return cpuid.NewReplay(leaves, uint64(s.XCR0))
}

// Validate checks that no leaf/sub-leaf pair is recorded twice.
func (s Snapshot) Validate() error {
	seen := make(map[cpuid.Key]bool, len(s.Leaves))
	for _, l := range s.Leaves {
		k := cpuid.Key{Leaf: uint32(l.Leaf), Subleaf: uint32(l.Subleaf)}
		if seen[k] {
			return errors.Errorf("leaf %s sub-leaf %d recorded more than once", hex(k.Leaf), k.Subleaf)
		}
		seen[k] = true
	}
	return nil
}

// Sort orders the leaves by leaf, then sub-leaf.
func (s *Snapshot) Sort() {
	slices.SortFunc(s.Leaves, func(a, b Leaf) int {
		if c := cmp.Compare(a.Leaf, b.Leaf); c != 0 {
			return c
		}
		return cmp.Compare(a.Subleaf, b.Subleaf)
	})
}

// FormatFromPath picks the file format from the file extension.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Marshal encodes the snapshot in format, leaves in leaf order.
func (s Snapshot) Marshal(format string) (out []byte, err error) {
	s.Leaves = slices.Clone(s.Leaves)
	s.Sort()
	switch format {
	case FormatYAML:
		out, err = yaml.Marshal(s)
	case FormatJSON:
		out, err = json.MarshalIndent(s, "", " ")
	default:
		err = errors.Errorf("unsupported snapshot format: %s", format)
		return
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to encode snapshot as %s", format)
	}
	return
}

// Unmarshal decodes a snapshot encoded in format.
func Unmarshal(data []byte, format string) (s Snapshot, err error) {
	switch format {
	case FormatYAML:
		err = yaml.UnmarshalStrict(data, &s)
	case FormatJSON:
		err = json.Unmarshal(data, &s)
	default:
		err = errors.Errorf("unsupported snapshot format: %s", format)
		return
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to decode %s snapshot", format)
		return
	}
	err = s.Validate()
	return
}

// Load reads a snapshot file. The format follows the file extension.
func Load(path string) (s Snapshot, err error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		err = errors.Wrap(err, "failed to read snapshot")
		return
	}
	slog.Debug("loading snapshot", slog.String("path", path), slog.Int("bytes", len(data)))
	s, err = Unmarshal(data, FormatFromPath(path))
	if err != nil {
		err = errors.Wrapf(err, "invalid snapshot %s", path)
	}
	return
}

// Save writes the snapshot to path. The format follows the file extension.
func (s Snapshot) Save(path string) error {
	out, err := s.Marshal(FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0644); err != nil { // #nosec G306
		return errors.Wrap(err, "failed to write snapshot")
	}
	slog.Debug("saved snapshot", slog.String("path", path), slog.Int("leaves", len(s.Leaves)))
	return nil
}

func hex(v uint32) string {
	return fmt.Sprintf("0x%X", v)
}

func parseRegister(text string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(text), 0, bits)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid register value %q", text)
	}
	return v, nil
}

func (r Register) String() string {
	return fmt.Sprintf("0x%08X", uint32(r))
}

func (r Register) MarshalYAML() (any, error) {
	return r.String(), nil
}

func (r *Register) UnmarshalYAML(unmarshal func(any) error) error {
	var text string
	if err := unmarshal(&text); err != nil {
		return err
	}
	v, err := parseRegister(text, 32)
	*r = Register(v)
	return err
}

func (r Register) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Register) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		var n uint32
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*r = Register(n)
		return nil
	}
	v, err := parseRegister(text, 32)
	*r = Register(v)
	return err
}

func (r Register64) String() string {
	return fmt.Sprintf("0x%X", uint64(r))
}

func (r Register64) MarshalYAML() (any, error) {
	return r.String(), nil
}

func (r *Register64) UnmarshalYAML(unmarshal func(any) error) error {
	var text string
	if err := unmarshal(&text); err != nil {
		return err
	}
	v, err := parseRegister(text, 64)
	*r = Register64(v)
	return err
}

func (r Register64) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Register64) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		var n uint64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*r = Register64(n)
		return nil
	}
	v, err := parseRegister(text, 64)
	*r = Register64(v)
	return err
}
