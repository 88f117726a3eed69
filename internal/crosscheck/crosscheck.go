// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package crosscheck compares a decoded processor against other CPU feature
// detectors, klauspost/cpuid and golang.org/x/sys/cpu.
package crosscheck

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"

	"cpuprobe/internal/cpuinfo"
	"cpuprobe/internal/simd"
)

// Reference is what another detector reports. Known holds the feature names
// it can express; a feature outside Known is never compared.
type Reference struct {
	Name     string
	Brand    string // empty when not reported
	Family   int    // display family, -1 when not reported
	Model    int    // display model, -1 when not reported
	Known    mapset.Set[string]
	Features mapset.Set[string]
}

// Difference is one disagreement between the decoder and a reference.
type Difference struct {
	Field     string
	Decoded   string
	Reference string
}

func (d Difference) String() string {
	return fmt.Sprintf("%s: decoded %s, reference %s", d.Field, d.Decoded, d.Reference)
}

// Result is the outcome of comparing against one reference.
type Result struct {
	Reference   string
	Compared    int
	Differences []Difference
}

// Agrees reports whether no differences were found.
func (r Result) Agrees() bool {
	return len(r.Differences) == 0
}

// Compare checks brand, display family and model, and every feature both
// sides can express.
func Compare(d cpuinfo.Descriptor, ref Reference) Result {
	result := Result{Reference: ref.Name}
	if ref.Brand != "" {
		result.Compared++
		decoded := strings.TrimSpace(d.ProcessorBrand)
		if decoded != strings.TrimSpace(ref.Brand) {
			result.Differences = append(result.Differences, Difference{Field: "Brand", Decoded: decoded, Reference: ref.Brand})
		}
	}
	if ref.Family >= 0 {
		result.Compared++
		if int(d.Signature.DisplayFamily()) != ref.Family {
			result.Differences = append(result.Differences, Difference{Field: "Family", Decoded: fmt.Sprintf("0x%X", d.Signature.DisplayFamily()), Reference: fmt.Sprintf("0x%X", ref.Family)})
		}
	}
	if ref.Model >= 0 {
		result.Compared++
		if int(d.Signature.DisplayModel()) != ref.Model {
			result.Differences = append(result.Differences, Difference{Field: "Model", Decoded: fmt.Sprintf("0x%X", d.Signature.DisplayModel()), Reference: fmt.Sprintf("0x%X", ref.Model)})
		}
	}
	for _, feature := range simd.Features() {
		if ref.Known == nil || !ref.Known.Contains(feature.Name) {
			continue
		}
		result.Compared++
		decoded := feature.In(d.Features)
		reported := ref.Features != nil && ref.Features.Contains(feature.Name)
		if decoded != reported {
			result.Differences = append(result.Differences, Difference{Field: feature.Name, Decoded: supported(decoded), Reference: supported(reported)})
		}
	}
	return result
}

func supported(b bool) string {
	if b {
		return "supported"
	}
	return "not supported"
}

// klauspostFeatures maps feature names to klauspost/cpuid identifiers.
var klauspostFeatures = map[string]cpuid.FeatureID{
	"MMX":                cpuid.MMX,
	"SSE":                cpuid.SSE,
	"SSE2":               cpuid.SSE2,
	"SSE3":               cpuid.SSE3,
	"SSSE3":              cpuid.SSSE3,
	"SSE41":              cpuid.SSE4,
	"SSE42":              cpuid.SSE42,
	"SSE4A":              cpuid.SSE4A,
	"XOP":                cpuid.XOP,
	"FMA4":               cpuid.FMA4,
	"AVX":                cpuid.AVX,
	"AVX2":               cpuid.AVX2,
	"FMA3":               cpuid.FMA3,
	"XSAVE":              cpuid.XSAVE,
	"OSXSAVE":            cpuid.OSXSAVE,
	"AVX512F":            cpuid.AVX512F,
	"AVX512DQ":           cpuid.AVX512DQ,
	"AVX512IFMA":         cpuid.AVX512IFMA,
	"AVX512PF":           cpuid.AVX512PF,
	"AVX512ER":           cpuid.AVX512ER,
	"AVX512CD":           cpuid.AVX512CD,
	"AVX512BW":           cpuid.AVX512BW,
	"AVX512VL":           cpuid.AVX512VL,
	"GFNI":               cpuid.GFNI,
	"AVX512VBMI":         cpuid.AVX512VBMI,
	"AVX512VBMI2":        cpuid.AVX512VBMI2,
	"AVX512VNNI":         cpuid.AVX512VNNI,
	"AVX512BITALG":       cpuid.AVX512BITALG,
	"AVX512VPOPCNTDQ":    cpuid.AVX512VPOPCNTDQ,
	"AVX512VP2INTERSECT": cpuid.AVX512VP2INTERSECT,
	"AVX512BF16":         cpuid.AVX512BF16,
	"VPCLMULQDQ":         cpuid.VPCLMULQDQ,
}

// KlauspostReference converts klauspost/cpuid detection results.
func KlauspostReference(info cpuid.CPUInfo) Reference {
	ref := Reference{
		Name:     "klauspost/cpuid",
		Brand:    info.BrandName,
		Family:   info.Family,
		Model:    info.Model,
		Known:    mapset.NewThreadUnsafeSet[string](),
		Features: mapset.NewThreadUnsafeSet[string](),
	}
	for name, id := range klauspostFeatures {
		ref.Known.Add(name)
		if info.Supports(id) {
			ref.Features.Add(name)
		}
	}
	return ref
}

// SysCPUFlags is the subset of golang.org/x/sys/cpu X86 flags with a
// matching feature, keyed by feature name.
func SysCPUFlags() map[string]bool {
	return map[string]bool{
		"SSE2":            cpu.X86.HasSSE2,
		"SSE3":            cpu.X86.HasSSE3,
		"SSSE3":           cpu.X86.HasSSSE3,
		"SSE41":           cpu.X86.HasSSE41,
		"SSE42":           cpu.X86.HasSSE42,
		"AVX":             cpu.X86.HasAVX,
		"AVX2":            cpu.X86.HasAVX2,
		"FMA3":            cpu.X86.HasFMA,
		"OSXSAVE":         cpu.X86.HasOSXSAVE,
		"AVX512F":         cpu.X86.HasAVX512F,
		"AVX512DQ":        cpu.X86.HasAVX512DQ,
		"AVX512IFMA":      cpu.X86.HasAVX512IFMA,
		"AVX512PF":        cpu.X86.HasAVX512PF,
		"AVX512ER":        cpu.X86.HasAVX512ER,
		"AVX512CD":        cpu.X86.HasAVX512CD,
		"AVX512BW":        cpu.X86.HasAVX512BW,
		"AVX512VL":        cpu.X86.HasAVX512VL,
		"GFNI":            cpu.X86.HasAVX512GFNI,
		"AVX512VBMI":      cpu.X86.HasAVX512VBMI,
		"AVX512VBMI2":     cpu.X86.HasAVX512VBMI2,
		"AVX512VNNI":      cpu.X86.HasAVX512VNNI,
		"AVX512BITALG":    cpu.X86.HasAVX512BITALG,
		"AVX512VPOPCNTDQ": cpu.X86.HasAVX512VPOPCNTDQ,
		"AVX512_4VNNIW":   cpu.X86.HasAVX5124VNNIW,
		"AVX512_4FMAPS":   cpu.X86.HasAVX5124FMAPS,
		"AVX512BF16":      cpu.X86.HasAVX512BF16,
		"VPCLMULQDQ":      cpu.X86.HasAVX512VPCLMULQDQ,
	}
}

// FlagsReference builds a feature-only reference from name to support flags.
func FlagsReference(name string, flags map[string]bool) Reference {
	ref := Reference{
		Name:     name,
		Family:   -1,
		Model:    -1,
		Known:    mapset.NewThreadUnsafeSet[string](),
		Features: mapset.NewThreadUnsafeSet[string](),
	}
	for feature, has := range flags {
		ref.Known.Add(feature)
		if has {
			ref.Features.Add(feature)
		}
	}
	return ref
}

// HostReferences returns the references detected on the running processor.
func HostReferences() []Reference {
	return []Reference{
		KlauspostReference(cpuid.CPU),
		FlagsReference("golang.org/x/sys/cpu", SysCPUFlags()),
	}
}

// Unexpressed returns the decoded feature names no reference can express.
func Unexpressed(refs []Reference) []string {
	known := mapset.NewThreadUnsafeSet[string]()
	for _, ref := range refs {
		if ref.Known != nil {
			known.Append(ref.Known.ToSlice()...)
		}
	}
	var names []string
	for _, feature := range simd.Features() {
		if !known.Contains(feature.Name) {
			names = append(names, feature.Name)
		}
	}
	return names
}
