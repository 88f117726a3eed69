// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package requirement evaluates boolean expressions over a processor's
// decoded capabilities, e.g. "AVX2 && FMA3 && MaxMHz >= 3000".
package requirement

import (
	"slices"
	"strings"

	"github.com/casbin/govaluate"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"

	"cpuprobe/internal/cpuinfo"
	"cpuprobe/internal/cpus"
	"cpuprobe/internal/simd"
)

// Names of the non-feature variables.
const (
	VarLongMode          = "LongMode"
	VarBaseMHz           = "BaseMHz"
	VarMaxMHz            = "MaxMHz"
	VarVendor            = "Vendor"
	VarMicroarchitecture = "Microarchitecture"
	VarFamily            = "Family"
	VarModel             = "Model"
	VarStepping          = "Stepping"
)

// Variables returns the expression parameters for d. Features are booleans,
// frequencies and signature fields are numbers, vendor and
// microarchitecture are their display names.
func Variables(d cpuinfo.Descriptor) map[string]any {
	vars := map[string]any{
		VarLongMode:          d.LongMode,
		VarBaseMHz:           float64(d.BaseMHz),
		VarMaxMHz:            float64(d.MaxMHz),
		VarVendor:            d.Vendor.String(),
		VarMicroarchitecture: d.Model.Uarch.String(),
		VarFamily:            float64(d.Signature.Family()),
		VarModel:             float64(d.Signature.Model()),
		VarStepping:          float64(d.Signature.Stepping),
	}
	for _, feature := range simd.Features() {
		vars[feature.Name] = feature.In(d.Features)
	}
	return vars
}

// VariableNames returns every name an expression may reference, sorted.
func VariableNames() []string {
	names := knownVariables().ToSlice()
	slices.Sort(names)
	return names
}

func knownVariables() mapset.Set[string] {
	known := mapset.NewThreadUnsafeSet[string]()
	for name := range Variables(cpuinfo.Descriptor{}) {
		known.Add(name)
	}
	return known
}

// Requirement is a parsed expression.
type Requirement struct {
	expression *govaluate.EvaluableExpression
	vars       mapset.Set[string]
}

// Parse compiles expr and rejects references to unknown variables.
func Parse(expr string) (*Requirement, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errors.New("empty requirement expression")
	}
	expression, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse requirement %q", expr)
	}
	vars := mapset.NewThreadUnsafeSet(expression.Vars()...)
	if unknown := vars.Difference(knownVariables()); unknown.Cardinality() > 0 {
		names := unknown.ToSlice()
		slices.Sort(names)
		return nil, errors.Errorf("unknown identifier(s) in requirement %q: %s", expr, strings.Join(names, ", "))
	}
	if err := checkNames(expression.Tokens()); err != nil {
		return nil, errors.Wrapf(err, "invalid requirement %q", expr)
	}
	return &Requirement{expression: expression, vars: vars}, nil
}

// checkNames rejects string literals compared with Vendor or
// Microarchitecture that no processor can decode to. Comparison is exact, so
// a name that only differs in case is rejected too.
func checkNames(tokens []govaluate.ExpressionToken) error {
	for i := 1; i+1 < len(tokens); i++ {
		if tokens[i].Kind != govaluate.COMPARATOR || (tokens[i].Value != "==" && tokens[i].Value != "!=") {
			continue
		}
		variable, literal := tokens[i-1], tokens[i+1]
		if variable.Kind == govaluate.STRING {
			variable, literal = literal, variable
		}
		if variable.Kind != govaluate.VARIABLE || literal.Kind != govaluate.STRING {
			continue
		}
		name, _ := literal.Value.(string)
		var canonical string
		switch variable.Value {
		case VarVendor:
			vendor, ok := cpus.GetVendorByName(name)
			if !ok {
				return errors.Errorf("unknown vendor %q", name)
			}
			canonical = vendor.String()
		case VarMicroarchitecture:
			uarch, err := cpus.GetUarchByName(name)
			if err != nil {
				return err
			}
			canonical = uarch.String()
		default:
			continue
		}
		if canonical != name {
			return errors.Errorf("%s %q must be written %q", variable.Value, name, canonical)
		}
	}
	return nil
}

func (r *Requirement) String() string {
	return r.expression.String()
}

// Evaluate reports whether d satisfies the requirement. Expressions that do
// not produce a boolean are an error.
func (r *Requirement) Evaluate(d cpuinfo.Descriptor) (bool, error) {
	result, err := r.expression.Evaluate(Variables(d))
	if err != nil {
		return false, errors.Wrapf(err, "failed to evaluate requirement %q", r.String())
	}
	satisfied, ok := result.(bool)
	if !ok {
		return false, errors.Errorf("requirement %q evaluated to %v (%T), expected a boolean", r.String(), result, result)
	}
	return satisfied, nil
}

// Missing returns the features referenced by the requirement that d lacks,
// in feature order.
func (r *Requirement) Missing(d cpuinfo.Descriptor) (missing []string) {
	for _, feature := range simd.Features() {
		if r.vars.Contains(feature.Name) && !feature.In(d.Features) {
			missing = append(missing, feature.Name)
		}
	}
	return
}

// Evaluate parses expr and evaluates it against d.
func Evaluate(expr string, d cpuinfo.Descriptor) (bool, error) {
	r, err := Parse(expr)
	if err != nil {
		return false, err
	}
	return r.Evaluate(d)
}
