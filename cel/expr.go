// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cel compiles user-supplied CEL expressions into lattice field
// operations, so a strategy author can declare a derived field as a
// formula instead of writing a Go type.
//
// Window formulas see a single variable, v, a list of doubles ordered
// most-recent-first (v[0] is the value just injected at the current bar).
// Cross-sectional formulas see v, this asset's value, and cross_section,
// the full list of values for the bar, plus two custom functions,
// mean(list) and stddev(list), for the common standardization idiom
// (v - mean(cross_section)) / stddev(cross_section).
package cel

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"

	lattice "github.com/haloquant/lattice"
)

func baseEnv(extra ...cel.EnvOption) (*cel.Env, error) {
	opts := append([]cel.EnvOption{
		cel.Function("mean",
			cel.Overload("mean_list_double", []*cel.Type{cel.ListType(cel.DoubleType)}, cel.DoubleType,
				cel.UnaryBinding(meanOverload))),
		cel.Function("stddev",
			cel.Overload("stddev_list_double", []*cel.Type{cel.ListType(cel.DoubleType)}, cel.DoubleType,
				cel.UnaryBinding(stddevOverload))),
	}, extra...)
	return cel.NewEnv(opts...)
}

func meanOverload(val ref.Val) ref.Val {
	lister, ok := val.(traits.Lister)
	if !ok {
		return types.NewErr("mean: expected list argument, got %v", val.Type())
	}
	n := int(lister.Size().(types.Int))
	if n == 0 {
		return types.Double(math.NaN())
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(lister.Get(types.Int(i)).(types.Double))
	}
	return types.Double(sum / float64(n))
}

func stddevOverload(val ref.Val) ref.Val {
	lister, ok := val.(traits.Lister)
	if !ok {
		return types.NewErr("stddev: expected list argument, got %v", val.Type())
	}
	n := int(lister.Size().(types.Int))
	if n < 2 {
		return types.Double(math.NaN())
	}
	values := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		values[i] = float64(lister.Get(types.Int(i)).(types.Double))
		sum += values[i]
	}
	mean := sum / float64(n)
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return types.Double(math.Sqrt(sumSq / float64(n-1)))
}

// requireVars is a best-effort check that every name in required appears
// as a substring somewhere in the raw expression text. It is a textual
// heuristic, not a parse of the checked AST, and exists only to catch the
// common copy-paste mistake of writing a formula that never references
// its own input.
func requireVars(expr string, required ...string) error {
	for _, name := range required {
		if !strings.Contains(expr, name) {
			return fmt.Errorf("cel: expression %q never references required variable %q", expr, name)
		}
	}
	return nil
}

func toDoubleSlice(values []lattice.Value) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

func valueOf(out ref.Val) (lattice.Value, error) {
	d, ok := out.Value().(float64)
	if !ok {
		return 0, fmt.Errorf("cel: expression did not evaluate to a double, got %T", out.Value())
	}
	return lattice.Value(d), nil
}
