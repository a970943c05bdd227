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

package cel

import (
	"github.com/google/cel-go/cel"

	lattice "github.com/haloquant/lattice"
)

// ExprCrossSectionalOp is a [lattice.CrossSectionalOp] backed by a compiled
// CEL formula evaluated once per asset, with v bound to that asset's value
// and cross_section bound to every asset's value for the bar (unordered).
type ExprCrossSectionalOp struct {
	src     string
	program cel.Program
}

// NewExprCrossSectionalOp compiles expr once. expr must reference v and
// evaluate to a double.
func NewExprCrossSectionalOp(expr string) (*ExprCrossSectionalOp, error) {
	if err := requireVars(expr, "v"); err != nil {
		return nil, err
	}

	env, err := baseEnv(
		cel.Variable("v", cel.DoubleType),
		cel.Variable("cross_section", cel.ListType(cel.DoubleType)),
	)
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	return &ExprCrossSectionalOp{src: expr, program: prg}, nil
}

// Compute implements [lattice.CrossSectionalOp].
func (op *ExprCrossSectionalOp) Compute(cs map[lattice.AssetID]lattice.Value) map[lattice.AssetID]lattice.Value {
	section := make([]lattice.Value, 0, len(cs))
	for _, v := range cs {
		section = append(section, v)
	}
	crossSection := toDoubleSlice(section)

	result := make(map[lattice.AssetID]lattice.Value, len(cs))
	for asset, v := range cs {
		out, _, err := op.program.Eval(map[string]any{
			"v":             float64(v),
			"cross_section": crossSection,
		})
		if err != nil {
			result[asset] = lattice.Missing
			continue
		}
		value, err := valueOf(out)
		if err != nil {
			result[asset] = lattice.Missing
			continue
		}
		result[asset] = value
	}
	return result
}

// String returns the source expression, for diagnostics.
func (op *ExprCrossSectionalOp) String() string { return op.src }
