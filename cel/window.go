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

// ExprWindowOp is a [lattice.WindowOp] backed by a compiled CEL formula
// over a single variable, v, the window's values ordered most-recent-first.
type ExprWindowOp struct {
	src     string
	program cel.Program
}

// NewExprWindowOp compiles expr once. expr must reference v and evaluate
// to a double; registration fails fast rather than at the first bar.
func NewExprWindowOp(expr string) (*ExprWindowOp, error) {
	if err := requireVars(expr, "v"); err != nil {
		return nil, err
	}

	env, err := baseEnv(cel.Variable("v", cel.ListType(cel.DoubleType)))
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
	return &ExprWindowOp{src: expr, program: prg}, nil
}

// Compute implements [lattice.WindowOp].
func (op *ExprWindowOp) Compute(window []lattice.Value) lattice.Value {
	out, _, err := op.program.Eval(map[string]any{"v": toDoubleSlice(window)})
	if err != nil {
		return lattice.Missing
	}
	v, err := valueOf(out)
	if err != nil {
		return lattice.Missing
	}
	return v
}

// Partial implements [lattice.WindowOp] with the spec's default warm-up
// behavior: the missing sentinel.
func (op *ExprWindowOp) Partial([]lattice.Value) lattice.Value {
	return lattice.Missing
}

// String returns the source expression, for diagnostics.
func (op *ExprWindowOp) String() string { return op.src }
