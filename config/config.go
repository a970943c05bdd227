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

// Package config loads a declarative field DAG from YAML, the way a
// strategy author would hand the backtest harness a list of indicators
// instead of writing Go field declarations by hand.
package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	lattice "github.com/haloquant/lattice"
	latticecel "github.com/haloquant/lattice/cel"
)

// FieldSpec is one YAML field entry. Which of Dependent/WindowLen/Expr are
// required depends on Kind and Op; [Build] checks them, [Load] does not.
type FieldSpec struct {
	ID        string `yaml:"id"`
	Kind      string `yaml:"kind"`       // "injection", "window", "cross_sectional"
	Dependent string `yaml:"dependent"`  // required for window, cross_sectional
	WindowLen int    `yaml:"window_len"` // required for window
	Op        string `yaml:"op"`         // "sma", "zscore", "expr"
	Expr      string `yaml:"expr"`       // required when op == "expr"
}

// Spec is the top-level YAML document: a fixed asset universe, a ring
// capacity, and a list of field declarations in registration order.
type Spec struct {
	Assets   []string    `yaml:"assets"`
	Capacity int         `yaml:"capacity"`
	Fields   []FieldSpec `yaml:"fields"`
}

// Load parses a YAML document into a Spec. It does not construct a
// lattice; use [Build] for that once the Spec is parsed.
func Load(r io.Reader) (*Spec, error) {
	var spec Spec
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("config: decoding yaml: %w", err)
	}
	if err := checkLabelCollisions("asset", spec.Assets); err != nil {
		return nil, err
	}
	fieldIDs := make([]string, len(spec.Fields))
	for i, f := range spec.Fields {
		fieldIDs[i] = f.ID
	}
	if err := checkLabelCollisions("field", fieldIDs); err != nil {
		return nil, err
	}
	return &spec, nil
}

// checkLabelCollisions catches the common typo of writing the same logical
// identifier two different ways in the same document — "zScore" in one
// field declaration and "z_score" in another — by comparing every label's
// canonical snake_case form against every other label's.
func checkLabelCollisions(kind string, labels []string) error {
	seen := make(map[string]string, len(labels))
	for _, label := range labels {
		canonical := lattice.Canonical(label)
		if prior, ok := seen[canonical]; ok && prior != label {
			return fmt.Errorf("config: %s labels %q and %q both normalize to %q, probably a typo",
				kind, prior, label, canonical)
		}
		seen[canonical] = label
	}
	return nil
}

// Build constructs a [lattice.Lattice] from spec and registers every
// declared field, in document order, failing on the first invalid
// declaration.
func Build(spec *Spec, opts ...lattice.Option) (*lattice.Lattice, error) {
	assets := make([]lattice.AssetID, len(spec.Assets))
	for i, a := range spec.Assets {
		assets[i] = lattice.AssetID(a)
	}

	l := lattice.New(spec.Capacity, assets, opts...)
	for _, f := range spec.Fields {
		decl, err := toFieldDecl(f)
		if err != nil {
			return nil, fmt.Errorf("config: field %q: %w", f.ID, err)
		}
		if err := l.AddField(decl); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func toFieldDecl(f FieldSpec) (lattice.FieldDecl, error) {
	decl := lattice.FieldDecl{
		ID:               lattice.FieldID(f.ID),
		DependentFieldID: lattice.FieldID(f.Dependent),
		WindowLen:        f.WindowLen,
	}

	switch f.Kind {
	case "injection":
		decl.Kind = lattice.Injection
		return decl, nil
	case "window":
		decl.Kind = lattice.Window
		op, err := windowOp(f)
		if err != nil {
			return decl, err
		}
		decl.WindowOp = op
		return decl, nil
	case "cross_sectional":
		decl.Kind = lattice.CrossSectional
		op, err := crossSectionalOp(f)
		if err != nil {
			return decl, err
		}
		decl.CrossSectionalOp = op
		return decl, nil
	default:
		return decl, fmt.Errorf("unrecognized kind %q", f.Kind)
	}
}

func windowOp(f FieldSpec) (lattice.WindowOp, error) {
	switch f.Op {
	case "sma":
		return lattice.SMA{}, nil
	case "expr":
		return latticecel.NewExprWindowOp(f.Expr)
	default:
		return nil, fmt.Errorf("unrecognized window op %q", f.Op)
	}
}

func crossSectionalOp(f FieldSpec) (lattice.CrossSectionalOp, error) {
	switch f.Op {
	case "zscore":
		return lattice.ZScore{}, nil
	case "expr":
		return latticecel.NewExprCrossSectionalOp(f.Expr)
	default:
		return nil, fmt.Errorf("unrecognized cross-sectional op %q", f.Op)
	}
}
