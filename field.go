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

package lattice

// FieldKind tags which of the three operation protocols a [FieldDecl]
// follows. The source this package was distilled from dispatched on this
// distinction with a runtime class-hierarchy check; here it is a plain
// sum type, matched once per firing by the propagation engine.
type FieldKind int

const (
	// Injection fields are roots: their values are supplied verbatim by the
	// caller of NewBar, never computed by the engine.
	Injection FieldKind = iota
	// Window fields are a per-asset reduction over the most recent bars of
	// a single upstream field.
	Window
	// CrossSectional fields are a per-bar reduction across every asset of a
	// single upstream field.
	CrossSectional
)

// String implements [fmt.Stringer].
func (k FieldKind) String() string {
	switch k {
	case Injection:
		return "Injection"
	case Window:
		return "Window"
	case CrossSectional:
		return "CrossSectional"
	default:
		return "Unknown"
	}
}

// FieldDecl declares one field in a [Lattice]'s registry.
//
// Exactly one of WindowOp or CrossSectionalOp should be set, matching Kind;
// the other is ignored. This mirrors a tagged union via a kind tag plus
// per-variant payload fields, since a bare Go interface can't express
// "WindowOp XOR CrossSectionalOp" statically.
type FieldDecl struct {
	// ID must be unique within the lattice.
	ID FieldID
	// Kind selects the operation protocol this field follows.
	Kind FieldKind
	// DependentFieldID is the single upstream field this field is computed
	// from. Required for Window and CrossSectional, ignored for Injection.
	DependentFieldID FieldID
	// WindowLen is the number of recent bars a Window field reduces over.
	// Required (and must be >= 1) for Window, ignored otherwise.
	WindowLen int
	// WindowOp is the reduction a Window field applies. Required iff
	// Kind == Window.
	WindowOp WindowOp
	// CrossSectionalOp is the reduction a CrossSectional field applies.
	// Required iff Kind == CrossSectional.
	CrossSectionalOp CrossSectionalOp
}
