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

import "github.com/haloquant/lattice/internal/dag"

// FieldRegistry is the catalog of fields declared on a [Lattice]: their
// declarations, their dense index assignment, and the forward adjacency
// from each depended-on field to its Window and CrossSectional dependents.
type FieldRegistry struct {
	decls     map[FieldID]*FieldDecl
	index     map[FieldID]int
	order     []FieldID // registration order; index[id] == position in order.
	started   bool
	validated bool

	// Forward edges: depended-on field -> list of dependents of that kind.
	windowDeps map[FieldID][]FieldID
	csDeps     map[FieldID][]FieldID
}

func newFieldRegistry() *FieldRegistry {
	return &FieldRegistry{
		decls:      make(map[FieldID]*FieldDecl),
		index:      make(map[FieldID]int),
		windowDeps: make(map[FieldID][]FieldID),
		csDeps:     make(map[FieldID][]FieldID),
	}
}

// AddField registers decl. It fails with [MutationAfterStart] once the
// lattice has processed its first bar, and with [DuplicateField] if
// decl.ID is already registered.
func (r *FieldRegistry) AddField(decl FieldDecl) error {
	if r.started {
		return &LatticeError{Kind: MutationAfterStart, Field: decl.ID}
	}
	if _, ok := r.decls[decl.ID]; ok {
		return &LatticeError{Kind: DuplicateField, Field: decl.ID}
	}

	switch decl.Kind {
	case Injection:
		// No adjacency, no dependent field.
	case Window:
		if decl.WindowLen < 1 {
			return &LatticeError{Kind: UnknownFieldKind, Field: decl.ID}
		}
		if _, ok := r.decls[decl.DependentFieldID]; !ok {
			return &LatticeError{Kind: MissingCell, Field: decl.DependentFieldID}
		}
		r.windowDeps[decl.DependentFieldID] = append(r.windowDeps[decl.DependentFieldID], decl.ID)
	case CrossSectional:
		if _, ok := r.decls[decl.DependentFieldID]; !ok {
			return &LatticeError{Kind: MissingCell, Field: decl.DependentFieldID}
		}
		r.csDeps[decl.DependentFieldID] = append(r.csDeps[decl.DependentFieldID], decl.ID)
	default:
		return &LatticeError{Kind: UnknownFieldKind, Field: decl.ID}
	}

	d := decl
	r.decls[decl.ID] = &d
	r.index[decl.ID] = len(r.order)
	r.order = append(r.order, decl.ID)
	return nil
}

// markStarted freezes the field set; called by the lattice on the first
// NewBar call, before Validate.
func (r *FieldRegistry) markStarted() { r.started = true }

// Validate checks that the combined Window/CrossSectional edge set is
// acyclic and that every non-injection field is reachable from some
// injection field. It is idempotent: only the first call does any work.
func (r *FieldRegistry) Validate() error {
	if r.validated {
		return nil
	}

	// The closure treats an ID absent from decls as having no further
	// dependencies. AddField's own existence check means this can't happen
	// through the public API, but Validate is defensive here rather than
	// trusting that invariant from the other side of the package boundary.
	result := dag.Sort(r.order, func(id FieldID) []FieldID {
		decl, ok := r.decls[id]
		if !ok || decl.Kind == Injection {
			return nil
		}
		return []FieldID{decl.DependentFieldID}
	})

	for _, id := range r.order {
		if result.Cyclic(id) {
			return &LatticeError{Kind: BadDAGCircular, Field: id}
		}
	}

	reachable := make(map[FieldID]bool, len(r.order))
	for _, id := range result.Order() {
		decl, ok := r.decls[id]
		if !ok {
			reachable[id] = false
			continue
		}
		if decl.Kind == Injection {
			reachable[id] = true
			continue
		}
		reachable[id] = reachable[decl.DependentFieldID]
	}
	for _, id := range r.order {
		if !reachable[id] {
			return &LatticeError{Kind: BadDAGUnreachable, Field: id}
		}
	}

	r.validated = true
	return nil
}

func (r *FieldRegistry) fieldIndex(id FieldID) (int, bool) {
	idx, ok := r.index[id]
	return idx, ok
}

func (r *FieldRegistry) numFields() int { return len(r.order) }
