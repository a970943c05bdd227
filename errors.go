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

import (
	"errors"
	"fmt"
)

// Kind classifies a [LatticeError].
type Kind int

const (
	// MutationAfterStart is raised when AddField is called after the first
	// NewBar call.
	MutationAfterStart Kind = iota
	// DuplicateField is raised by a second registration of the same FieldID.
	DuplicateField
	// BadDAGCircular is raised when field-dependency validation discovers a
	// cycle.
	BadDAGCircular
	// BadDAGUnreachable is raised when a non-injection field cannot be
	// reached from any injection field.
	BadDAGUnreachable
	// OutOfRange is raised when a historical index falls outside the ring's
	// capacity.
	OutOfRange
	// NotYetComputed is raised when a historical index exceeds the number of
	// bars completed so far.
	NotYetComputed
	// MissingCell is raised by a read of an (asset, field) pair absent from
	// the requested layer.
	MissingCell
	// UnknownFieldKind is raised when a FieldDecl carries a Kind the engine
	// does not recognize.
	UnknownFieldKind
)

var errs = [...]error{
	MutationAfterStart: errors.New("field registered after the first bar"),
	DuplicateField:     errors.New("field already registered"),
	BadDAGCircular:     errors.New("field dependency graph contains a cycle"),
	BadDAGUnreachable:  errors.New("field is not reachable from any injection field"),
	OutOfRange:         errors.New("bars-ago index outside ring capacity"),
	NotYetComputed:     errors.New("bars-ago index exceeds bars completed so far"),
	MissingCell:        errors.New("cell absent from requested layer"),
	UnknownFieldKind:   errors.New("unrecognized field kind"),
}

// LatticeError is the concrete error type raised by every exported
// operation in this package. Callers should use [errors.Is] against the
// sentinel values in [errs] via [LatticeError.Unwrap], or inspect Kind
// directly.
type LatticeError struct {
	Kind  Kind
	Field FieldID // the field implicated, if any.
	Asset AssetID // the asset implicated, if any.
	N     int     // the bars-ago offset implicated, if any.
}

// Error implements [error].
func (e *LatticeError) Error() string {
	switch {
	case e.Field != "" && e.Asset != "":
		return fmt.Sprintf("lattice: %v: field=%s asset=%s", e.Unwrap(), e.Field, e.Asset)
	case e.Field != "":
		return fmt.Sprintf("lattice: %v: field=%s", e.Unwrap(), e.Field)
	default:
		return fmt.Sprintf("lattice: %v", e.Unwrap())
	}
}

// Unwrap implements error unwrapping via [errors.Unwrap].
func (e *LatticeError) Unwrap() error {
	return errs[e.Kind]
}
