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

import "github.com/stoewer/go-strcase"

// AssetID is an opaque, hashable handle identifying a traded instrument.
// Equality and hashing are delegated to the underlying label.
type AssetID string

// FieldID is an opaque, hashable handle identifying a declared field.
// Equality and hashing are delegated to the underlying label.
type FieldID string

// Canonical returns id's canonical snake_case form, used to detect
// collisions between labels that were probably meant to be the same
// identifier.
//
// This does not constrain what a label may look like — "AAPL" is a
// perfectly good [AssetID] — it only gives callers like the config
// package a normal form to compare labels against each other.
func Canonical(id string) string {
	return strcase.SnakeCase(id)
}
