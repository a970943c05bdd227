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

import "github.com/haloquant/lattice/internal/debug"

// BarLayer holds every (asset, field) cell produced during a single bar.
//
// Once an asset set and field set are frozen (at the first [Lattice.NewBar]
// call), a layer is a dense row-major table indexed by precomputed asset
// and field offsets, rather than a hash map keyed by the pair — the
// asset/field universe is fixed for the lifetime of the lattice, so there
// is no reason to pay hashing cost on every cell access.
type BarLayer struct {
	numAssets, numFields int
	values               []Value
	present              []bool
}

func newBarLayer(numAssets, numFields int) *BarLayer {
	n := numAssets * numFields
	return &BarLayer{
		numAssets: numAssets,
		numFields: numFields,
		values:    make([]Value, n),
		present:   make([]bool, n),
	}
}

func (l *BarLayer) offset(assetIdx, fieldIdx int) int {
	return assetIdx*l.numFields + fieldIdx
}

// insert writes value into the cell (assetIdx, fieldIdx). Writing the same
// cell twice within a single bar is a bug; debug builds panic, release
// builds silently overwrite.
func (l *BarLayer) insert(assetIdx, fieldIdx int, value Value) {
	off := l.offset(assetIdx, fieldIdx)
	debug.Assert(!l.present[off], "duplicate insert into bar layer at asset=%d field=%d", assetIdx, fieldIdx)
	l.values[off] = value
	l.present[off] = true
}

// get reads the cell (assetIdx, fieldIdx), reporting whether it was present.
func (l *BarLayer) get(assetIdx, fieldIdx int) (Value, bool) {
	off := l.offset(assetIdx, fieldIdx)
	return l.values[off], l.present[off]
}

// fieldSlice returns the cross-section for fieldIdx across every asset
// index present in the layer, keyed by asset index. Callers holding the
// asset index → AssetID table translate back to IDs.
func (l *BarLayer) fieldSlice(fieldIdx int) map[int]Value {
	out := make(map[int]Value, l.numAssets)
	for a := 0; a < l.numAssets; a++ {
		if v, ok := l.get(a, fieldIdx); ok {
			out[a] = v
		}
	}
	return out
}
