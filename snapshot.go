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

import "github.com/tiendc/go-deepcopy"

// Snapshot is a tabular view of one bar's cells, asset by field.
type Snapshot map[AssetID]map[FieldID]Value

// snapshotOf builds a Snapshot from layer, then deep-copies it so that the
// caller cannot reach back into lattice-internal state through a mutation
// of the returned nested maps.
func (l *Lattice) snapshotOf(layer *BarLayer) (Snapshot, error) {
	live := make(Snapshot, len(l.assetIndex))
	for asset, assetIdx := range l.assetIndex {
		row := make(map[FieldID]Value, l.registry.numFields())
		for _, field := range l.registry.order {
			fieldIdx, _ := l.registry.fieldIndex(field)
			if v, ok := layer.get(assetIdx, fieldIdx); ok {
				row[field] = v
			}
		}
		live[asset] = row
	}

	var out Snapshot
	if err := deepcopy.Copy(&out, &live); err != nil {
		return nil, err
	}
	return out, nil
}
