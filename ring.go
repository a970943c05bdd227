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

// ringBuffer is a fixed-capacity circular history of [BarLayer] values,
// addressed by "bars-ago" offsets relative to the current bar.
type ringBuffer struct {
	capacity             int
	numAssets, numFields int
	layers               []*BarLayer
	curIndex             int // -1 before the first advance.
	barsCompleted        int
}

func newRingBuffer(capacity, numAssets, numFields int) *ringBuffer {
	return &ringBuffer{
		capacity:  capacity,
		numAssets: numAssets,
		numFields: numFields,
		layers:    make([]*BarLayer, capacity),
		curIndex:  -1,
		// barsCompleted is zero-indexed: after the first advance it is 0, and
		// it is always the number of advances minus one, not a count of bars.
		// The readable bars-ago offsets are 0..min(barsCompleted, capacity-1).
		barsCompleted: -1,
	}
}

// advance installs a fresh, empty layer as the current one, dropping
// whatever previously occupied that ring slot.
func (r *ringBuffer) advance() *BarLayer {
	if r.curIndex < 0 {
		r.curIndex = 0
	} else {
		r.curIndex = (r.curIndex + 1) % r.capacity
	}
	r.barsCompleted++
	layer := newBarLayer(r.numAssets, r.numFields)
	r.layers[r.curIndex] = layer
	return layer
}

// current returns the most recently advanced-to layer.
func (r *ringBuffer) current() *BarLayer {
	return r.layers[r.curIndex]
}

// layerAgo returns the layer n bars before the current one.
func (r *ringBuffer) layerAgo(n int) (*BarLayer, error) {
	if n < 0 || n >= r.capacity {
		return nil, &LatticeError{Kind: OutOfRange, N: n}
	}
	if n > r.barsCompleted {
		return nil, &LatticeError{Kind: NotYetComputed, N: n}
	}
	idx := r.curIndex - n
	if idx < 0 {
		idx += r.capacity
	}
	return r.layers[idx], nil
}
