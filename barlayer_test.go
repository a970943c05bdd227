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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarLayer_InsertGet(t *testing.T) {
	t.Parallel()

	l := newBarLayer(2, 3)
	_, ok := l.get(0, 0)
	assert.False(t, ok)

	l.insert(0, 0, Value(1.5))
	v, ok := l.get(0, 0)
	assert.True(t, ok)
	assert.Equal(t, Value(1.5), v)

	// Missing is still a legal value, inserted unconditionally.
	l.insert(1, 2, Missing)
	v, ok = l.get(1, 2)
	assert.True(t, ok)
	assert.True(t, IsMissing(v))
}

func TestBarLayer_FieldSlice(t *testing.T) {
	t.Parallel()

	l := newBarLayer(3, 1)
	l.insert(0, 0, Value(1))
	l.insert(2, 0, Value(3))
	// asset index 1 never written.

	cs := l.fieldSlice(0)
	assert.Len(t, cs, 2)
	assert.Equal(t, Value(1), cs[0])
	assert.Equal(t, Value(3), cs[2])
	_, ok := cs[1]
	assert.False(t, ok)
}
