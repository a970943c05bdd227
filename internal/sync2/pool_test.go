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

package sync2_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haloquant/lattice/internal/sync2"
)

func TestPool_NewOnFirstGet(t *testing.T) {
	t.Parallel()

	var calls int
	p := sync2.Pool[[]float64]{
		New: func() *[]float64 {
			calls++
			s := make([]float64, 0, 4)
			return &s
		},
	}

	v, drop := p.Get()
	assert.NotNil(t, v)
	assert.Equal(t, 1, calls)
	drop()
}

func TestPool_ReusesDroppedValue(t *testing.T) {
	t.Parallel()

	p := sync2.Pool[[]int]{
		New: func() *[]int {
			s := make([]int, 0, 4)
			return &s
		},
		Reset: func(s *[]int) { *s = (*s)[:0] },
	}

	v, drop := p.Get()
	*v = append(*v, 1, 2, 3)
	drop()

	v2, drop2 := p.Get()
	defer drop2()
	assert.Len(t, *v2, 0, "Reset should have truncated the reused slice")
}

func TestPool_ZeroValueFallsBackToNewT(t *testing.T) {
	t.Parallel()

	var p sync2.Pool[int]
	v, drop := p.Get()
	defer drop()
	assert.Equal(t, 0, *v)
}
