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

package dag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haloquant/lattice/internal/dag"
)

func TestSort_Acyclic(t *testing.T) {
	t.Parallel()

	// price <- sma20 <- zscore
	graph := map[string][]string{
		"price":  nil,
		"sma20":  {"price"},
		"zscore": {"sma20"},
	}
	result := dag.Sort([]string{"price", "sma20", "zscore"}, func(n string) []string {
		return graph[n]
	})

	for n := range graph {
		assert.False(t, result.Cyclic(n), "%s should not be cyclic", n)
		assert.True(t, result.Reachable(n))
	}

	order := result.Order()
	require.Len(t, order, 3)
	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos["price"], pos["sma20"])
	assert.Less(t, pos["sma20"], pos["zscore"])
}

func TestSort_Cycle(t *testing.T) {
	t.Parallel()

	// a -> b -> c -> a
	graph := map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	}
	result := dag.Sort([]string{"a", "b", "c"}, func(n string) []string {
		return graph[n]
	})

	assert.True(t, result.Cyclic("a"))
	assert.True(t, result.Cyclic("b"))
	assert.True(t, result.Cyclic("c"))
}

func TestSort_SelfEdge(t *testing.T) {
	t.Parallel()

	graph := map[string][]string{"a": {"a"}}
	result := dag.Sort([]string{"a"}, func(n string) []string { return graph[n] })

	assert.True(t, result.Cyclic("a"))
}

func TestSort_Unreachable(t *testing.T) {
	t.Parallel()

	// "orphan" has no edges, is not passed to Sort, and is not a dependency
	// of anything that is, so Sort never visits it and Reachable reports
	// false. Sort does visit every node it is given directly, so a caller
	// checking reachability from roots passes only the roots.
	graph := map[string][]string{
		"root":   nil,
		"orphan": nil,
	}
	result := dag.Sort([]string{"root"}, func(n string) []string { return graph[n] })

	assert.True(t, result.Reachable("root"))
	assert.False(t, result.Reachable("orphan"))
}

func TestSort_DiamondDependency(t *testing.T) {
	t.Parallel()

	// spread depends on both bid and ask, which both depend on price.
	graph := map[string][]string{
		"price":  nil,
		"bid":    {"price"},
		"ask":    {"price"},
		"spread": {"bid", "ask"},
	}
	result := dag.Sort([]string{"price", "bid", "ask", "spread"}, func(n string) []string {
		return graph[n]
	})

	for n := range graph {
		assert.False(t, result.Cyclic(n))
	}

	pos := make(map[string]int)
	for i, n := range result.Order() {
		pos[n] = i
	}
	assert.Less(t, pos["price"], pos["bid"])
	assert.Less(t, pos["price"], pos["ask"])
	assert.Less(t, pos["bid"], pos["spread"])
	assert.Less(t, pos["ask"], pos["spread"])
}
