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

// Package dag contains an implementation of Tarjan's strongly-connected
// components algorithm, used to validate a field registry's dependency
// graph: a non-trivial component means a cycle, and a node reachable from no
// root means it can never fire.
package dag

import "slices"

// Graph exposes the outgoing edges (dependencies) of a node: Graph(n)
// returns the nodes that n directly depends on.
type Graph[Node comparable] func(Node) []Node

// Result is the outcome of running [Sort] over a graph.
type Result[Node comparable] struct {
	order  []Node        // topological order, dependencies before dependents.
	cyclic map[Node]bool // true for every node in a non-trivial component.
	seen   map[Node]bool // true for every node reached during the walk.
}

// Sort runs Tarjan's algorithm over every node in nodes, using deps to find
// each node's outgoing edges. Unlike a single-root walk, this visits every
// node in nodes regardless of whether it is reachable from another node in
// the set, so isolated nodes still appear in the result.
func Sort[Node comparable](nodes []Node, deps Graph[Node]) *Result[Node] {
	t := &tarjan[Node]{
		deps:     deps,
		metadata: make(map[Node]*metadata, len(nodes)),
		result: &Result[Node]{
			cyclic: make(map[Node]bool),
			seen:   make(map[Node]bool, len(nodes)),
		},
	}
	for _, n := range nodes {
		if t.metadata[n] == nil {
			t.rec(n)
		}
	}
	return t.result
}

// Cyclic reports whether node participates in a cycle (a component with more
// than one member, or a single member with a self-edge).
func (r *Result[Node]) Cyclic(node Node) bool { return r.cyclic[node] }

// Reachable reports whether node was discovered while walking the graph —
// i.e., whether it is node itself or transitively depended upon by some
// node passed to [Sort].
func (r *Result[Node]) Reachable(node Node) bool { return r.seen[node] }

// Order returns every node passed to [Sort] (plus everything reachable from
// them) in dependency-first topological order.
func (r *Result[Node]) Order() []Node { return r.order }

type tarjan[Node comparable] struct {
	deps     Graph[Node]
	result   *Result[Node]
	index    int
	stack    []Node
	metadata map[Node]*metadata
}

type metadata struct {
	index, low int
	onStack    bool
}

// rec is the recursive step of Tarjan's algorithm: see
// https://en.wikipedia.org/wiki/Tarjan%27s_strongly_connected_components_algorithm
func (t *tarjan[Node]) rec(node Node) *metadata {
	meta := &metadata{index: t.index, low: t.index, onStack: true}
	t.metadata[node] = meta
	t.result.seen[node] = true
	t.index++

	offset := len(t.stack)
	t.stack = append(t.stack, node)

	for _, dep := range t.deps(node) {
		m := t.metadata[dep]
		switch {
		case m == nil:
			m = t.rec(dep)
			meta.low = min(meta.low, m.low)
		case m.onStack:
			meta.low = min(meta.low, m.index)
		}
	}

	if meta.index != meta.low {
		return meta
	}

	members := slices.Clone(t.stack[offset:])
	t.stack = t.stack[:offset]

	cyclic := len(members) > 1
	if !cyclic {
		// A single-member component is only cyclic if it has a self-edge.
		for _, dep := range t.deps(members[0]) {
			if dep == members[0] {
				cyclic = true
				break
			}
		}
	}

	for _, n := range members {
		t.metadata[n].onStack = false
		if cyclic {
			t.result.cyclic[n] = true
		}
	}
	// Dependency-first: a node's dependencies finish their recursion (and are
	// thus appended) before the node itself is appended here.
	t.result.order = append(t.result.order, members...)

	return meta
}
