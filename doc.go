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

// Package lattice implements an incremental, bar-driven dataflow engine for
// evaluating a user-defined directed acyclic graph of derived fields over a
// stream of per-asset observations.
//
// A [Lattice] is constructed with a fixed set of assets and a ring capacity,
// then populated with [FieldDecl] declarations before the first call to
// [Lattice.NewBar]. Each bar, the caller hands the lattice a rectangular
// block of "genesis" values — one per (asset, field) pair — and the lattice
// propagates them through every registered [WindowOp] and
// [CrossSectionalOp] in dependency order, storing results in a bounded
// ring of recent bars so later bars can read back into history.
//
// # Support status
//
// The lattice is single-threaded and in-process. It performs no I/O and
// supports no distributed or parallel execution; callers requiring order
// execution, portfolio accounting, or persistence must implement those atop
// this package, not within it.
package lattice
