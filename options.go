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

// Option is a configuration setting for [New]. This is not an interface
// because there is exactly one implementation style needed here and a
// struct keeps construction allocation-free.
type Option struct{ apply func(*config) }

type config struct {
	profiling         bool
	maxWindowOverflow int // -1 means unbounded (the spec's "silently degrade").
}

func newConfig() *config {
	return &config{maxWindowOverflow: -1}
}

// WithProfiling turns on per-bar latency instrumentation, readable
// afterwards via [Lattice.Stats].
func WithProfiling() Option {
	return Option{func(c *config) { c.profiling = true }}
}

// WithMaxWindowOverflow bounds how far a Window field's declared WindowLen
// may exceed the ring's capacity before [Lattice.AddField] rejects
// it outright, instead of accepting it and silently degrading to the
// missing sentinel forever (the default, matching the source this package
// was distilled from).
//
// A negative value (the default set by [New]) means unbounded: any
// WindowLen is accepted.
func WithMaxWindowOverflow(n int) Option {
	return Option{func(c *config) { c.maxWindowOverflow = n }}
}
