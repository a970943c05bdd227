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

//go:build debug

// Package debug includes debugging helpers for the lattice.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Enabled is true if the package is being built with the debug tag, which
// enables internal assertions and propagation tracing.
const Enabled = true

// Log prints a propagation trace line to stderr.
//
// traceID identifies the bar this event belongs to; see the lattice's use of
// google/uuid to mint one per NewBar call.
func Log(traceID string, operation string, format string, args ...any) {
	_, file, line, _ := runtime.Caller(1)

	var b strings.Builder
	fmt.Fprintf(&b, "lattice: %s:%d [bar=%s] %s: ", filepath.Base(file), line, traceID, operation)
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')
	_, _ = os.Stderr.WriteString(b.String())
}

// Assert panics if cond is false, but only in debug mode.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("lattice: internal assertion failed: "+format, args...))
	}
}
