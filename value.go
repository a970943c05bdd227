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

import "math"

// Value is a single cell's payload: a 64-bit float with a distinguished
// missing sentinel.
type Value float64

// Missing is the sentinel value returned by a window operation whose buffer
// has not yet filled, and by a cross-sectional operation undefined for the
// current cross-section (for example, sample standard deviation with fewer
// than two assets).
//
// Missing is represented as NaN so it propagates silently through ordinary
// arithmetic the way an uninitialized float would in the source this
// package was distilled from; use [IsMissing] rather than comparing with
// ==, since NaN is never equal to itself.
//
// Missing pins a specific NaN payload (rather than the one math.NaN()
// happens to return) so two Missing values always compare bit-for-bit
// equal.
var Missing = Value(math.Float64frombits(0x7ff8000000000001))

// IsMissing reports whether v is the missing sentinel. Any NaN, whatever
// its payload, counts as missing.
func IsMissing(v Value) bool {
	return math.IsNaN(float64(v))
}
