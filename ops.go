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

// WindowOp computes one asset's output from the most recent values of its
// dependent field.
//
// Compute is called once the window has fully warmed up: len(window) ==
// the field's declared WindowLen, window[0] is the value just injected at
// the current bar, and window[i] is i bars before that.
//
// Partial is called instead while the window is still warming up (fewer
// than WindowLen bars have been seen); embedding [DefaultPartial] gives the
// spec's default behavior of returning [Missing] during warm-up.
type WindowOp interface {
	Compute(window []Value) Value
	Partial(window []Value) Value
}

// CrossSectionalOp computes every asset's output for one bar from the full
// cross-section of its dependent field.
//
// result must have exactly the same key set as cs.
type CrossSectionalOp interface {
	Compute(cs map[AssetID]Value) (result map[AssetID]Value)
}

// DefaultPartial implements the default partial-window behavior: the
// missing sentinel, regardless of how many values have accumulated.
// Embed it in a [WindowOp] that has no interesting warm-up behavior.
type DefaultPartial struct{}

// Partial implements [WindowOp].
func (DefaultPartial) Partial([]Value) Value { return Missing }

// SMA is a simple moving average: the arithmetic mean of the window.
type SMA struct{ DefaultPartial }

// Compute implements [WindowOp].
func (SMA) Compute(window []Value) Value {
	var sum Value
	for _, v := range window {
		sum += v
	}
	return sum / Value(len(window))
}

// ZScore is a cross-sectional standard score: each asset's deviation from
// the cross-section mean, in units of sample standard deviation (divisor
// N-1). With fewer than two assets, sample variance is undefined and every
// asset's result is [Missing].
type ZScore struct{}

// Compute implements [CrossSectionalOp].
func (ZScore) Compute(cs map[AssetID]Value) map[AssetID]Value {
	result := make(map[AssetID]Value, len(cs))

	if len(cs) < 2 {
		for asset := range cs {
			result[asset] = Missing
		}
		return result
	}

	var sum Value
	for _, v := range cs {
		sum += v
	}
	mean := sum / Value(len(cs))

	var sumSq Value
	for _, v := range cs {
		d := v - mean
		sumSq += d * d
	}
	stddev := Value(math.Sqrt(float64(sumSq / Value(len(cs)-1))))

	for asset, v := range cs {
		if stddev == 0 {
			result[asset] = 0
			continue
		}
		result[asset] = (v - mean) / stddev
	}
	return result
}
