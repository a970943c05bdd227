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

package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lattice "github.com/haloquant/lattice"
	"github.com/haloquant/lattice/config"
)

const validDoc = `
assets: [AAPL, MSFT, TSLA]
capacity: 8
fields:
  - id: open
    kind: injection
  - id: sma3
    kind: window
    dependent: open
    window_len: 3
    op: sma
  - id: z_open
    kind: cross_sectional
    dependent: open
    op: zscore
`

func TestLoad_ParsesValidDocument(t *testing.T) {
	t.Parallel()

	spec, err := config.Load(strings.NewReader(validDoc))
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "TSLA"}, spec.Assets)
	assert.Equal(t, 8, spec.Capacity)
	require.Len(t, spec.Fields, 3)
	assert.Equal(t, "sma3", spec.Fields[1].ID)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	doc := validDoc + "\nbogus_top_level_key: true\n"
	_, err := config.Load(strings.NewReader(doc))
	require.Error(t, err)
}

func TestLoad_RejectsFieldLabelCollision(t *testing.T) {
	t.Parallel()

	doc := `
assets: [AAPL]
capacity: 4
fields:
  - id: zScore
    kind: injection
  - id: z_score
    kind: injection
`
	_, err := config.Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probably a typo")
}

func TestLoad_AllowsNonSnakeCaseAssetLabels(t *testing.T) {
	t.Parallel()

	// Ticker symbols like "AAPL" aren't snake_case but aren't typos either;
	// Load must not reject them just because Canonical(id) != id.
	spec, err := config.Load(strings.NewReader(validDoc))
	require.NoError(t, err)
	assert.Equal(t, "AAPL", spec.Assets[0])
}

func TestBuild_RegistersDeclaredFields(t *testing.T) {
	t.Parallel()

	spec, err := config.Load(strings.NewReader(validDoc))
	require.NoError(t, err)

	l, err := config.Build(spec)
	require.NoError(t, err)

	err = l.NewBar(map[lattice.AssetID]map[lattice.FieldID]lattice.Value{
		"AAPL": {"open": 10},
		"MSFT": {"open": 20},
		"TSLA": {"open": 30},
	})
	require.NoError(t, err)

	v, err := l.ValueAgo(0, "AAPL", "open")
	require.NoError(t, err)
	assert.Equal(t, lattice.Value(10), v)

	v, err = l.ValueAgo(0, "AAPL", "sma3")
	require.NoError(t, err)
	assert.True(t, lattice.IsMissing(v)) // warm-up: window_len 3, only 1 bar in
}

func TestBuild_ExprOps(t *testing.T) {
	t.Parallel()

	doc := `
assets: [AAPL, MSFT]
capacity: 4
fields:
  - id: open
    kind: injection
  - id: spread
    kind: cross_sectional
    dependent: open
    op: expr
    expr: "v - mean(cross_section)"
`
	spec, err := config.Load(strings.NewReader(doc))
	require.NoError(t, err)

	l, err := config.Build(spec)
	require.NoError(t, err)

	require.NoError(t, l.NewBar(map[lattice.AssetID]map[lattice.FieldID]lattice.Value{
		"AAPL": {"open": 10},
		"MSFT": {"open": 20},
	}))

	v, err := l.ValueAgo(0, "AAPL", "spread")
	require.NoError(t, err)
	assert.InDelta(t, -5.0, float64(v), 1e-9)
}

func TestBuild_RejectsUnrecognizedKind(t *testing.T) {
	t.Parallel()

	doc := `
assets: [AAPL]
capacity: 4
fields:
  - id: mystery
    kind: quantum
`
	spec, err := config.Load(strings.NewReader(doc))
	require.NoError(t, err)

	_, err = config.Build(spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized kind")
}
