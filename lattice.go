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
	"time"

	"github.com/google/uuid"

	"github.com/haloquant/lattice/internal/debug"
	"github.com/haloquant/lattice/internal/stats"
	"github.com/haloquant/lattice/internal/sync2"
)

// Lattice is an incremental, bar-driven dataflow engine: a fixed set of
// assets, a registry of declared fields, and a bounded ring of recently
// computed bars.
//
// A Lattice is single-threaded: NewBar must run to completion before being
// called again, and no method may be called concurrently with NewBar.
type Lattice struct {
	capacity   int
	assets     []AssetID
	assetIndex map[AssetID]int
	registry   *FieldRegistry
	ring       *ringBuffer
	cfg        *config

	started  bool
	poison   error // set once BadDAG validation fails; sticky across calls.
	latency  stats.Mean
	quantile *stats.Median

	// windowScratch lends out the []Value buffers readWindow fills in on
	// every Window propagation step, instead of allocating one per asset
	// per window field per bar.
	windowScratch sync2.Pool[[]Value]
}

// New constructs an empty Lattice with a fixed set of assets and ring
// capacity. Fields are added afterwards with [Lattice.AddField].
func New(capacity int, assets []AssetID, opts ...Option) *Lattice {
	cfg := newConfig()
	for _, opt := range opts {
		opt.apply(cfg)
	}

	assetIndex := make(map[AssetID]int, len(assets))
	for i, a := range assets {
		assetIndex[a] = i
	}

	l := &Lattice{
		capacity:   capacity,
		assets:     assets,
		assetIndex: assetIndex,
		registry:   newFieldRegistry(),
		cfg:        cfg,
	}
	if cfg.profiling {
		l.quantile = stats.NewMedian(256)
	}
	l.windowScratch.New = func() *[]Value {
		s := make([]Value, 0, 8)
		return &s
	}
	l.windowScratch.Reset = func(s *[]Value) {
		*s = (*s)[:0]
	}
	return l
}

// AddField registers decl. See [FieldRegistry.AddField] for the error
// conditions; additionally, if configured with [WithMaxWindowOverflow],
// a Window field whose WindowLen exceeds the ring's capacity by more than
// the configured bound is rejected at registration instead of silently
// degrading to the missing sentinel forever.
func (l *Lattice) AddField(decl FieldDecl) error {
	if decl.Kind == Window && l.cfg.maxWindowOverflow >= 0 {
		if overflow := decl.WindowLen - l.capacity; overflow > l.cfg.maxWindowOverflow {
			return &LatticeError{Kind: OutOfRange, Field: decl.ID}
		}
	}
	return l.registry.AddField(decl)
}

// NewBar advances the lattice by one bar. data maps each asset to its
// genesis field values for this bar; every asset must carry the same set
// of genesis field keys.
//
// NewBar is not idempotent: each call advances the ring and mutates the
// lattice's state. On the first call, the field registry is validated and
// frozen; a failed validation poisons the lattice permanently.
func (l *Lattice) NewBar(data map[AssetID]map[FieldID]Value) error {
	if l.poison != nil {
		return l.poison
	}

	start := time.Now()
	traceID := uuid.NewString()

	if !l.started {
		l.started = true
		l.registry.markStarted()
		if err := l.registry.Validate(); err != nil {
			l.poison = err
			return err
		}
		l.ring = newRingBuffer(l.capacity, len(l.assets), l.registry.numFields())
	}

	genesis, err := l.genesisFields(data)
	if err != nil {
		return err
	}

	layer := l.ring.advance()
	debug.Log(traceID, "new_bar", "advanced to bar %d", l.ring.barsCompleted)

	for _, asset := range l.assets {
		values, ok := data[asset]
		if !ok {
			continue
		}
		assetIdx := l.assetIndex[asset]
		for field, value := range values {
			fieldIdx, ok := l.registry.fieldIndex(field)
			if !ok {
				return &LatticeError{Kind: MissingCell, Field: field, Asset: asset}
			}
			layer.insert(assetIdx, fieldIdx, value)
		}
	}

	completed := make(map[FieldID]int, l.registry.numFields())
	for _, g := range genesis {
		if err := l.fanOut(g, layer, traceID, completed); err != nil {
			return err
		}
	}

	if l.cfg.profiling {
		elapsed := time.Since(start).Seconds()
		l.latency.Record(elapsed)
		l.quantile.Record(elapsed)
	}
	return nil
}

// genesisFields determines the set of genesis field identifiers from the
// first asset (in registration order) present in data, then checks that
// every other asset carries the identical key set — an explicit version of
// the precondition the engine otherwise assumes silently.
func (l *Lattice) genesisFields(data map[AssetID]map[FieldID]Value) ([]FieldID, error) {
	var reference []FieldID
	var referenceAsset AssetID
	for _, asset := range l.assets {
		if values, ok := data[asset]; ok {
			reference = make([]FieldID, 0, len(values))
			for f := range values {
				reference = append(reference, f)
			}
			referenceAsset = asset
			break
		}
	}

	for asset, values := range data {
		if asset == referenceAsset {
			continue
		}
		if len(values) != len(reference) {
			return nil, &LatticeError{Kind: MissingCell, Asset: asset}
		}
		for _, f := range reference {
			if _, ok := values[f]; !ok {
				return nil, &LatticeError{Kind: MissingCell, Field: f, Asset: asset}
			}
		}
	}
	return reference, nil
}

// fanOut implements step 4 of the per-bar algorithm: for genesis field g,
// drive every Window dependent per-asset, and every CrossSectional
// dependent once, barrier-gated on the full cross-section.
func (l *Lattice) fanOut(g FieldID, layer *BarLayer, traceID string, completed map[FieldID]int) error {
	for _, w := range l.registry.windowDeps[g] {
		for _, asset := range l.assets {
			if err := l.propagate(asset, w, layer, nil, traceID, completed); err != nil {
				return err
			}
		}
	}
	for _, c := range l.registry.csDeps[g] {
		result, err := l.computeCrossSectional(g, c, layer)
		if err != nil {
			return err
		}
		for _, asset := range l.assets {
			v := result[asset]
			if err := l.propagate(asset, c, layer, &v, traceID, completed); err != nil {
				return err
			}
		}
	}
	return nil
}

// propagate is the recursive body described in the propagation algorithm:
// compute (or accept) field's value for asset, insert it, recurse into
// Window dependents immediately, and release CrossSectional dependents
// once every asset has reached this field.
func (l *Lattice) propagate(asset AssetID, field FieldID, layer *BarLayer, csResult *Value, traceID string, completed map[FieldID]int) error {
	decl := l.registry.decls[field]
	assetIdx := l.assetIndex[asset]
	fieldIdx, _ := l.registry.fieldIndex(field)

	var value Value
	var produced bool

	switch decl.Kind {
	case Window:
		window, drop, err := l.readWindow(asset, decl, layer)
		if err != nil {
			return err
		}
		if len(window) < decl.WindowLen {
			value = decl.WindowOp.Partial(window)
		} else {
			value = decl.WindowOp.Compute(window)
		}
		drop()
		produced = true
	case CrossSectional:
		debug.Assert(csResult != nil, "cross-sectional propagate called without a prefetched result: field=%s asset=%s", field, asset)
		value = *csResult
		produced = true
	case Injection:
		// Entered only defensively; the top-level fan-out never recurses
		// into an injection field.
	default:
		return &LatticeError{Kind: UnknownFieldKind, Field: field}
	}

	if produced {
		layer.insert(assetIdx, fieldIdx, value)
		debug.Log(traceID, "propagate", "asset=%s field=%s value=%v", asset, field, value)
	}

	for _, w := range l.registry.windowDeps[field] {
		if err := l.propagate(asset, w, layer, nil, traceID, completed); err != nil {
			return err
		}
	}

	completed[field]++
	if deps := l.registry.csDeps[field]; len(deps) > 0 && completed[field] == len(l.assets) {
		for _, c := range deps {
			result, err := l.computeCrossSectional(field, c, layer)
			if err != nil {
				return err
			}
			for _, a := range l.assets {
				v := result[a]
				if err := l.propagate(a, c, layer, &v, traceID, completed); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// readWindow gathers up to decl.WindowLen values of decl.DependentFieldID
// for asset, most recent first, clamped by how many bars have been seen and
// by the ring's capacity. A WindowLen beyond capacity can never be filled;
// clamping here keeps the field permanently in its partial/missing state
// instead of reading past the ring.
//
// The returned slice is borrowed from a pool; the caller must invoke drop
// once it is done reading from it (after calling Compute or Partial, never
// retaining the slice beyond that).
func (l *Lattice) readWindow(asset AssetID, decl *FieldDecl, layer *BarLayer) (window []Value, drop func(), err error) {
	w := min(decl.WindowLen, l.ring.barsCompleted+1, l.capacity)
	assetIdx := l.assetIndex[asset]
	depIdx, ok := l.registry.fieldIndex(decl.DependentFieldID)
	if !ok {
		return nil, nil, &LatticeError{Kind: MissingCell, Field: decl.DependentFieldID}
	}

	buf, drop := l.windowScratch.Get()
	values := (*buf)[:0]
	for k := 0; k < w; k++ {
		var cellLayer *BarLayer
		if k == 0 {
			cellLayer = layer
		} else {
			cellLayer, err = l.ring.layerAgo(k)
			if err != nil {
				drop()
				return nil, nil, err
			}
		}
		v, ok := cellLayer.get(assetIdx, depIdx)
		if !ok {
			drop()
			return nil, nil, &LatticeError{Kind: MissingCell, Field: decl.DependentFieldID, Asset: asset, N: k}
		}
		values = append(values, v)
	}
	*buf = values
	return values, drop, nil
}

// computeCrossSectional runs c's operation once against the full
// cross-section of dependent (which may itself be the genesis field g or a
// field reached during recursive propagation).
func (l *Lattice) computeCrossSectional(dependent, c FieldID, layer *BarLayer) (map[AssetID]Value, error) {
	depIdx, ok := l.registry.fieldIndex(dependent)
	if !ok {
		return nil, &LatticeError{Kind: MissingCell, Field: dependent}
	}
	cs := make(map[AssetID]Value, len(l.assets))
	for _, asset := range l.assets {
		v, ok := layer.get(l.assetIndex[asset], depIdx)
		if !ok {
			return nil, &LatticeError{Kind: MissingCell, Field: dependent, Asset: asset}
		}
		cs[asset] = v
	}
	return l.registry.decls[c].CrossSectionalOp.Compute(cs), nil
}

// CurrentBarSnapshot returns the current layer as a tabular
// (asset x field -> value) snapshot, isolated from lattice-internal state.
func (l *Lattice) CurrentBarSnapshot() (Snapshot, error) {
	layer, err := l.ring.layerAgo(0)
	if err != nil {
		return nil, err
	}
	return l.snapshotOf(layer)
}

// ValueAgo returns the value of (asset, field) n bars before the current
// bar.
func (l *Lattice) ValueAgo(n int, asset AssetID, field FieldID) (Value, error) {
	assetIdx, ok := l.assetIndex[asset]
	if !ok {
		return 0, &LatticeError{Kind: MissingCell, Asset: asset, Field: field}
	}
	fieldIdx, ok := l.registry.fieldIndex(field)
	if !ok {
		return 0, &LatticeError{Kind: MissingCell, Asset: asset, Field: field}
	}
	layer, err := l.ring.layerAgo(n)
	if err != nil {
		return 0, err
	}
	v, ok := layer.get(assetIdx, fieldIdx)
	if !ok {
		return 0, &LatticeError{Kind: MissingCell, Asset: asset, Field: field, N: n}
	}
	return v, nil
}

// LatencyStats summarizes per-bar propagation latency, in seconds. Only
// populated when the lattice was constructed with [WithProfiling].
type LatencyStats struct {
	Mean   float64
	Median float64
}

// Stats returns the current latency summary. It is the zero value unless
// [WithProfiling] was passed to [New].
func (l *Lattice) Stats() LatencyStats {
	if !l.cfg.profiling {
		return LatencyStats{}
	}
	return LatencyStats{Mean: l.latency.Get(), Median: l.quantile.Get()}
}
