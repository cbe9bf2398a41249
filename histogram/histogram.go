// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

// Package histogram implements the minute-bucketed Wavefront histogram
// aggregator: a sharded t-digest that accepts high-frequency concurrent
// updates and periodically flushes per-minute distributions.
package histogram

import (
	"math"
	"sync"
	"time"

	"github.com/caio/go-tdigest/v4"

	"github.com/wavefronthq/wavefront-sdk-go/internal/lineproto"
)

const (
	accuracy = 100 // compression = 1/delta
	maxBins  = 10
)

// Distribution is a single per-minute distribution ready for emission.
type Distribution struct {
	TimestampMillis int64
	Centroids       []lineproto.Centroid
}

// WorkerHandle identifies the calling goroutine's private shard. Callers
// obtain one with NewWorkerHandle and reuse it across calls from the same
// goroutine. A handle must not be shared across goroutines: values are
// added to a worker's digest without holding any lock.
type WorkerHandle struct {
	id uint64
}

var workerSeq uint64
var workerSeqMu sync.Mutex

// NewWorkerHandle allocates a fresh, globally unique worker slot.
func NewWorkerHandle() *WorkerHandle {
	workerSeqMu.Lock()
	workerSeq++
	id := workerSeq
	workerSeqMu.Unlock()
	return &WorkerHandle{id: id}
}

// minuteBin holds one t-digest per registered worker for a single minute.
type minuteBin struct {
	minuteMillis int64

	mu         sync.Mutex
	perWorker  map[uint64]*tdigest.TDigest
}

func newMinuteBin(minuteMillis int64) *minuteBin {
	return &minuteBin{minuteMillis: minuteMillis, perWorker: make(map[uint64]*tdigest.TDigest)}
}

func (b *minuteBin) digestFor(w *WorkerHandle) *tdigest.TDigest {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.perWorker[w.id]
	if !ok {
		d, _ = tdigest.New(tdigest.Compression(accuracy))
		b.perWorker[w.id] = d
	}
	return d
}

func (b *minuteBin) update(w *WorkerHandle, value float64) {
	_ = b.digestFor(w).Add(value)
}

func (b *minuteBin) bulkUpdate(w *WorkerHandle, means []float64, counts []uint64) {
	d := b.digestFor(w)
	n := len(means)
	if len(counts) < n {
		n = len(counts)
	}
	for i := 0; i < n; i++ {
		_ = d.AddWeighted(means[i], counts[i])
	}
}

func (b *minuteBin) centroids() []lineproto.Centroid {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []lineproto.Centroid
	for _, d := range b.perWorker {
		d.ForEachCentroid(func(mean float64, count uint64) bool {
			out = append(out, lineproto.Centroid{Mean: mean, Count: int64(count)})
			return true
		})
	}
	return out
}

// toDistributions emits one Distribution per per-worker digest, matching
// the aggregator's contract of never merging across workers at flush time.
func (b *minuteBin) toDistributions() []Distribution {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Distribution
	for _, d := range b.perWorker {
		var centroids []lineproto.Centroid
		d.ForEachCentroid(func(mean float64, count uint64) bool {
			centroids = append(centroids, lineproto.Centroid{Mean: mean, Count: int64(count)})
			return true
		})
		if len(centroids) == 0 {
			continue
		}
		out = append(out, Distribution{TimestampMillis: b.minuteMillis, Centroids: centroids})
	}
	return out
}

// WavefrontHistogram is the minute-bucketed histogram aggregator described
// by the component design: a current bin plus up to maxBins prior bins,
// sharded per worker to avoid same-minute update contention.
type WavefrontHistogram struct {
	clockMillis func() int64

	mu         sync.Mutex
	current    *minuteBin
	priorBins  []*minuteBin
}

// NewWavefrontHistogram constructs a histogram. clockMillis defaults to
// the wall clock when nil; tests may override it to control minute
// rollover deterministically.
func NewWavefrontHistogram(clockMillis func() int64) *WavefrontHistogram {
	if clockMillis == nil {
		clockMillis = func() int64 { return time.Now().UnixMilli() }
	}
	h := &WavefrontHistogram{clockMillis: clockMillis}
	h.current = newMinuteBin(h.currentMinuteMillis())
	return h
}

func (h *WavefrontHistogram) currentMinuteMillis() int64 {
	return (h.clockMillis() / 60000) * 60000
}

// currentBin returns the bin for the present minute, rolling the previous
// bin into the prior list if the minute has advanced. Every call takes
// the histogram mutex to compare the minute, so concurrent updates
// briefly contend here even within the same minute; looking up a worker's
// digest in the bin takes the bin's own mutex as well.
func (h *WavefrontHistogram) currentBin() *minuteBin {
	now := h.currentMinuteMillis()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current.minuteMillis == now {
		return h.current
	}
	if len(h.priorBins) >= maxBins {
		h.priorBins = h.priorBins[1:]
	}
	h.priorBins = append(h.priorBins, h.current)
	h.current = newMinuteBin(now)
	return h.current
}

// Update adds a single observed value under the given worker's shard.
func (h *WavefrontHistogram) Update(w *WorkerHandle, value float64) {
	h.currentBin().update(w, value)
}

// BulkUpdate merges a batch of (mean, count) centroids under the given
// worker's shard.
func (h *WavefrontHistogram) BulkUpdate(w *WorkerHandle, means []float64, counts []uint64) {
	h.currentBin().bulkUpdate(w, means, counts)
}

// FlushDistributions rolls the current bin into the prior list if its
// minute has passed, atomically drains every prior bin, and returns one
// Distribution per (bin, worker-digest). Data of the minute still in
// progress is not flushed. Calling this clears the drained bins; it will
// not flush the same data twice.
func (h *WavefrontHistogram) FlushDistributions() []Distribution {
	h.currentBin() // roll over a finished minute; "current" never leaks into the flush
	h.mu.Lock()
	drained := h.priorBins
	h.priorBins = nil
	h.mu.Unlock()

	var out []Distribution
	for _, b := range drained {
		out = append(out, b.toDistributions()...)
	}
	return out
}

// snapshotDigest merges every per-worker digest across all bins (current
// plus prior) into one combined t-digest.
func (h *WavefrontHistogram) snapshotDigest() *tdigest.TDigest {
	h.currentBin()
	h.mu.Lock()
	bins := append(append([]*minuteBin{}, h.priorBins...), h.current)
	h.mu.Unlock()

	combined, _ := tdigest.New(tdigest.Compression(accuracy))
	for _, b := range bins {
		b.mu.Lock()
		for _, d := range b.perWorker {
			_ = combined.Merge(d)
		}
		b.mu.Unlock()
	}
	return combined
}

// Snapshot is a read-only statistical view over the combined digest.
type Snapshot struct {
	digest *tdigest.TDigest
}

// Snapshot combines every worker digest across all bins into one view.
func (h *WavefrontHistogram) Snapshot() Snapshot {
	return Snapshot{digest: h.snapshotDigest()}
}

// Count returns the number of observed values.
func (s Snapshot) Count() int64 {
	return int64(s.digest.Count())
}

// Sum returns the sum of all observed values, 0 when empty.
func (s Snapshot) Sum() float64 {
	var sum float64
	s.digest.ForEachCentroid(func(mean float64, count uint64) bool {
		sum += mean * float64(count)
		return true
	})
	return sum
}

// Mean returns the mean of all observed values, nil when empty.
func (s Snapshot) Mean() *float64 {
	count := s.digest.Count()
	if count == 0 {
		return nil
	}
	mean := s.Sum() / float64(count)
	return &mean
}

// Min returns the minimum observed value, nil when empty.
func (s Snapshot) Min() *float64 {
	if s.digest.Count() == 0 {
		return nil
	}
	v := s.digest.Quantile(0)
	return &v
}

// Max returns the maximum observed value, nil when empty.
func (s Snapshot) Max() *float64 {
	if s.digest.Count() == 0 {
		return nil
	}
	v := s.digest.Quantile(1)
	return &v
}

// Percentile returns the value at quantile q (0<=q<=1), nil when empty.
func (s Snapshot) Percentile(q float64) *float64 {
	if s.digest.Count() == 0 {
		return nil
	}
	v := s.digest.Quantile(q)
	return &v
}

// StdDev computes the standard deviation directly from the centroid
// weights and means of every bin against the combined mean. Empty
// histograms report 0.
func (h *WavefrontHistogram) StdDev() float64 {
	snap := h.Snapshot()
	mean := snap.Mean()
	if mean == nil {
		return 0
	}

	h.mu.Lock()
	bins := append(append([]*minuteBin{}, h.priorBins...), h.current)
	h.mu.Unlock()

	var varianceSum float64
	var count int64
	for _, b := range bins {
		for _, c := range b.centroids() {
			count += c.Count
			diff := c.Mean - *mean
			varianceSum += float64(c.Count) * diff * diff
		}
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(varianceSum / float64(count))
}
