// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package histogram

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clockAt(minuteMillis int64) func() int64 {
	return func() int64 { return minuteMillis }
}

func TestUpdateAndFlushDistributions(t *testing.T) {
	clock := int64(60000)
	h := NewWavefrontHistogram(clockAt(clock))
	w := NewWorkerHandle()
	h.Update(w, 1)
	h.Update(w, 2)
	h.Update(w, 3)

	// still in the same minute: nothing to flush yet.
	assert.Empty(t, h.FlushDistributions())

	clock = 120000
	h.clockMillis = clockAt(clock)
	dists := h.FlushDistributions()
	assert.Len(t, dists, 1)
	assert.Equal(t, int64(60000), dists[0].TimestampMillis)

	var count int64
	var weighted float64
	for _, c := range dists[0].Centroids {
		count += c.Count
		weighted += c.Mean * float64(c.Count)
	}
	assert.Equal(t, int64(3), count)
	assert.InDelta(t, 6.0, weighted, 0.5)
}

func TestFlushDistributionsDrainsOnce(t *testing.T) {
	clock := int64(60000)
	h := NewWavefrontHistogram(clockAt(clock))
	w := NewWorkerHandle()
	h.Update(w, 5)
	clock = 120000
	h.clockMillis = clockAt(clock)

	first := h.FlushDistributions()
	assert.Len(t, first, 1)
	second := h.FlushDistributions()
	assert.Empty(t, second)
}

func TestBulkUpdate(t *testing.T) {
	h := NewWavefrontHistogram(clockAt(60000))
	w := NewWorkerHandle()
	h.BulkUpdate(w, []float64{10, 20}, []uint64{3, 7})

	snap := h.Snapshot()
	assert.Equal(t, int64(10), snap.Count())
	assert.InDelta(t, 170.0, snap.Sum(), 0.5)
}

func TestSnapshotEmptyHistogramReturnsNilStats(t *testing.T) {
	h := NewWavefrontHistogram(clockAt(60000))
	snap := h.Snapshot()
	assert.Nil(t, snap.Mean())
	assert.Nil(t, snap.Min())
	assert.Nil(t, snap.Max())
	assert.Equal(t, int64(0), snap.Count())
	assert.Equal(t, 0.0, snap.Sum())
}

func TestStdDevEmptyIsZero(t *testing.T) {
	h := NewWavefrontHistogram(clockAt(60000))
	assert.Equal(t, 0.0, h.StdDev())
}

func TestStdDevComputedFromCentroids(t *testing.T) {
	h := NewWavefrontHistogram(clockAt(60000))
	w := NewWorkerHandle()
	for i := 0; i < 100; i++ {
		h.Update(w, 10)
	}
	assert.InDelta(t, 0.0, h.StdDev(), 0.1)
}

func TestConcurrentWorkersDoNotCorruptCounts(t *testing.T) {
	h := NewWavefrontHistogram(clockAt(60000))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := NewWorkerHandle()
			for j := 0; j < 50; j++ {
				h.Update(w, float64(j))
			}
		}()
	}
	wg.Wait()
	snap := h.Snapshot()
	assert.Equal(t, int64(400), snap.Count())
}
