// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

// Package pipeline implements the per-family bounded-queue pipeline: a
// background timer periodically drains each family's queue, chunks it
// into batches, and hands each batch to the family's transport.
package pipeline

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wavefronthq/wavefront-sdk-go/internal/log"
	"github.com/wavefronthq/wavefront-sdk-go/internal/queue"
	"github.com/wavefronthq/wavefront-sdk-go/internal/selfmetrics"
)

// SendResult is the outcome of handing one already-chunked batch to a
// Transport. StatusCode is 0 for transports with no HTTP status (TCP);
// -1 conventionally marks a transport-level failure with no response.
type SendResult struct {
	StatusCode int
	Err        error
}

// Transport delivers one batch of already-encoded lines.
type Transport interface {
	Send(lines []string) SendResult
}

// Family runs the bounded-queue pipeline for one telemetry family
// (metrics, histograms, spans, span-logs, or events).
type Family struct {
	name      string
	queue     queue.Queue
	transport Transport
	batchSize int
	registry  *selfmetrics.Registry

	valid, invalid, dropped, reportErrors *selfmetrics.Counter
	droppedTotal                          int64 // atomic; tracked even with registry disabled

	statusMu       sync.Mutex
	statusCounters map[int]*selfmetrics.Counter
}

// DroppedCount reports the number of lines permanently dropped (full
// queue, 401/403 batch rejection, or requeue-time overflow), independent
// of whether the self-metrics registry is enabled.
func (f *Family) DroppedCount() int64 { return atomic.LoadInt64(&f.droppedTotal) }

// NewFamily constructs a Family with a bounded queue of the given
// capacity and the given batch size (forced to 1 by the caller for the
// events family). registry may be nil when internal metrics are disabled.
func NewFamily(name string, capacity, batchSize int, transport Transport, registry *selfmetrics.Registry) *Family {
	f := &Family{
		name:           name,
		queue:          queue.New(capacity),
		transport:      transport,
		batchSize:      batchSize,
		registry:       registry,
		statusCounters: make(map[int]*selfmetrics.Counter),
	}
	if registry != nil {
		f.valid = registry.NewCounter(name + ".valid")
		f.invalid = registry.NewCounter(name + ".invalid")
		f.dropped = registry.NewCounter(name + ".dropped")
		f.reportErrors = registry.NewCounter(name + ".report.errors")
		registry.NewGauge(name+".queue.size", func() (float64, bool) {
			return float64(f.queue.Size()), true
		})
		registry.NewGauge(name+".queue.remaining_capacity", func() (float64, bool) {
			return float64(f.queue.RemainingCapacity()), true
		})
	}
	return f
}

// Enqueue offers one already-encoded line. A full queue is reported back
// to the caller and counted as dropped.
func (f *Family) Enqueue(line string) error {
	if err := f.queue.Offer(line); err != nil {
		f.dropBatch(1)
		return err
	}
	if f.valid != nil {
		f.valid.Inc()
	}
	return nil
}

// IncInvalid counts an encoder rejection (blank name, empty centroids,
// ...) that never reached the queue.
func (f *Family) IncInvalid() {
	if f.invalid != nil {
		f.invalid.Inc()
	}
}

// Size and RemainingCapacity expose the underlying queue's bookkeeping.
func (f *Family) Size() int               { return f.queue.Size() }
func (f *Family) RemainingCapacity() int  { return f.queue.RemainingCapacity() }

// Flush drains up to the queue's current size, splits it into batchSize
// chunks, and sends each chunk. Producers may keep enqueuing while a
// flush is in progress; anything enqueued after the snapshot is taken is
// left for the next tick.
func (f *Family) Flush() {
	n := f.queue.Size()
	if n == 0 {
		return
	}
	lines := f.queue.Drain(n)
	for len(lines) > 0 {
		size := f.batchSize
		if size <= 0 || size > len(lines) {
			size = len(lines)
		}
		chunk := lines[:size]
		lines = lines[size:]
		f.sendChunk(chunk)
	}
}

func (f *Family) sendChunk(chunk []string) {
	res := f.transport.Send(chunk)
	switch {
	case res.Err == nil && (res.StatusCode == 0 || (res.StatusCode >= 200 && res.StatusCode < 300)):
		f.incStatus(res.StatusCode)
	case res.StatusCode == 401:
		log.Error("%s: permanently dropping batch, credentials rejected (401)", f.name)
		f.dropBatch(len(chunk))
	case res.StatusCode == 403:
		log.Error("%s: permanently dropping batch, not entitled to direct data ingestion (403)", f.name)
		f.dropBatch(len(chunk))
	default:
		if f.reportErrors != nil {
			f.reportErrors.Inc()
		}
		f.requeue(chunk)
	}
}

func (f *Family) dropBatch(n int) {
	atomic.AddInt64(&f.droppedTotal, int64(n))
	if f.dropped != nil {
		f.dropped.Add(int64(n))
	}
}

// requeue appends the batch back onto the tail of the queue; overflow is
// dropped and counted, never blocked on.
func (f *Family) requeue(chunk []string) {
	for _, line := range chunk {
		if err := f.queue.Offer(line); err != nil {
			f.dropBatch(1)
		}
	}
}

func (f *Family) incStatus(code int) {
	if f.registry == nil {
		return
	}
	f.statusMu.Lock()
	c, ok := f.statusCounters[code]
	if !ok {
		c = f.registry.NewCounter(f.name + ".report." + strconv.Itoa(code))
		f.statusCounters[code] = c
	}
	f.statusMu.Unlock()
	c.Inc()
}

// Pipeline owns the background flush timer shared by every family of one
// sender.
type Pipeline struct {
	families []*Family
	interval time.Duration

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// New starts the flush timer immediately.
func New(families []*Family, interval time.Duration) *Pipeline {
	p := &Pipeline{families: families, interval: interval, done: make(chan struct{})}
	go p.loop()
	return p
}

func (p *Pipeline) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.FlushAll()
		case <-p.done:
			return
		}
	}
}

// FlushAll drains and sends every family's queue synchronously.
func (p *Pipeline) FlushAll() {
	for _, f := range p.families {
		f.Flush()
	}
}

// Close flushes once synchronously and cancels the timer. Idempotent.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.FlushAll()
	close(p.done)
}
