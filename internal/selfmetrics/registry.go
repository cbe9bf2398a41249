// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

// Package selfmetrics implements the SDK's own metrics-about-metrics
// registry: a small set of counters, delta-counters, and gauges that a
// sender periodically reports about itself.
package selfmetrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/wavefronthq/wavefront-sdk-go/internal/log"
)

// Sender is the minimal capability the registry needs from its owning
// sender in order to report itself.
type Sender interface {
	SendMetric(name string, value float64, timestamp int64, source string, tags map[string]string) error
	SendDeltaCounter(name string, value float64, source string, tags map[string]string, timestamp int64) error
}

// Counter is a monotonically increasing count.
type Counter struct{ value int64 }

func (c *Counter) Inc()             { atomic.AddInt64(&c.value, 1) }
func (c *Counter) Add(delta int64)  { atomic.AddInt64(&c.value, delta) }
func (c *Counter) Count() int64     { return atomic.LoadInt64(&c.value) }

// DeltaCounter behaves like Counter but is decremented by the reported
// amount on every registry report, so it only ever carries the delta
// accumulated since the last report.
type DeltaCounter struct{ Counter }

func (d *DeltaCounter) dec(amount int64) { atomic.AddInt64(&d.value, -amount) }

// GaugeFunc supplies a gauge's current value. ok is false when the gauge
// has nothing to report this cycle.
type GaugeFunc func() (value float64, ok bool)

type metric struct {
	counter      *Counter
	deltaCounter *DeltaCounter
	gauge        GaugeFunc
}

// Registry holds named counters/delta-counters/gauges and periodically
// reports them through sender, prefixed and tagged as configured.
//
// The wire prefix "sdk.python.core.sender" is preserved verbatim across
// every language binding: server-side analytics key on it, so it is
// never localized to "sdk.go.core.sender".
type Registry struct {
	sender   Sender
	source   string
	tags     map[string]string
	prefix   string
	interval time.Duration

	mu      sync.Mutex
	metrics map[string]*metric
	closed  bool
	done    chan struct{}
}

// Option configures a Registry at construction time.
type Option func(*Registry)

func WithSource(source string) Option { return func(r *Registry) { r.source = source } }
func WithTags(tags map[string]string) Option {
	return func(r *Registry) { r.tags = tags }
}
func WithReportingInterval(d time.Duration) Option {
	return func(r *Registry) { r.interval = d }
}

// New constructs a registry. sender may be nil, in which case the
// registry never schedules a reporting loop and report emits nothing.
// (The senders do not build a registry at all when internal metrics are
// disabled.)
func New(sender Sender, prefix string, opts ...Option) *Registry {
	r := &Registry{
		sender:   sender,
		prefix:   prefix + ".",
		interval: 60 * time.Second,
		metrics:  make(map[string]*metric),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if sender != nil {
		go r.loop()
	}
	return r
}

func (r *Registry) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.report(0)
		case <-r.done:
			return
		}
	}
}

// NewCounter gets or creates a monotonic counter.
func (r *Registry) NewCounter(name string) *Counter {
	m := r.getOrAdd(name, func() *metric { return &metric{counter: &Counter{}} })
	return m.counter
}

// NewDeltaCounter gets or creates a delta counter.
func (r *Registry) NewDeltaCounter(name string) *DeltaCounter {
	m := r.getOrAdd(name, func() *metric { return &metric{deltaCounter: &DeltaCounter{}} })
	return m.deltaCounter
}

// NewGauge gets or creates a gauge backed by supplier.
func (r *Registry) NewGauge(name string, supplier GaugeFunc) {
	r.getOrAdd(name, func() *metric { return &metric{gauge: supplier} })
}

func (r *Registry) getOrAdd(name string, create func() *metric) *metric {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.metrics[name]; ok {
		return m
	}
	m := create()
	r.metrics[name] = m
	return m
}

// report iterates a snapshot of the registered metrics, emitting one
// wire metric per entry. timeoutSecs, when non-zero, bounds how long the
// report loop may run (used by Close's final drain).
func (r *Registry) report(timeoutSecs float64) {
	if r.sender == nil {
		return
	}
	r.mu.Lock()
	snapshot := make(map[string]*metric, len(r.metrics))
	for k, v := range r.metrics {
		snapshot[k] = v
	}
	r.mu.Unlock()

	deadline := time.Time{}
	if timeoutSecs > 0 {
		deadline = time.Now().Add(time.Duration(timeoutSecs * float64(time.Second)))
	}
	now := time.Now().Unix()

	for key, m := range snapshot {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		name := r.prefix + key
		switch {
		case m.gauge != nil:
			if v, ok := m.gauge(); ok {
				if err := r.sender.SendMetric(name, v, now, r.source, r.tags); err != nil {
					log.Warn("unable to send internal SDK metric %s: %v", name, err)
				}
			}
		case m.deltaCounter != nil:
			count := m.deltaCounter.Count()
			if err := r.sender.SendDeltaCounter(name+".count", float64(count), r.source, r.tags, now); err != nil {
				log.Warn("unable to send internal SDK metric %s: %v", name, err)
				continue
			}
			m.deltaCounter.dec(count)
		case m.counter != nil:
			if err := r.sender.SendMetric(name+".count", float64(m.counter.Count()), now, r.source, r.tags); err != nil {
				log.Warn("unable to send internal SDK metric %s: %v", name, err)
			}
		}
	}
}

// Close stops the reporting loop after one final synchronous report
// bounded by timeout.
func (r *Registry) Close(timeout time.Duration) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.report(timeout.Seconds())
	close(r.done)
}
