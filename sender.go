// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package wavefront

import "time"

// Sender is the capability every concrete client (direct, proxy, multi)
// implements: send one of each telemetry family, flush, close, and
// report how many sends have permanently failed.
type Sender interface {
	// SendMetric enqueues a metric point. timestamp is Unix seconds; a
	// nil timestamp lets the receiver assign one.
	SendMetric(name string, value float64, timestamp *int64, source string, tags map[string]string) error
	// SendMetricNow is SendMetric with the current time.
	SendMetricNow(name string, value float64, source string, tags map[string]string) error

	// SendDeltaCounter enqueues a delta-counter point: name is prefixed
	// with a delta marker if not already so prefixed, and only positive
	// values are emitted.
	SendDeltaCounter(name string, value float64, source string, tags map[string]string, timestamp int64) error

	// SendDistribution enqueues a histogram distribution.
	SendDistribution(name string, centroids []Centroid, granularities map[Granularity]struct{}, timestamp *int64, source string, tags map[string]string) error
	SendDistributionNow(name string, centroids []Centroid, granularities map[Granularity]struct{}, source string, tags map[string]string) error

	// SendSpan enqueues a tracing span, and its span logs if present.
	SendSpan(span Span) error

	// SendEvent enqueues an event.
	SendEvent(event Event) error

	// FlushNow forces an immediate synchronous flush of every family.
	FlushNow() error

	// Close flushes once and releases all owned resources. Idempotent.
	Close()

	// FailureCount reports delivery failures: the direct sender counts
	// dropped lines (full queue, 401/403 batches, requeue overflow); the
	// proxy sender counts TCP writes that failed after their one reconnect.
	FailureCount() int64
}

func nowSeconds() int64 { return time.Now().Unix() }
