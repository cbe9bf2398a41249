// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package wavefront

import (
	"github.com/google/uuid"

	"github.com/wavefronthq/wavefront-sdk-go/internal/lineproto"
)

// Granularity identifies the per-minute/hour/day bucket a histogram
// distribution is aggregated into server-side.
type Granularity = lineproto.Granularity

// The three supported histogram granularities and their line-protocol
// identifiers.
const (
	MinuteGranularity = lineproto.MinuteGranularity
	HourGranularity   = lineproto.HourGranularity
	DayGranularity    = lineproto.DayGranularity
)

// Centroid is a (mean, count) pair representing a cluster of observed
// values inside a t-digest.
type Centroid = lineproto.Centroid

// SpanTag is a single (key, value) tag attached to a Span.
type SpanTag = lineproto.SpanTag

// SpanLog is a single timestamped log entry attached to a Span.
type SpanLog = lineproto.SpanLog

// Span is a single distributed-tracing span.
type Span struct {
	Name        string
	StartMillis int64
	DurationMs  int64
	Source      string
	TraceID     uuid.UUID
	SpanID      uuid.UUID
	Parents     []uuid.UUID
	FollowsFrom []uuid.UUID
	Tags        []SpanTag
	SpanLogs    []SpanLog
}

// Event is a discrete, possibly-durationed occurrence.
type Event struct {
	Name        string
	StartMillis int64
	EndMillis   *int64 // defaults to StartMillis+1 when nil
	Source      string
	Tags        []string
	Annotations map[string]string
}
