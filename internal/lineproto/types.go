// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

// Package lineproto implements the pure-function line-protocol encoders
// for metrics, histograms, tracing spans, span logs, and events.
package lineproto

import "github.com/google/uuid"

// Granularity identifies the per-minute/hour/day bucket a histogram
// distribution is aggregated into server-side.
type Granularity string

// The three supported histogram granularities and their line-protocol
// identifiers.
const (
	MinuteGranularity Granularity = "!M"
	HourGranularity   Granularity = "!H"
	DayGranularity    Granularity = "!D"
)

// Centroid is a (mean, count) pair representing a cluster of observed
// values inside a t-digest.
type Centroid struct {
	Mean  float64
	Count int64
}

// SpanTag is a single (key, value) tag attached to a span.
type SpanTag struct {
	Key   string
	Value string
}

// SpanLog is a single timestamped log entry attached to a span.
type SpanLog struct {
	TimestampMicros int64
	Fields          map[string]string
}

// SpanData holds everything needed to encode a span line.
type SpanData struct {
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

// EventData holds everything needed to encode an event.
type EventData struct {
	Name        string
	StartMillis int64
	EndMillis   *int64
	Source      string
	Tags        []string
	Annotations map[string]string
}

const spanLogsTagKey = "_spanLogs"
