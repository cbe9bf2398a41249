// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package lineproto

import (
	"encoding/json"

	"github.com/google/uuid"
)

type spanLogEntry struct {
	Timestamp int64             `json:"timestamp"`
	Fields    map[string]string `json:"fields"`
}

type spanLogEnvelope struct {
	TraceID string         `json:"traceId"`
	SpanID  string         `json:"spanId"`
	Logs    []spanLogEntry `json:"logs"`
	Span    string         `json:"span"`
}

// SpanLogLine renders the span-log envelope: a JSON object carrying the
// trace/span identifiers, the log entries, and the full span line
// (including its trailing newline) so the receiver can correlate the two.
// The result is terminated with a trailing '\n'.
func SpanLogLine(traceID, spanID uuid.UUID, logs []SpanLog, spanLine string) (string, error) {
	entries := make([]spanLogEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, spanLogEntry{Timestamp: l.TimestampMicros, Fields: l.Fields})
	}
	envelope := spanLogEnvelope{
		TraceID: traceID.String(),
		SpanID:  spanID.String(),
		Logs:    entries,
		Span:    spanLine,
	}
	b, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
