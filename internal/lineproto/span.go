// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package lineproto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wavefronthq/wavefront-sdk-go/internal/sanitize"
)

// SpanLine formats a tracing span as:
//
//	<name> source=<source> traceId=<uuid> spanId=<uuid> [parent=<uuid> ...]
//	[followsFrom=<uuid> ...] [tags...] <startMillis> <durationMs>\n
//
// When span.SpanLogs is non-empty, a synthetic ("_spanLogs", "true") tag is
// appended before tag de-duplication. Duplicate (key, value) tag pairs are
// dropped, preserving first occurrence.
func SpanLine(s SpanData, defaultSource string) (string, error) {
	if sanitize.IsBlank(s.Name) {
		return "", fmt.Errorf("%w: span name cannot be blank", errInvalidArgument)
	}
	source := s.Source
	if sanitize.IsBlank(source) {
		source = defaultSource
	}

	var b strings.Builder
	b.WriteString(sanitize.Value(s.Name))
	b.WriteString(" source=")
	b.WriteString(sanitize.Value(source))
	b.WriteString(" traceId=")
	b.WriteString(s.TraceID.String())
	b.WriteString(" spanId=")
	b.WriteString(s.SpanID.String())
	for _, p := range s.Parents {
		b.WriteString(" parent=")
		b.WriteString(p.String())
	}
	for _, f := range s.FollowsFrom {
		b.WriteString(" followsFrom=")
		b.WriteString(f.String())
	}

	tags := s.Tags
	if len(s.SpanLogs) > 0 {
		tags = append(append([]SpanTag{}, tags...), SpanTag{Key: spanLogsTagKey, Value: "true"})
	}
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if sanitize.IsBlank(t.Key) {
			return "", fmt.Errorf("%w: span tag key cannot be blank", errInvalidArgument)
		}
		if sanitize.IsBlank(t.Value) {
			return "", fmt.Errorf("%w: span tag value cannot be blank", errInvalidArgument)
		}
		key := t.Key + "\x00" + t.Value
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		b.WriteByte(' ')
		b.WriteString(sanitize.Name(t.Key))
		b.WriteByte('=')
		b.WriteString(sanitize.Value(t.Value))
	}

	b.WriteByte(' ')
	b.WriteString(strconv.FormatInt(s.StartMillis, 10))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatInt(s.DurationMs, 10))
	b.WriteByte('\n')
	return b.String(), nil
}
