// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package lineproto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var (
	testTraceID = uuid.MustParse("7b3bf470-9456-11e8-9eb6-529269fb1459")
	testSpanID  = uuid.MustParse("0313bafe-9457-11e8-9eb6-529269fb1459")
	testParent  = uuid.MustParse("2f64e538-9457-11e8-9eb6-529269fb1459")
	testFollows = uuid.MustParse("5f64e538-9457-11e8-9eb6-529269fb1459")
)

func TestSpanLineWithParentAndTags(t *testing.T) {
	s := SpanData{
		Name:        "getAllUsers",
		StartMillis: 1493773500,
		DurationMs:  343500,
		Source:      "localhost",
		TraceID:     testTraceID,
		SpanID:      testSpanID,
		Parents:     []uuid.UUID{testParent},
		FollowsFrom: []uuid.UUID{testFollows},
		Tags: []SpanTag{
			{Key: "application", Value: "Wavefront"},
			{Key: "http.method", Value: "GET"},
		},
	}
	line, err := SpanLine(s, "defaultSource")
	assert.NoError(t, err)

	expected := `"getAllUsers" source="localhost" traceId=` + testTraceID.String() +
		` spanId=` + testSpanID.String() + ` parent=` + testParent.String() +
		` followsFrom=` + testFollows.String() +
		` "application"="Wavefront" "http.method"="GET" 1493773500 343500` + "\n"
	assert.Equal(t, expected, line)
}

func TestSpanLineDuplicateTagNotRepeated(t *testing.T) {
	s := SpanData{
		Name:        "getAllUsers",
		StartMillis: 1493773500,
		DurationMs:  343500,
		Source:      "localhost",
		TraceID:     testTraceID,
		SpanID:      testSpanID,
		Tags: []SpanTag{
			{Key: "application", Value: "Wavefront"},
			{Key: "application", Value: "Wavefront"},
		},
	}
	line, err := SpanLine(s, "defaultSource")
	assert.NoError(t, err)
	assert.Equal(t, 1, countOccurrences(line, `"application"="Wavefront"`))
}

func TestSpanLineWithSpanLogsAddsSyntheticTag(t *testing.T) {
	s := SpanData{
		Name:        "getAllUsers",
		StartMillis: 1493773500,
		DurationMs:  343500,
		Source:      "localhost",
		TraceID:     testTraceID,
		SpanID:      testSpanID,
		SpanLogs: []SpanLog{
			{TimestampMicros: 1635123789456000, Fields: map[string]string{"FooLogKey": "FooLogValue"}},
		},
	}
	line, err := SpanLine(s, "defaultSource")
	assert.NoError(t, err)
	assert.Contains(t, line, `"_spanLogs"="true"`)
}

func TestSpanLineBlankNameRejected(t *testing.T) {
	s := SpanData{Name: "  ", TraceID: testTraceID, SpanID: testSpanID}
	_, err := SpanLine(s, "defaultSource")
	assert.Error(t, err)
}

func TestSpanLineBlankTagValueRejected(t *testing.T) {
	s := SpanData{
		Name:    "getAllUsers",
		TraceID: testTraceID,
		SpanID:  testSpanID,
		Tags:    []SpanTag{{Key: "application", Value: "  "}},
	}
	_, err := SpanLine(s, "defaultSource")
	assert.Error(t, err)
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
			i += len(substr) - 1
		}
	}
	return count
}
