// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package log

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testLogger struct {
	mu    sync.Mutex
	lines []string
}

func (t *testLogger) Log(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, msg)
}

func (t *testLogger) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.lines...)
}

func TestLevelGating(t *testing.T) {
	defer SetLevel(levelThreshold)
	tp := &testLogger{}
	UseLogger(tp)
	defer UseLogger(defaultLogger{})

	SetLevel(LevelWarn)
	Debug("should not appear")
	assert.Empty(t, tp.Lines())

	Warn("should appear")
	assert.Len(t, tp.Lines(), 1)
	assert.Contains(t, tp.Lines()[0], "WARN")
	assert.Contains(t, tp.Lines()[0], "should appear")
}

func TestDebugEnabled(t *testing.T) {
	defer SetLevel(levelThreshold)
	SetLevel(LevelInfo)
	assert.False(t, DebugEnabled())
	SetLevel(LevelDebug)
	assert.True(t, DebugEnabled())
}

func TestErrorRateZeroDisablesSuppression(t *testing.T) {
	defer SetErrorRate(errEvery)
	tp := &testLogger{}
	UseLogger(tp)
	defer UseLogger(defaultLogger{})
	SetLevel(LevelError)
	SetErrorRate(0)

	Error("boom %d", 1)
	Error("boom %d", 2)
	assert.Len(t, tp.Lines(), 2)
}
