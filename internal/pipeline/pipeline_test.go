// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTransport struct {
	mu      sync.Mutex
	batches [][]string
	result  func(lines []string) SendResult
}

func (f *fakeTransport) Send(lines []string) SendResult {
	f.mu.Lock()
	f.batches = append(f.batches, append([]string{}, lines...))
	f.mu.Unlock()
	if f.result != nil {
		return f.result(lines)
	}
	return SendResult{StatusCode: 200}
}

func TestFlushChunksByBatchSize(t *testing.T) {
	transport := &fakeTransport{}
	f := NewFamily("metrics", 100, 2, transport, nil)
	for i := 0; i < 5; i++ {
		assert.NoError(t, f.Enqueue("line"))
	}
	f.Flush()
	assert.Len(t, transport.batches, 3)
	assert.Equal(t, 0, f.Size())
}

func TestFlushRequeuesOnTransportFailure(t *testing.T) {
	transport := &fakeTransport{result: func(lines []string) SendResult {
		return SendResult{StatusCode: -1}
	}}
	f := NewFamily("metrics", 100, 10, transport, nil)
	assert.NoError(t, f.Enqueue("a"))
	assert.NoError(t, f.Enqueue("b"))
	f.Flush()
	assert.Equal(t, 2, f.Size())
}

func TestFlushDropsOn401(t *testing.T) {
	transport := &fakeTransport{result: func(lines []string) SendResult {
		return SendResult{StatusCode: 401}
	}}
	f := NewFamily("metrics", 100, 10, transport, nil)
	assert.NoError(t, f.Enqueue("a"))
	f.Flush()
	assert.Equal(t, 0, f.Size())
}

func TestEnqueueFailsWhenQueueFull(t *testing.T) {
	transport := &fakeTransport{}
	f := NewFamily("events", 1, 1, transport, nil)
	assert.NoError(t, f.Enqueue("a"))
	assert.Error(t, f.Enqueue("b"))
}

func TestFlushNoopOnEmptyQueue(t *testing.T) {
	transport := &fakeTransport{}
	f := NewFamily("metrics", 10, 10, transport, nil)
	f.Flush()
	assert.Empty(t, transport.batches)
}

func TestCloseFlushesOnceAndStopsTimer(t *testing.T) {
	transport := &fakeTransport{}
	f := NewFamily("metrics", 10, 10, transport, nil)
	assert.NoError(t, f.Enqueue("a"))
	p := New([]*Family{f}, time.Hour)
	p.Close()
	assert.Len(t, transport.batches, 1)
	p.Close() // idempotent
	assert.Len(t, transport.batches, 1)
}
