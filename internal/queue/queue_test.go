// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package queue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wavefronthq/wavefront-sdk-go/internal/werr"
)

func TestOfferAndDrain(t *testing.T) {
	q := New(3)
	assert.NoError(t, q.Offer("a"))
	assert.NoError(t, q.Offer("b"))
	assert.Equal(t, 2, q.Size())
	assert.Equal(t, 1, q.RemainingCapacity())

	assert.NoError(t, q.Offer("c"))
	err := q.Offer("d")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, werr.ErrQueueFull))

	drained := q.Drain(2)
	assert.Equal(t, []string{"a", "b"}, drained)
	assert.Equal(t, 1, q.Size())
	assert.Equal(t, 2, q.RemainingCapacity())
}

func TestDrainMoreThanAvailable(t *testing.T) {
	q := New(5)
	_ = q.Offer("a")
	drained := q.Drain(10)
	assert.Equal(t, []string{"a"}, drained)
	assert.Equal(t, 0, q.Size())
}

func TestSizePlusRemainingCapacityIsConstant(t *testing.T) {
	q := New(4)
	for i := 0; i < 3; i++ {
		_ = q.Offer("x")
	}
	assert.Equal(t, 4, q.Size()+q.RemainingCapacity())
	_ = q.Drain(1)
	assert.Equal(t, 4, q.Size()+q.RemainingCapacity())
}
