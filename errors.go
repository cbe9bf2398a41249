// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package wavefront

import "github.com/wavefronthq/wavefront-sdk-go/internal/werr"

// Error taxonomy. Encoder and queue errors propagate to the caller of a
// SendX method; transport and self-metrics errors are never returned to a
// caller and are only observable through counters and logs.
var (
	// ErrInvalidArgument is returned when an encoder rejects its input
	// (blank name, empty centroids, missing granularities, blank tag
	// key/value).
	ErrInvalidArgument = werr.ErrInvalidArgument

	// ErrQueueFull is returned when a bounded per-family queue refused an
	// enqueue.
	ErrQueueFull = werr.ErrQueueFull

	// ErrTransport marks a TCP or HTTP transport failure. It is never
	// returned from a SendX call or from FlushNow; a failed batch is
	// requeued and counted instead.
	ErrTransport = werr.ErrTransport

	// ErrAuthentication marks a CSP token refresh failure.
	ErrAuthentication = werr.ErrAuthentication

	// ErrConfiguration marks an eagerly-surfaced factory configuration
	// error: unknown endpoint scheme, duplicate endpoint, or missing
	// OAuth secret.
	ErrConfiguration = werr.ErrConfiguration
)
