// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

// Package werr holds the sentinel error values shared across the module's
// internal packages and re-exported from the root package, so a single
// errors.Is check works regardless of which layer returned the error.
package werr

import "errors"

var (
	// ErrInvalidArgument is returned when an encoder rejects its input.
	ErrInvalidArgument = errors.New("wavefront: invalid argument")
	// ErrQueueFull is returned when a bounded per-family queue refused an
	// enqueue.
	ErrQueueFull = errors.New("wavefront: queue full")
	// ErrTransport marks a TCP or HTTP transport failure.
	ErrTransport = errors.New("wavefront: transport error")
	// ErrAuthentication marks a CSP token refresh failure.
	ErrAuthentication = errors.New("wavefront: authentication error")
	// ErrConfiguration marks an eagerly-surfaced factory configuration
	// error.
	ErrConfiguration = errors.New("wavefront: configuration error")
)
