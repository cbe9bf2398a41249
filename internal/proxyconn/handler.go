// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

// Package proxyconn implements the reconnecting TCP connection handler
// used by the proxy sender: one persistent socket per data family, lazily
// connected, reconnected exactly once on write failure.
package proxyconn

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wavefronthq/wavefront-sdk-go/internal/werr"
)

// Handler owns one TCP stream to a Wavefront proxy. Send calls are
// serialized: a single socket cannot interleave writes from concurrent
// callers.
type Handler struct {
	address string
	timeout time.Duration

	mu   sync.Mutex
	conn net.Conn

	failures int64
}

// New constructs a handler for address (host:port). The connection is
// not established until the first Send.
func New(address string, connectTimeout time.Duration) *Handler {
	return &Handler{address: address, timeout: connectTimeout}
}

func (h *Handler) connect() error {
	conn, err := net.DialTimeout("tcp", h.address, h.timeout)
	if err != nil {
		return err
	}
	h.conn = conn
	return nil
}

// SendData writes line's UTF-8 bytes to the socket, lazily connecting
// first. On I/O error it drops the socket and retries exactly once; a
// second failure increments the failure counter and returns
// werr.ErrTransport.
func (h *Handler) SendData(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sendData(line, true)
}

func (h *Handler) sendData(line string, reconnect bool) error {
	if h.conn == nil {
		if err := h.connect(); err != nil {
			return h.onFailure(line, reconnect, err)
		}
	}
	if _, err := h.conn.Write([]byte(line)); err != nil {
		return h.onFailure(line, reconnect, err)
	}
	return nil
}

func (h *Handler) onFailure(line string, reconnect bool, cause error) error {
	h.dropConn()
	if reconnect {
		return h.sendData(line, false)
	}
	atomic.AddInt64(&h.failures, 1)
	return werr.ErrTransport
}

func (h *Handler) dropConn() {
	if h.conn != nil {
		_ = h.conn.Close()
		h.conn = nil
	}
}

// Close closes the socket if one is open.
func (h *Handler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conn == nil {
		return nil
	}
	err := h.conn.Close()
	h.conn = nil
	return err
}

// FailureCount reports the number of sends that exhausted their retry.
func (h *Handler) FailureCount() int64 {
	return atomic.LoadInt64(&h.failures)
}
