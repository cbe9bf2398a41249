// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package proxyconn

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func startEchoListener(t *testing.T) (addr string, received chan string, stop func()) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	received = make(chan string, 10)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				received <- line
			}
			if err != nil {
				return
			}
		}
	}()
	return ln.Addr().String(), received, func() { _ = ln.Close() }
}

func TestSendDataConnectsLazilyAndWrites(t *testing.T) {
	addr, received, stop := startEchoListener(t)
	defer stop()

	h := New(addr, time.Second)
	defer h.Close()

	assert.NoError(t, h.SendData("hello\n"))
	select {
	case line := <-received:
		assert.Equal(t, "hello\n", line)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for echoed line")
	}
	assert.Equal(t, int64(0), h.FailureCount())
}

func TestSendDataFailsAfterConnectionRefused(t *testing.T) {
	h := New("127.0.0.1:1", 100*time.Millisecond)
	err := h.SendData("hello\n")
	assert.Error(t, err)
	assert.Equal(t, int64(1), h.FailureCount())
}

func TestCloseIsIdempotent(t *testing.T) {
	addr, _, stop := startEchoListener(t)
	defer stop()
	h := New(addr, time.Second)
	assert.NoError(t, h.SendData("x\n"))
	assert.NoError(t, h.Close())
	assert.NoError(t, h.Close())
}
