// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

// Package directhttp implements the HTTPS transport used by the direct
// sender: a single reused client POSTing gzip-compressed line-protocol
// batches (or JSON events) with a bearer token obtained statically or
// from the CSP token service.
package directhttp

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wavefronthq/wavefront-sdk-go/internal/pipeline"
)

const timeout = 60 * time.Second

// TokenSource supplies the bearer token for each request; implementations
// may cache internally (as the CSP token service does).
type TokenSource interface {
	AccessToken() (string, error)
}

// staticToken is a TokenSource that always returns the same string.
type staticToken string

func (s staticToken) AccessToken() (string, error) { return string(s), nil }

// StaticToken wraps a fixed token string as a TokenSource.
func StaticToken(token string) TokenSource { return staticToken(token) }

// Client is the reused HTTPS client for one server.
type Client struct {
	server string
	token  TokenSource
	http   *http.Client
}

// New constructs a Client against server (e.g. "https://cluster.wavefront.com").
func New(server string, token TokenSource) *Client {
	return &Client{server: server, token: token, http: &http.Client{Timeout: timeout}}
}

// ReportTransport POSTs a gzip-compressed, newline-joined batch of lines
// to /report?f=<format>.
func (c *Client) ReportTransport(format string) pipeline.Transport {
	return reportTransport{client: c, format: format}
}

// EventTransport POSTs one JSON event body at a time to /api/v2/event.
// Batching is always size 1 for events, enforced by the pipeline's
// family configuration, not by this transport.
func (c *Client) EventTransport() pipeline.Transport {
	return eventTransport{client: c}
}

type reportTransport struct {
	client *Client
	format string
}

func (t reportTransport) Send(lines []string) pipeline.SendResult {
	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
	if err != nil {
		return pipeline.SendResult{StatusCode: -1, Err: err}
	}
	if _, err := gz.Write([]byte(strings.Join(lines, ""))); err != nil {
		_ = gz.Close()
		return pipeline.SendResult{StatusCode: -1, Err: err}
	}
	if err := gz.Close(); err != nil {
		return pipeline.SendResult{StatusCode: -1, Err: err}
	}

	url := fmt.Sprintf("%s/report?f=%s", t.client.server, t.format)
	return t.client.post(url, &buf, "application/octet-stream", true)
}

type eventTransport struct {
	client *Client
}

func (t eventTransport) Send(lines []string) pipeline.SendResult {
	if len(lines) != 1 {
		return pipeline.SendResult{StatusCode: -1, Err: fmt.Errorf("events must be sent one at a time, got %d", len(lines))}
	}
	url := t.client.server + "/api/v2/event"
	return t.client.post(url, strings.NewReader(lines[0]), "application/json", false)
}

func (c *Client) post(url string, body io.Reader, contentType string, gzipped bool) pipeline.SendResult {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return pipeline.SendResult{StatusCode: -1, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	if gzipped {
		req.Header.Set("Content-Encoding", "gzip")
	}
	if c.token != nil {
		token, err := c.token.AccessToken()
		if err != nil {
			return pipeline.SendResult{StatusCode: -1, Err: err}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pipeline.SendResult{StatusCode: -1, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return pipeline.SendResult{StatusCode: resp.StatusCode}
}
