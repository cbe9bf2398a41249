// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package wavefront

import (
	"fmt"
	"time"

	"github.com/wavefronthq/wavefront-sdk-go/internal/heartbeat"
	"github.com/wavefronthq/wavefront-sdk-go/internal/lineproto"
	"github.com/wavefronthq/wavefront-sdk-go/internal/pipeline"
	"github.com/wavefronthq/wavefront-sdk-go/internal/proxyconn"
	"github.com/wavefronthq/wavefront-sdk-go/internal/selfmetrics"
)

// ProxySender reports telemetry to a Wavefront proxy over one persistent
// TCP stream per data family.
type ProxySender struct {
	cfg    config
	source string

	handlers map[string]*proxyconn.Handler

	metrics    *pipeline.Family
	histograms *pipeline.Family
	spans      *pipeline.Family
	spanLogs   *pipeline.Family
	events     *pipeline.Family

	registry  *selfmetrics.Registry
	pipe      *pipeline.Pipeline
	heartbeat *heartbeat.Service
}

// NewProxySender constructs a sender that writes line-protocol text to a
// Wavefront proxy at host, one TCP connection per family port.
func NewProxySender(host string, opts ...Option) (*ProxySender, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &ProxySender{cfg: cfg, source: cfg.source, handlers: make(map[string]*proxyconn.Handler)}

	if cfg.enableInternalMetrics {
		registrySender := &proxyRegistrySender{sender: s}
		s.registry = selfmetrics.New(registrySender, "~sdk.python.core.sender.proxy",
			selfmetrics.WithSource(cfg.source), selfmetrics.WithTags(cfg.tags))
	}

	s.metrics = pipeline.NewFamily(familyMetrics, cfg.maxQueueSize, cfg.batchSize,
		s.transportFor(familyMetrics, host, cfg.metricsPort), s.registry)
	s.histograms = pipeline.NewFamily(familyHistograms, cfg.maxQueueSize, cfg.batchSize,
		s.transportFor(familyHistograms, host, cfg.distributionPort), s.registry)
	s.spans = pipeline.NewFamily(familySpans, cfg.maxQueueSize, cfg.batchSize,
		s.transportFor(familySpans, host, cfg.tracingPort), s.registry)
	s.spanLogs = pipeline.NewFamily(familySpanLogs, cfg.maxQueueSize, cfg.batchSize,
		s.transportFor(familySpanLogs, host, cfg.tracingPort), s.registry)
	s.events = pipeline.NewFamily(familyEvents, cfg.maxQueueSize, 1,
		s.transportFor(familyEvents, host, cfg.eventPort), s.registry)

	s.pipe = pipeline.New([]*pipeline.Family{s.metrics, s.histograms, s.spans, s.spanLogs, s.events}, cfg.flushInterval)
	s.heartbeat = startHeartbeat(cfg, s.source, s.SendMetric)
	return s, nil
}

// proxyTransport adapts a proxyconn.Handler (one line at a time) to the
// pipeline's batch-oriented Transport contract.
type proxyTransport struct {
	handler *proxyconn.Handler
}

func (t proxyTransport) Send(lines []string) pipeline.SendResult {
	for _, line := range lines {
		if err := t.handler.SendData(line); err != nil {
			return pipeline.SendResult{StatusCode: -1, Err: err}
		}
	}
	return pipeline.SendResult{}
}

func (s *ProxySender) transportFor(family, host string, port int) pipeline.Transport {
	addr := fmt.Sprintf("%s:%d", host, port)
	h := proxyconn.New(addr, s.cfg.tcpTimeout)
	s.handlers[family] = h
	return proxyTransport{handler: h}
}

type proxyRegistrySender struct {
	sender *ProxySender
}

func (p *proxyRegistrySender) SendMetric(name string, value float64, timestamp int64, source string, tags map[string]string) error {
	ts := timestamp
	return p.sender.SendMetric(name, value, &ts, source, tags)
}

func (p *proxyRegistrySender) SendDeltaCounter(name string, value float64, source string, tags map[string]string, timestamp int64) error {
	return p.sender.SendDeltaCounter(name, value, source, tags, timestamp)
}

func (s *ProxySender) SendMetric(name string, value float64, timestamp *int64, source string, tags map[string]string) error {
	line, err := lineproto.MetricLine(name, value, timestamp, source, tags, s.source)
	if err != nil {
		s.metrics.IncInvalid()
		return err
	}
	return s.metrics.Enqueue(line)
}

func (s *ProxySender) SendMetricNow(name string, value float64, source string, tags map[string]string) error {
	ts := nowSeconds()
	return s.SendMetric(name, value, &ts, source, tags)
}

func (s *ProxySender) SendDeltaCounter(name string, value float64, source string, tags map[string]string, timestamp int64) error {
	if value <= 0 {
		return nil
	}
	ts := timestamp
	return s.SendMetric(deltaCounterName(name), value, &ts, source, tags)
}

func (s *ProxySender) SendDistribution(name string, centroids []Centroid, granularities map[Granularity]struct{}, timestamp *int64, source string, tags map[string]string) error {
	line, err := lineproto.HistogramLine(name, centroids, granularities, timestamp, source, tags, s.source)
	if err != nil {
		s.histograms.IncInvalid()
		return err
	}
	return s.histograms.Enqueue(line)
}

func (s *ProxySender) SendDistributionNow(name string, centroids []Centroid, granularities map[Granularity]struct{}, source string, tags map[string]string) error {
	ts := nowSeconds()
	return s.SendDistribution(name, centroids, granularities, &ts, source, tags)
}

func (s *ProxySender) SendSpan(span Span) error {
	data := lineproto.SpanData{
		Name: span.Name, StartMillis: span.StartMillis, DurationMs: span.DurationMs,
		Source: span.Source, TraceID: span.TraceID, SpanID: span.SpanID,
		Parents: span.Parents, FollowsFrom: span.FollowsFrom, Tags: span.Tags, SpanLogs: span.SpanLogs,
	}
	line, err := lineproto.SpanLine(data, s.source)
	if err != nil {
		s.spans.IncInvalid()
		return err
	}
	if err := s.spans.Enqueue(line); err != nil {
		return err
	}
	if len(span.SpanLogs) > 0 {
		logLine, err := lineproto.SpanLogLine(span.TraceID, span.SpanID, span.SpanLogs, line)
		if err != nil {
			s.spanLogs.IncInvalid()
			return err
		}
		return s.spanLogs.Enqueue(logLine)
	}
	return nil
}

func (s *ProxySender) SendEvent(event Event) error {
	data := lineproto.EventData{
		Name: event.Name, StartMillis: event.StartMillis, EndMillis: event.EndMillis,
		Source: event.Source, Tags: event.Tags, Annotations: event.Annotations,
	}
	line, err := lineproto.EventLine(data, s.source)
	if err != nil {
		s.events.IncInvalid()
		return err
	}
	return s.events.Enqueue(line)
}

func (s *ProxySender) FlushNow() error {
	s.pipe.FlushAll()
	return nil
}

func (s *ProxySender) Close() {
	if s.heartbeat != nil {
		s.heartbeat.Close()
	}
	s.pipe.Close()
	for _, h := range s.handlers {
		_ = h.Close()
	}
	if s.registry != nil {
		s.registry.Close(time.Second)
	}
}

func (s *ProxySender) FailureCount() int64 {
	var total int64
	for _, h := range s.handlers {
		total += h.FailureCount()
	}
	return total
}
