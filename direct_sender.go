// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package wavefront

import (
	"time"

	"github.com/wavefronthq/wavefront-sdk-go/csp"
	"github.com/wavefronthq/wavefront-sdk-go/internal/directhttp"
	"github.com/wavefronthq/wavefront-sdk-go/internal/heartbeat"
	"github.com/wavefronthq/wavefront-sdk-go/internal/lineproto"
	"github.com/wavefronthq/wavefront-sdk-go/internal/pipeline"
	"github.com/wavefronthq/wavefront-sdk-go/internal/selfmetrics"
	"github.com/wavefronthq/wavefront-sdk-go/internal/werr"
)

const (
	familyMetrics      = "metrics"
	familyHistograms   = "histograms"
	familySpans        = "spans"
	familySpanLogs     = "spanLogs"
	familyEvents       = "events"
)

// DirectSender reports telemetry straight to a Wavefront cluster's HTTPS
// ingestion endpoints.
type DirectSender struct {
	cfg    config
	source string

	metrics      *pipeline.Family
	histograms   *pipeline.Family
	spans        *pipeline.Family
	spanLogs     *pipeline.Family
	events       *pipeline.Family

	registry  *selfmetrics.Registry
	pipe      *pipeline.Pipeline
	heartbeat *heartbeat.Service
}

// NewDirectSender constructs a sender that POSTs to server (e.g.
// "https://cluster.wavefront.com"). token may be empty when a CSP option
// is supplied instead.
func NewDirectSender(server, token string, opts ...Option) (*DirectSender, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	tokenSource, err := resolveTokenSource(cfg, token)
	if err != nil {
		return nil, err
	}

	httpClient := directhttp.New(server, tokenSource)

	s := &DirectSender{cfg: cfg, source: cfg.source}

	if cfg.enableInternalMetrics {
		registrySender := &directRegistrySender{sender: s}
		s.registry = selfmetrics.New(registrySender, "~sdk.python.core.sender.direct",
			selfmetrics.WithSource(cfg.source), selfmetrics.WithTags(cfg.tags))
	}

	s.metrics = pipeline.NewFamily(familyMetrics, cfg.maxQueueSize, cfg.batchSize, httpClient.ReportTransport("wavefront"), s.registry)
	s.histograms = pipeline.NewFamily(familyHistograms, cfg.maxQueueSize, cfg.batchSize, httpClient.ReportTransport("histogram"), s.registry)
	s.spans = pipeline.NewFamily(familySpans, cfg.maxQueueSize, cfg.batchSize, httpClient.ReportTransport("trace"), s.registry)
	s.spanLogs = pipeline.NewFamily(familySpanLogs, cfg.maxQueueSize, cfg.batchSize, httpClient.ReportTransport("spanLogs"), s.registry)
	s.events = pipeline.NewFamily(familyEvents, cfg.maxQueueSize, 1, httpClient.EventTransport(), s.registry)

	s.pipe = pipeline.New([]*pipeline.Family{s.metrics, s.histograms, s.spans, s.spanLogs, s.events}, cfg.flushInterval)
	s.heartbeat = startHeartbeat(cfg, s.source, s.SendMetric)
	return s, nil
}

// directRegistrySender relays the self-metrics registry's own reports
// back through the owning sender, closing the reentrancy loop described
// by the component design.
type directRegistrySender struct {
	sender *DirectSender
}

func (d *directRegistrySender) SendMetric(name string, value float64, timestamp int64, source string, tags map[string]string) error {
	ts := timestamp
	return d.sender.SendMetric(name, value, &ts, source, tags)
}

func (d *directRegistrySender) SendDeltaCounter(name string, value float64, source string, tags map[string]string, timestamp int64) error {
	return d.sender.SendDeltaCounter(name, value, source, tags, timestamp)
}

func resolveTokenSource(cfg config, token string) (directhttp.TokenSource, error) {
	switch {
	case cfg.cspAppID != "" && cfg.cspAppSecret != "":
		return csp.New(cfg.cspBaseURL, csp.ClientCredentialsGrant{
			ClientID: cfg.cspAppID, ClientSecret: cfg.cspAppSecret, OrgID: cfg.cspOrgID,
		}), nil
	case cfg.cspAppID != "" && cfg.cspAppSecret == "":
		return nil, werr.ErrConfiguration
	case cfg.cspAPIToken != "":
		return csp.New(cfg.cspBaseURL, csp.APITokenGrant{APIToken: cfg.cspAPIToken}), nil
	default:
		return directhttp.StaticToken(token), nil
	}
}

func (s *DirectSender) SendMetric(name string, value float64, timestamp *int64, source string, tags map[string]string) error {
	line, err := lineproto.MetricLine(name, value, timestamp, source, tags, s.source)
	if err != nil {
		s.metrics.IncInvalid()
		return err
	}
	return s.metrics.Enqueue(line)
}

func (s *DirectSender) SendMetricNow(name string, value float64, source string, tags map[string]string) error {
	ts := nowSeconds()
	return s.SendMetric(name, value, &ts, source, tags)
}

func (s *DirectSender) SendDeltaCounter(name string, value float64, source string, tags map[string]string, timestamp int64) error {
	if value <= 0 {
		return nil
	}
	deltaName := deltaCounterName(name)
	ts := timestamp
	return s.SendMetric(deltaName, value, &ts, source, tags)
}

func (s *DirectSender) SendDistribution(name string, centroids []Centroid, granularities map[Granularity]struct{}, timestamp *int64, source string, tags map[string]string) error {
	line, err := lineproto.HistogramLine(name, centroids, granularities, timestamp, source, tags, s.source)
	if err != nil {
		s.histograms.IncInvalid()
		return err
	}
	return s.histograms.Enqueue(line)
}

func (s *DirectSender) SendDistributionNow(name string, centroids []Centroid, granularities map[Granularity]struct{}, source string, tags map[string]string) error {
	ts := nowSeconds()
	return s.SendDistribution(name, centroids, granularities, &ts, source, tags)
}

func (s *DirectSender) SendSpan(span Span) error {
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

func (s *DirectSender) SendEvent(event Event) error {
	data := lineproto.EventData{
		Name: event.Name, StartMillis: event.StartMillis, EndMillis: event.EndMillis,
		Source: event.Source, Tags: event.Tags, Annotations: event.Annotations,
	}
	line, err := lineproto.EventJSON(data, s.source)
	if err != nil {
		s.events.IncInvalid()
		return err
	}
	return s.events.Enqueue(line)
}

func (s *DirectSender) FlushNow() error {
	s.pipe.FlushAll()
	return nil
}

func (s *DirectSender) Close() {
	if s.heartbeat != nil {
		s.heartbeat.Close()
	}
	s.pipe.Close()
	if s.registry != nil {
		s.registry.Close(time.Second)
	}
}

func (s *DirectSender) FailureCount() int64 {
	return s.metrics.DroppedCount() + s.histograms.DroppedCount() +
		s.spans.DroppedCount() + s.spanLogs.DroppedCount() + s.events.DroppedCount()
}
