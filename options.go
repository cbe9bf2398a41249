// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package wavefront

import (
	"os"
	"time"

	"github.com/wavefronthq/wavefront-sdk-go/internal/heartbeat"
)

const (
	defaultMaxQueueSize    = 50000
	defaultBatchSize       = 10000
	defaultFlushInterval   = 5 * time.Second
	defaultMetricsPort     = 2878
	defaultDistributionPort = 2878
	defaultTracingPort     = 30000
	defaultEventPort       = 2878
	defaultTCPTimeout      = 10 * time.Second
)

type config struct {
	maxQueueSize          int
	batchSize             int
	flushInterval         time.Duration
	enableInternalMetrics bool
	source                string
	tags                  map[string]string

	cspBaseURL   string
	cspAPIToken  string
	cspAppID     string
	cspAppSecret string
	cspOrgID     string

	metricsPort      int
	distributionPort int
	tracingPort      int
	eventPort        int
	tcpTimeout       time.Duration

	appTags              heartbeat.ApplicationTags
	heartbeatComponents  []string
}

func defaultConfig() config {
	return config{
		maxQueueSize:          defaultMaxQueueSize,
		batchSize:             defaultBatchSize,
		flushInterval:         defaultFlushInterval,
		enableInternalMetrics: true,
		source:                defaultSource(),
		metricsPort:           defaultMetricsPort,
		distributionPort:      defaultDistributionPort,
		tracingPort:           defaultTracingPort,
		eventPort:             defaultEventPort,
		tcpTimeout:            defaultTCPTimeout,
	}
}

// Option configures a sender at construction time.
type Option func(*config)

// MaxQueueSize bounds each per-family queue. Default 50000.
func MaxQueueSize(n int) Option { return func(c *config) { c.maxQueueSize = n } }

// BatchSize bounds how many lines are sent per direct POST. Events are
// always sent one at a time regardless of this setting. Default 10000.
func BatchSize(n int) Option { return func(c *config) { c.batchSize = n } }

// FlushInterval sets the period of the background flush timer. Default 5s.
func FlushInterval(d time.Duration) Option { return func(c *config) { c.flushInterval = d } }

// DisableInternalMetrics turns off the self-metrics registry entirely.
func DisableInternalMetrics() Option { return func(c *config) { c.enableInternalMetrics = false } }

// Source overrides the default source tag (normally the OS hostname).
func Source(source string) Option { return func(c *config) { c.source = source } }

// Tags attaches tags to this sender's own self-metrics (queue sizes,
// report counters, dropped-batch counts), not to points passed to SendX.
func Tags(tags map[string]string) Option { return func(c *config) { c.tags = tags } }

// CSPAPIToken selects the API-token CSP grant.
func CSPAPIToken(baseURL, token string) Option {
	return func(c *config) { c.cspBaseURL = baseURL; c.cspAPIToken = token }
}

// CSPClientCredentials selects the OAuth2 client-credentials CSP grant.
func CSPClientCredentials(baseURL, appID, appSecret, orgID string) Option {
	return func(c *config) {
		c.cspBaseURL = baseURL
		c.cspAppID = appID
		c.cspAppSecret = appSecret
		c.cspOrgID = orgID
	}
}

// MetricsPort, DistributionPort, TracingPort, and EventPort override the
// proxy sender's per-family TCP ports.
func MetricsPort(port int) Option      { return func(c *config) { c.metricsPort = port } }
func DistributionPort(port int) Option { return func(c *config) { c.distributionPort = port } }
func TracingPort(port int) Option      { return func(c *config) { c.tracingPort = port } }
func EventPort(port int) Option        { return func(c *config) { c.eventPort = port } }

// TCPTimeout bounds how long the proxy sender waits to establish a TCP
// connection.
func TCPTimeout(d time.Duration) Option { return func(c *config) { c.tcpTimeout = d } }

// ApplicationIdentity enables the background heartbeater: one
// ~component.heartbeat gauge is reported every five minutes per name in
// components, tagged with tags.
func ApplicationIdentity(tags heartbeat.ApplicationTags, components ...string) Option {
	return func(c *config) {
		c.appTags = tags
		c.heartbeatComponents = components
	}
}

// defaultSource returns the OS hostname, or the literal "unknown" when
// it cannot be determined.
func defaultSource() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "unknown"
	}
	return host
}
