// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package wavefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavefronthq/wavefront-sdk-go/csp"
	"github.com/wavefronthq/wavefront-sdk-go/internal/directhttp"
	"github.com/wavefronthq/wavefront-sdk-go/internal/werr"
)

func TestResolveTokenSource_StaticToken(t *testing.T) {
	cfg := defaultConfig()
	ts, err := resolveTokenSource(cfg, "abc123")
	require.NoError(t, err)
	_, ok := ts.(interface {
		AccessToken() (string, error)
	})
	assert.True(t, ok)
}

func TestResolveTokenSource_CSPAPIToken(t *testing.T) {
	cfg := defaultConfig()
	CSPAPIToken("https://console.cloud.vmware.com", "api-tok")(&cfg)
	ts, err := resolveTokenSource(cfg, "")
	require.NoError(t, err)
	_, ok := ts.(*csp.TokenService)
	assert.True(t, ok)
}

func TestResolveTokenSource_CSPClientCredentials(t *testing.T) {
	cfg := defaultConfig()
	CSPClientCredentials("https://console.cloud.vmware.com", "app-id", "app-secret", "org-id")(&cfg)
	ts, err := resolveTokenSource(cfg, "")
	require.NoError(t, err)
	_, ok := ts.(*csp.TokenService)
	assert.True(t, ok)
}

func TestResolveTokenSource_AppIDWithoutSecretIsConfigurationError(t *testing.T) {
	cfg := defaultConfig()
	cfg.cspBaseURL = "https://console.cloud.vmware.com"
	cfg.cspAppID = "app-id"
	_, err := resolveTokenSource(cfg, "")
	assert.ErrorIs(t, err, werr.ErrConfiguration)
}

func TestNewDirectSender_ConstructsAndCloses(t *testing.T) {
	s, err := NewDirectSender("https://cluster.example.com", "abc123", DisableInternalMetrics())
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.NoError(t, s.SendMetricNow("test.metric", 1, "host", nil))
	s.Close()
}

func TestNewDirectSender_FailureCountAggregatesFamilies(t *testing.T) {
	s, err := NewDirectSender("https://cluster.example.com", "abc123", DisableInternalMetrics(), MaxQueueSize(0))
	require.NoError(t, err)
	defer s.Close()

	assert.Error(t, s.SendMetricNow("test.metric", 1, "host", nil))
	assert.Equal(t, int64(1), s.FailureCount())
}

var _ directhttp.TokenSource = (*csp.TokenService)(nil)
