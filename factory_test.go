// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package wavefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavefronthq/wavefront-sdk-go/internal/werr"
)

func TestResolveClientURL_Direct(t *testing.T) {
	server, token, isProxy, err := resolveClientURL("https://abc123@cluster.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://cluster.example.com", server)
	assert.Equal(t, "abc123", token)
	assert.False(t, isProxy)
}

func TestResolveClientURL_DirectNoToken(t *testing.T) {
	server, token, isProxy, err := resolveClientURL("https://cluster.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://cluster.example.com", server)
	assert.Empty(t, token)
	assert.False(t, isProxy)
}

func TestResolveClientURL_Proxy(t *testing.T) {
	server, token, isProxy, err := resolveClientURL("proxy://10.0.0.1:2878")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.1:2878", server)
	assert.Empty(t, token)
	assert.True(t, isProxy)
}

func TestResolveClientURL_HTTPIsProxy(t *testing.T) {
	server, token, isProxy, err := resolveClientURL("http://10.0.0.1:2878")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.1:2878", server)
	assert.Empty(t, token)
	assert.True(t, isProxy)
}

func TestResolveClientURL_UnknownScheme(t *testing.T) {
	_, _, _, err := resolveClientURL("ftp://cluster.example.com")
	assert.ErrorIs(t, err, werr.ErrConfiguration)
}

func TestSplitProxyHost(t *testing.T) {
	host, port, err := splitProxyHost("http://10.0.0.1:2878")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", host)
	assert.Equal(t, 2878, port)
}

func TestSplitProxyHost_NoPort(t *testing.T) {
	host, port, err := splitProxyHost("http://10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", host)
	assert.Equal(t, 0, port)
}

func TestFactory_GetClient_Empty(t *testing.T) {
	f := NewFactory()
	assert.Nil(t, f.GetClient())
}

func TestFactory_DedupBySameServerIsConfigurationError(t *testing.T) {
	f := NewFactory()
	require.NoError(t, f.AddClient("https://tok1@cluster.example.com"))
	err := f.AddClient("https://tok2@cluster.example.com")
	assert.ErrorIs(t, err, werr.ErrConfiguration)
	assert.Len(t, f.senders, 1)
}

func TestFactory_SingleClientReturnedDirectly(t *testing.T) {
	f := NewFactory()
	require.NoError(t, f.AddClient("https://tok@cluster.example.com"))
	_, ok := f.GetClient().(*DirectSender)
	assert.True(t, ok)
}

func TestFactory_MultipleClientsFanOut(t *testing.T) {
	f := NewFactory()
	require.NoError(t, f.AddClient("https://tok@cluster-a.example.com"))
	require.NoError(t, f.AddClient("https://tok@cluster-b.example.com"))
	_, ok := f.GetClient().(*multiSender)
	assert.True(t, ok)
}
