// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package csp

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefreshOffset(t *testing.T) {
	assert.Equal(t, int64(0), refreshOffset(30))
	assert.Equal(t, int64(500), refreshOffset(680))
	assert.Equal(t, int64(420), refreshOffset(600))
	assert.Equal(t, int64(30), refreshOffset(60))
}

func TestAPITokenGrantFetchesAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/csp/gateway/am/api/auth/api-tokens/authorize", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "api_token=abc123", string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","scope":"aoa:directDataIngestion","expires_in":3600}`))
	}))
	defer srv.Close()

	svc := New(srv.URL, APITokenGrant{APIToken: "abc123"})
	token, err := svc.AccessToken()
	assert.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestClientCredentialsGrantSendsBasicAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"access_token":"tok2","scope":"ALL_PERMISSIONS","expires_in":3600}`))
	}))
	defer srv.Close()

	svc := New(srv.URL, ClientCredentialsGrant{ClientID: "id", ClientSecret: "secret"})
	token, err := svc.AccessToken()
	assert.NoError(t, err)
	assert.Equal(t, "tok2", token)
	assert.Equal(t, "Basic aWQ6c2VjcmV0", gotAuth)
}

func TestCachedTokenReusedUntilExpiry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"access_token":"tok","scope":"aoa:*","expires_in":3600}`))
	}))
	defer srv.Close()

	svc := New(srv.URL, APITokenGrant{APIToken: "abc"})
	_, _ = svc.AccessToken()
	_, _ = svc.AccessToken()
	assert.Equal(t, 1, calls)
}

func TestNon200ReturnsAuthenticationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := New(srv.URL, APITokenGrant{APIToken: "bad"})
	_, err := svc.AccessToken()
	assert.Error(t, err)
}

func TestTrailingSlashCollapsedBeforeAuthPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/csp/gateway/am/api/auth/api-tokens/authorize", r.URL.Path)
		_, _ = w.Write([]byte(`{"access_token":"tok","scope":"aoa:*","expires_in":3600}`))
	}))
	defer srv.Close()

	svc := New(srv.URL+"/", APITokenGrant{APIToken: "abc"})
	_, err := svc.AccessToken()
	assert.NoError(t, err)
}
