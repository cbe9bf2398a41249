// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

// Package csp implements the Cloud Services Platform token service: it
// exchanges an API token or OAuth2 client credentials for a bearer access
// token, caches it until shortly before expiry, and validates that the
// granted scope actually covers direct data ingestion.
package csp

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/wavefronthq/wavefront-sdk-go/internal/log"
	"github.com/wavefronthq/wavefront-sdk-go/internal/werr"
)

const requestTimeout = 30 * time.Second

const scopeErrorMessage = "the CSP response did not include a scope matching aoa:directDataIngestion, " +
	"aoa:*, aoa/*, or ALL_PERMISSIONS, which is required for Wavefront direct ingestion"

var validScopeSuffixes = []string{"aoa:directDataIngestion", "aoa:*", "aoa/*", "ALL_PERMISSIONS"}

// grant knows how to build the authorize request for one CSP flavor.
type grant interface {
	serverURL(baseURL string) string
	headers() map[string]string
	formBody() url.Values
}

// APITokenGrant authenticates with a long-lived CSP API token.
type APITokenGrant struct {
	APIToken string
}

func (g APITokenGrant) serverURL(base string) string {
	return collapseTrailingSlash(base) + "/csp/gateway/am/api/auth/api-tokens/authorize"
}

func (g APITokenGrant) headers() map[string]string {
	return map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
}

func (g APITokenGrant) formBody() url.Values {
	return url.Values{"api_token": {g.APIToken}}
}

// ClientCredentialsGrant authenticates with an OAuth2 client id/secret
// pair, optionally scoped to an organization.
type ClientCredentialsGrant struct {
	ClientID     string
	ClientSecret string
	OrgID        string
}

func (g ClientCredentialsGrant) serverURL(base string) string {
	return collapseTrailingSlash(base) + "/csp/gateway/am/api/auth/authorize"
}

func (g ClientCredentialsGrant) headers() map[string]string {
	creds := base64.StdEncoding.EncodeToString([]byte(g.ClientID + ":" + g.ClientSecret))
	return map[string]string{
		"Authorization": "Basic " + creds,
		"Content-Type":  "application/x-www-form-urlencoded",
	}
}

func (g ClientCredentialsGrant) formBody() url.Values {
	v := url.Values{"grant_type": {"client_credentials"}}
	if g.OrgID != "" {
		v.Set("orgId", g.OrgID)
	}
	return v
}

func collapseTrailingSlash(base string) string {
	return strings.TrimSuffix(base, "/")
}

type authorizeResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (r authorizeResponse) hasDirectIngestScope() bool {
	for _, tok := range strings.Fields(r.Scope) {
		for _, suffix := range validScopeSuffixes {
			if strings.HasSuffix(tok, suffix) {
				return true
			}
		}
	}
	return false
}

// state is the token service's lifecycle, matching the component design's
// Uninitialized -> Fetching -> Valid -> Refreshing -> Valid|Error machine.
type state int

const (
	stateUninitialized state = iota
	stateFetching
	stateValid
	stateRefreshing
	stateError
)

// TokenService exchanges CSP credentials for a cached, auto-refreshing
// access token.
type TokenService struct {
	baseURL string
	grant   grant
	client  *http.Client

	mu        sync.Mutex
	st        state
	token     string
	expiresAt time.Time
}

// New constructs a TokenService for baseURL using the given grant (either
// an APITokenGrant or a ClientCredentialsGrant).
func New(baseURL string, g grant) *TokenService {
	return &TokenService{baseURL: baseURL, grant: g, client: &http.Client{Timeout: requestTimeout}, st: stateUninitialized}
}

// AccessToken returns the cached token if still valid, otherwise
// refreshes synchronously.
func (s *TokenService) AccessToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st == stateValid && time.Now().Before(s.expiresAt) {
		return s.token, nil
	}
	return s.refreshLocked()
}

func (s *TokenService) refreshLocked() (string, error) {
	prevState := s.st
	s.st = stateFetching
	if prevState == stateValid {
		s.st = stateRefreshing
	}

	req, err := http.NewRequest(http.MethodPost, s.grant.serverURL(s.baseURL),
		strings.NewReader(s.grant.formBody().Encode()))
	if err != nil {
		return s.fail(err)
	}
	for k, v := range s.grant.headers() {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return s.fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.fail(fmt.Errorf("CSP authentication failed with status %d", resp.StatusCode))
	}

	var parsed authorizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return s.fail(err)
	}
	if !parsed.hasDirectIngestScope() {
		log.Error(scopeErrorMessage)
	}

	s.token = parsed.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(refreshOffset(parsed.ExpiresIn)) * time.Second)
	s.st = stateValid
	log.Info("CSP authentication succeeded, access token expires in %d seconds", parsed.ExpiresIn)
	return s.token, nil
}

// fail logs the failure, marks the service as errored, and reports
// werr.ErrAuthentication to the caller. A cached token is returned instead
// only while the current time is before its refresh point (expiresAt);
// a token whose refresh point has passed is not served, even though the
// CSP may not have expired it yet.
func (s *TokenService) fail(cause error) (string, error) {
	log.Error("CSP authentication failed: %v", cause)
	s.st = stateError
	if s.token != "" && time.Now().Before(s.expiresAt) {
		return s.token, nil
	}
	return "", werr.ErrAuthentication
}

// refreshOffset computes how many seconds after the token is received the
// next refresh is due: expiresIn-30 when expiresIn<600, else expiresIn-180,
// clamped to a non-negative value.
func refreshOffset(expiresIn int64) int64 {
	var offset int64
	if expiresIn < 600 {
		offset = expiresIn - 30
	} else {
		offset = expiresIn - 180
	}
	if offset < 0 {
		return 0
	}
	return offset
}
