// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package wavefront

import (
	"net/url"

	"github.com/wavefronthq/wavefront-sdk-go/internal/werr"
)

// Factory accumulates one sender per distinct resolved destination and
// hands back a single Sender: nil for zero clients, the sole sender for
// one, or a fan-out multiSender for more than one.
type Factory struct {
	senders []Sender
	seen    map[string]bool
}

// NewFactory returns an empty client factory.
func NewFactory() *Factory {
	return &Factory{seen: make(map[string]bool)}
}

// AddClient resolves rawURL into a direct or proxy sender and adds it.
// Adding a second URL that resolves to the same server is a configuration
// error.
//
// A "https://[token@]host" URL resolves to a direct sender against
// "https://host" using the embedded userinfo as the API token. A
// "proxy://host:port" or "http://host:port" URL resolves to a proxy
// sender against "host". A port in the URL becomes the metrics,
// distribution and event port, overriding any port options passed in;
// the tracing port always comes from the options. Without a port in the
// URL the configured port options apply unchanged.
// Any other scheme is a configuration error.
func (f *Factory) AddClient(rawURL string, opts ...Option) error {
	server, token, isProxy, err := resolveClientURL(rawURL)
	if err != nil {
		return err
	}
	if f.seen[server] {
		return werr.ErrConfiguration
	}

	var sender Sender
	if isProxy {
		host, port, err := splitProxyHost(server)
		if err != nil {
			return err
		}
		if port > 0 {
			opts = append(opts, MetricsPort(port), DistributionPort(port), EventPort(port))
		}
		sender, err = NewProxySender(host, opts...)
		if err != nil {
			return err
		}
	} else {
		sender, err = NewDirectSender(server, token, opts...)
		if err != nil {
			return err
		}
	}

	f.seen[server] = true
	f.senders = append(f.senders, sender)
	return nil
}

// GetClient returns nil with no clients added, the sole sender with one,
// or a fan-out sender otherwise.
func (f *Factory) GetClient() Sender {
	switch len(f.senders) {
	case 0:
		return nil
	case 1:
		return f.senders[0]
	default:
		return newMultiSender(append([]Sender(nil), f.senders...))
	}
}

// resolveClientURL implements scenario S5: "https://abc123@cluster.example.com"
// resolves to ("https://cluster.example.com", "abc123", false);
// "proxy://10.0.0.1:2878" resolves to ("http://10.0.0.1:2878", "", true).
// "http://host:port" is equally a proxy endpoint, grouped with "proxy://"
// per the original client_factory.py's PROXY_SCHEME/HTTP_PROXY_SCHEME
// handling — only "https://" reaches the direct HTTPS sender.
func resolveClientURL(rawURL string) (server, token string, isProxy bool, err error) {
	u, parseErr := url.Parse(rawURL)
	if parseErr != nil {
		return "", "", false, werr.ErrConfiguration
	}

	switch u.Scheme {
	case "https":
		token = ""
		if u.User != nil {
			token = u.User.Username()
		}
		stripped := *u
		stripped.User = nil
		return stripped.String(), token, false, nil
	case "proxy", "http":
		stripped := *u
		stripped.Scheme = "http"
		stripped.User = nil
		return stripped.String(), "", true, nil
	default:
		return "", "", false, werr.ErrConfiguration
	}
}

// splitProxyHost extracts "host" and an optional ":port" from a resolved
// "http://host[:port]" proxy server string.
func splitProxyHost(server string) (host string, port int, err error) {
	u, parseErr := url.Parse(server)
	if parseErr != nil {
		return "", 0, werr.ErrConfiguration
	}
	host = u.Hostname()
	if host == "" {
		return "", 0, werr.ErrConfiguration
	}
	if p := u.Port(); p != "" {
		var n int
		for _, c := range p {
			if c < '0' || c > '9' {
				return "", 0, werr.ErrConfiguration
			}
			n = n*10 + int(c-'0')
		}
		port = n
	}
	return host, port, nil
}
