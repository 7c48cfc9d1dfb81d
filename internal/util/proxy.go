// Package util holds small helpers shared by the network clients.
package util

import (
	"net/http"
	"net/url"

	"golang.org/x/net/http/httpproxy"
)

// NewProxyFunc creates a proxy function for an http.Transport.
// With no proxy URLs configured it falls back to the environment.
// noProxy uses the NO_PROXY syntax: comma-separated hosts, domains and CIDRs.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	cfg := &httpproxy.Config{
		HTTPProxy:  httpProxy,
		HTTPSProxy: httpsProxy,
		NoProxy:    noProxy,
	}
	if httpsProxy == "" {
		cfg.HTTPSProxy = httpProxy
	}
	proxyURL := cfg.ProxyFunc()

	return func(req *http.Request) (*url.URL, error) {
		return proxyURL(req.URL)
	}
}

// NewHTTPClient returns a client using the configured proxies
func NewHTTPClient(httpProxy, httpsProxy, noProxy string) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(httpProxy, httpsProxy, noProxy)
	return &http.Client{Transport: transport}
}
