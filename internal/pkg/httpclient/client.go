package httpclient

import (
	"net/http"
	"time"
)

// New creates an HTTP client with the given timeout and a pooled transport
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(),
	}
}

// NewTransport returns the shared transport settings used by every outbound client
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}

// HeaderTransport adds fixed headers to every request
type HeaderTransport struct {
	Base    http.RoundTripper
	Headers map[string]string
}

func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	clone := req.Clone(req.Context())
	for k, v := range t.Headers {
		if v == "" {
			continue
		}
		clone.Header.Set(k, v)
	}
	return base.RoundTrip(clone)
}

// WithHeaders returns a client whose requests always carry headers
func WithHeaders(timeout time.Duration, headers map[string]string) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &HeaderTransport{
			Base:    NewTransport(),
			Headers: headers,
		},
	}
}
