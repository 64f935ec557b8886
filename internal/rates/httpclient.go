package rates

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

const (
	defaultClientTimeout         = 5 * time.Second
	defaultResponseHeaderTimeout = 5 * time.Second
	defaultIdleConnTimeout       = 90 * time.Second
	defaultTLSHandshakeTimeout   = 5 * time.Second
	defaultMaxConns              = 20
	defaultDialerTimeout         = 2 * time.Second
	defaultDialerKeepAlive       = 30 * time.Second
)

// ClientConfig tunes the transport used for provider calls. Zero values are
// replaced by defaults.
type ClientConfig struct {
	Timeout  time.Duration // whole-request deadline
	MaxConns int           // cap on open connections to the provider
}

type ClientOption func(*ClientConfig)

func WithTimeout(d time.Duration) ClientOption { return func(c *ClientConfig) { c.Timeout = d } }
func WithMaxConns(n int) ClientOption          { return func(c *ClientConfig) { c.MaxConns = n } }

// NewHTTPClient builds the provider *http.Client. The transport speaks
// HTTP/1.1 only, so each connection carries one request at a time and
// MaxConnsPerHost bounds concurrent requests across all in-flight wallet reads.
func NewHTTPClient(opts ...ClientOption) *http.Client {
	cfg := ClientConfig{Timeout: defaultClientTimeout, MaxConns: defaultMaxConns}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultClientTimeout
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = defaultMaxConns
	}

	headerTimeout := defaultResponseHeaderTimeout
	if cfg.Timeout < headerTimeout {
		headerTimeout = cfg.Timeout
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultDialerTimeout,
			KeepAlive: defaultDialerKeepAlive,
		}).DialContext,
		MaxConnsPerHost:       cfg.MaxConns,
		MaxIdleConns:          cfg.MaxConns,
		MaxIdleConnsPerHost:   cfg.MaxConns,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: headerTimeout,
		// a non-nil empty map disables HTTP/2, whose multiplexed streams
		// would bypass the connection cap
		TLSNextProto: map[string]func(string, *tls.Conn) http.RoundTripper{},
	}
	return &http.Client{Transport: tr, Timeout: cfg.Timeout}
}
