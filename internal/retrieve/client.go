package retrieve

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// maxRedirects is the redirect limit of clients created by NewHTTPClient.
const maxRedirects = 10

// ClientOptions configures NewHTTPClient.
type ClientOptions struct {
	// Timeout applies to each request. 0 means no timeout.
	Timeout time.Duration

	// Proxy is an optional proxy URL. socks5:// and socks5h:// are dialed
	// through golang.org/x/net/proxy; http:// and https:// use the
	// standard CONNECT proxy support.
	Proxy string

	// Insecure disables TLS certificate verification.
	Insecure bool
}

// NewHTTPClient creates the HTTP client shared by the endpoint source.
// It keeps cookies between requests, limits redirects and optionally
// routes every connection through a proxy.
func NewHTTPClient(opts ClientOptions) (*http.Client, error) {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: opts.Insecure, //nolint:gosec // opt-in via --insecure
		},
		// Detail pages are fetched by many workers against one host.
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 32,
		IdleConnTimeout:     90 * time.Second,
	}

	if opts.Proxy != "" {
		if err := applyProxy(transport, opts.Proxy); err != nil {
			return nil, err
		}
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	return &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// applyProxy configures transport to use the proxy at rawURL.
func applyProxy(transport *http.Transport, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
		return nil
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedProxy, u.Scheme)
	}
}
