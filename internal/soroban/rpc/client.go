// Package rpc wraps the Soroban RPC client of the Stellar SDK and adds the
// loader that resolves which node to talk to.
package rpc

import (
	"net/http"
	"time"

	"github.com/stellar/stellar-rpc/client"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultRequestTimeout = 30 * time.Second

// Client talks to a single Soroban RPC endpoint. The RPC methods
// (GetHealth, GetNetwork, GetVersionInfo, GetLedgerEntries,
// SimulateTransaction, SendTransaction, GetTransaction) are the ones of the
// embedded stellar-rpc client.
type Client struct {
	*client.Client

	url string
}

// NewHTTPClient returns an instrumented HTTP client suitable for RPC calls.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// NewClient creates a client for url. A nil httpClient gets NewHTTPClient
// defaults.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultRequestTimeout)
	}

	return &Client{
		Client: client.NewClient(url, httpClient),
		url:    url,
	}
}

func (c *Client) URL() string {
	return c.url
}
