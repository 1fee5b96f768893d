// Package remote implements a wallet provider that forwards requests to an
// external wallet bridge over HTTP. The bridge exposes:
//
//	GET  /status   -> true | {"isConnected": bool}
//	GET  /network  -> {"network", "networkPassphrase"}
//	POST /access   -> "G..." | {"address"} | {"publicKey"}
//	POST /sign     -> "<xdr>" | {"signedTxXdr"} | {"signedXdr"} | ...
//
// Replies are passed through undecoded; wallet.Response sorts out the shape.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chapool/go-docseal/internal/wallet"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout = 2 * time.Minute

	apiKeyHeader      = "x-api-key"
	maxResponseBytes  = 1 << 20
	maxErrorBodyBytes = 512
)

type Provider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ wallet.Provider = (*Provider)(nil)

type Option func(*Provider)

func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// New creates a provider for the bridge at endpoint. Signing waits for the
// user, hence the generous default timeout.
func New(endpoint, apiKey string, opts ...Option) (*Provider, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("wallet endpoint required")
	}

	p := &Provider{
		endpoint: endpoint,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func (p *Provider) IsConnected(ctx context.Context) (bool, error) {
	raw, err := p.do(ctx, http.MethodGet, "/status", nil)
	if err != nil {
		return false, err
	}

	var connected bool
	if err := json.Unmarshal(raw, &connected); err == nil {
		return connected, nil
	}

	var obj struct {
		IsConnected *bool `json:"isConnected"`
		Connected   *bool `json:"connected"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false, errors.Wrap(wallet.ErrUnexpectedResponse, string(raw))
	}

	switch {
	case obj.IsConnected != nil:
		return *obj.IsConnected, nil
	case obj.Connected != nil:
		return *obj.Connected, nil
	default:
		return false, errors.Wrap(wallet.ErrUnexpectedResponse, string(raw))
	}
}

func (p *Provider) GetNetwork(ctx context.Context) (*wallet.NetworkDetails, error) {
	raw, err := p.do(ctx, http.MethodGet, "/network", nil)
	if err != nil {
		return nil, err
	}

	var details wallet.NetworkDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, errors.Wrap(err, "failed to decode network details")
	}

	return &details, nil
}

func (p *Provider) RequestAccess(ctx context.Context) (wallet.Response, error) {
	raw, err := p.do(ctx, http.MethodPost, "/access", nil)
	if err != nil {
		return nil, err
	}
	return wallet.Response(raw), nil
}

func (p *Provider) SignTransaction(ctx context.Context, txXDR string, network wallet.NetworkOptions, signer wallet.SignerOptions) (wallet.Response, error) {
	body := map[string]any{
		"xdr":    txXDR,
		"opts":   network,
		"signer": signer,
	}

	raw, err := p.do(ctx, http.MethodPost, "/sign", body)
	if err != nil {
		return nil, err
	}
	return wallet.Response(raw), nil
}

func (p *Provider) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal wallet request")
		}
		reader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.endpoint+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create wallet request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.apiKey != "" {
		req.Header.Set(apiKeyHeader, p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(wallet.ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, errors.Errorf("wallet %s %s: http %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read wallet response")
	}

	return json.RawMessage(raw), nil
}
