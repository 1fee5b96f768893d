package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/chapool/go-docseal/internal/api/router"
	"github.com/chapool/go-docseal/internal/config"
	"github.com/chapool/go-docseal/internal/test/sorobantest"
	"github.com/labstack/echo/v4"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/strkey"
)

// Ledger bundles the fake RPC node a test server talks to and the account
// of the server's keypair wallet.
type Ledger struct {
	Node   *sorobantest.Node
	Signer *keypair.Full
}

// NewTestConfig returns the env config pointed at node, signing with signer.
// Confirmation polling is shortened and rate limiting disabled.
func NewTestConfig(t *testing.T, node *sorobantest.Node, signer *keypair.Full) config.Server {
	t.Helper()

	cfg := config.DefaultServiceConfigFromEnv()

	contractID, err := strkey.Encode(strkey.VersionByteContract, bytes.Repeat([]byte{7}, 32))
	if err != nil {
		t.Fatalf("failed to encode contract id: %v", err)
	}

	cfg.Echo.EnableLoggerMiddleware = false
	cfg.Soroban.Network = "testnet"
	cfg.Soroban.NetworkPassphrase = network.TestNetworkPassphrase
	cfg.Soroban.ContractID = contractID
	cfg.Soroban.RPCURLs = []string{node.URL()}
	cfg.Soroban.LocalRPCURL = ""
	cfg.Soroban.ServiceFee.Enabled = false
	cfg.Soroban.PollInterval = 5 * time.Millisecond
	cfg.Soroban.PollMaxAttempts = 5
	cfg.Soroban.ProbeTimeout = 5 * time.Second
	cfg.Wallet.Provider = config.WalletProviderKeypair
	cfg.Wallet.SecretSeed = signer.Seed()
	cfg.RateLimit.RequestsPerSecond = 0

	return cfg
}

// WithTestServer runs closure against a fully initialized server backed by a
// fresh fake ledger.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestLedger(t, func(s *api.Server, _ Ledger) {
		t.Helper()
		closure(s)
	})
}

// WithTestLedger is WithTestServer also handing out the fake ledger.
func WithTestLedger(t *testing.T, closure func(s *api.Server, ledger Ledger)) {
	t.Helper()

	WithTestLedgerConfigurable(t, nil, closure)
}

// WithTestLedgerConfigurable lets configure adjust the config before the
// server is built.
func WithTestLedgerConfigurable(t *testing.T, configure func(cfg *config.Server), closure func(s *api.Server, ledger Ledger)) {
	t.Helper()

	ledger := Ledger{
		Node:   sorobantest.NewNode(t),
		Signer: keypair.MustRandom(),
	}

	cfg := NewTestConfig(t, ledger.Node, ledger.Signer)
	if configure != nil {
		configure(&cfg)
	}

	WithTestServerConfigurable(t, cfg, func(s *api.Server) {
		t.Helper()
		closure(s, ledger)
	})
}

// WithTestServerConfigurable runs closure against a server built from cfg.
func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server)) {
	t.Helper()

	s := NewTestServer(t, cfg)

	closure(s)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		t.Fatalf("failed to shutdown server: %v", errs)
	}
}

// NewTestServer builds a server from cfg with a mocked clock and attached routes.
func NewTestServer(t *testing.T, cfg config.Server) *api.Server {
	t.Helper()

	s, err := api.InitNewServerWithLoader(cfg, api.NewLoader(cfg), t)
	if err != nil {
		t.Fatalf("failed to init server: %v", err)
	}

	if err := router.Init(s); err != nil {
		t.Fatalf("failed to init router: %v", err)
	}

	return s
}

// PerformRequest sends a request to s and returns the recorded response.
// body may be nil, an io.Reader sent as is, or anything else sent as JSON.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body any, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	contentType := echo.MIMEApplicationJSON

	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
		contentType = ""
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)

	for k, v := range headers {
		for _, vv := range v {
			req.Header.Add(k, vv)
		}
	}

	if reader != nil && contentType != "" && req.Header.Get(echo.HeaderContentType) == "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}

	res := httptest.NewRecorder()

	s.Echo.ServeHTTP(res, req)

	return res
}

// ParseResponse decodes the JSON body of res into v.
func ParseResponse(t *testing.T, res *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.NewDecoder(res.Result().Body).Decode(v); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
}
