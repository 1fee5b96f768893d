// Package sorobantest provides an in-process Soroban RPC node for tests.
package sorobantest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/chapool/go-docseal/internal/soroban/rpc"
	"github.com/stellar/go/network"
	"github.com/stellar/go/xdr"
	"github.com/stellar/stellar-rpc/protocol"
)

const (
	DefaultSequence       int64 = 4_294_967_296
	DefaultMinResourceFee int64 = 25_000
	DefaultLatestLedger   uint32 = 1_000
	DefaultVersion              = "23.0.1"
)

// Node is a scripted Soroban RPC node. Exported fields may be changed by
// tests between calls; access is serialized through the node's mutex via
// the setter helpers or before the first request.
type Node struct {
	server *httptest.Server

	mu sync.Mutex

	Passphrase   string
	HealthStatus string
	Version      string

	Sequence        int64
	MissingAccounts map[string]bool

	SimulateError  string
	ReturnValue    *xdr.ScVal
	AuthEntries    []string
	MinResourceFee int64

	SendStatus         string
	SendErrorResultXDR string

	// TxStatuses is returned by consecutive getTransaction calls. Once
	// exhausted the last status repeats; an empty list answers SUCCESS.
	TxStatuses []string

	calls     map[string]int
	simulated []string
	sent      []string
}

// NewNode starts a healthy testnet node. It is closed with the test.
func NewNode(t testing.TB) *Node {
	t.Helper()

	n := &Node{
		Passphrase:      network.TestNetworkPassphrase,
		HealthStatus:    rpc.HealthStatusHealthy,
		Version:         DefaultVersion,
		Sequence:        DefaultSequence,
		MissingAccounts: map[string]bool{},
		MinResourceFee:  DefaultMinResourceFee,
		SendStatus:      rpc.SendStatusPending,
		calls:           map[string]int{},
	}

	n.server = httptest.NewServer(http.HandlerFunc(n.serveHTTP))
	t.Cleanup(n.server.Close)

	return n
}

func (n *Node) URL() string {
	return n.server.URL
}

// Update runs fn with the node locked.
func (n *Node) Update(fn func(n *Node)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fn(n)
}

// Calls returns how often method was invoked.
func (n *Node) Calls(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

// Simulated returns the envelopes passed to simulateTransaction.
func (n *Node) Simulated() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.simulated...)
}

// Sent returns the envelopes passed to sendTransaction.
func (n *Node) Sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.sent...)
}

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (n *Node) serveHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls[req.Method]++
	result, rErr := n.dispatch(req)
	n.mu.Unlock()

	out := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if rErr != nil {
		out["error"] = rErr
	} else {
		out["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (n *Node) dispatch(req rpcRequest) (any, *rpcError) {
	switch req.Method {
	case protocol.GetHealthMethodName:
		return protocol.GetHealthResponse{Status: n.HealthStatus, LatestLedger: DefaultLatestLedger}, nil
	case protocol.GetNetworkMethodName:
		return protocol.GetNetworkResponse{Passphrase: n.Passphrase, ProtocolVersion: 23}, nil
	case protocol.GetVersionInfoMethodName:
		return protocol.GetVersionInfoResponse{Version: n.Version, ProtocolVersion: 23}, nil
	case protocol.GetLedgerEntriesMethodName:
		return n.ledgerEntries(req.Params)
	case protocol.SimulateTransactionMethodName:
		return n.simulate(req.Params)
	case protocol.SendTransactionMethodName:
		return n.send(req.Params)
	case protocol.GetTransactionMethodName:
		return n.transaction(req.Params)
	default:
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	}
}

func (n *Node) ledgerEntries(params json.RawMessage) (any, *rpcError) {
	var p protocol.GetLedgerEntriesRequest
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: -32602, Message: err.Error()}
	}

	res := protocol.GetLedgerEntriesResponse{Entries: []protocol.LedgerEntryResult{}, LatestLedger: DefaultLatestLedger}

	for _, keyXDR := range p.Keys {
		var key xdr.LedgerKey
		if err := xdr.SafeUnmarshalBase64(keyXDR, &key); err != nil {
			return nil, &rpcError{Code: -32602, Message: err.Error()}
		}

		account, ok := key.GetAccount()
		if !ok {
			continue
		}

		address := account.AccountId.Address()
		if n.MissingAccounts[address] {
			continue
		}

		data := xdr.LedgerEntryData{
			Type: xdr.LedgerEntryTypeAccount,
			Account: &xdr.AccountEntry{
				AccountId: account.AccountId,
				Balance:   xdr.Int64(10_000_000_000),
				SeqNum:    xdr.SequenceNumber(n.Sequence),
			},
		}

		entryXDR, err := xdr.MarshalBase64(data)
		if err != nil {
			return nil, &rpcError{Code: -32603, Message: err.Error()}
		}

		res.Entries = append(res.Entries, protocol.LedgerEntryResult{
			KeyXDR:             keyXDR,
			DataXDR:            entryXDR,
			LastModifiedLedger: DefaultLatestLedger - 1,
		})
	}

	return res, nil
}

func (n *Node) simulate(params json.RawMessage) (any, *rpcError) {
	var p protocol.SimulateTransactionRequest
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: -32602, Message: err.Error()}
	}
	n.simulated = append(n.simulated, p.Transaction)

	if n.SimulateError != "" {
		return protocol.SimulateTransactionResponse{Error: n.SimulateError, LatestLedger: DefaultLatestLedger}, nil
	}

	data := xdr.SorobanTransactionData{
		Resources: xdr.SorobanResources{
			Footprint:    xdr.LedgerFootprint{ReadOnly: []xdr.LedgerKey{}, ReadWrite: []xdr.LedgerKey{}},
			Instructions: 1_500_000,
		},
		ResourceFee: xdr.Int64(n.MinResourceFee),
	}

	dataXDR, err := xdr.MarshalBase64(data)
	if err != nil {
		return nil, &rpcError{Code: -32603, Message: err.Error()}
	}

	retval := xdr.ScVal{Type: xdr.ScValTypeScvVoid}
	if n.ReturnValue != nil {
		retval = *n.ReturnValue
	}

	retvalXDR, err := xdr.MarshalBase64(retval)
	if err != nil {
		return nil, &rpcError{Code: -32603, Message: err.Error()}
	}

	auth := n.AuthEntries
	if auth == nil {
		auth = []string{}
	}

	return protocol.SimulateTransactionResponse{
		TransactionDataXDR: dataXDR,
		MinResourceFee:     n.MinResourceFee,
		Results:            []protocol.SimulateHostFunctionResult{{AuthXDR: &auth, ReturnValueXDR: &retvalXDR}},
		LatestLedger:       DefaultLatestLedger,
	}, nil
}

func (n *Node) send(params json.RawMessage) (any, *rpcError) {
	var p protocol.SendTransactionRequest
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: -32602, Message: err.Error()}
	}
	n.sent = append(n.sent, p.Transaction)

	sum := sha256.Sum256([]byte(p.Transaction))

	return protocol.SendTransactionResponse{
		Status:         n.SendStatus,
		Hash:           hex.EncodeToString(sum[:]),
		LatestLedger:   DefaultLatestLedger,
		ErrorResultXDR: n.SendErrorResultXDR,
	}, nil
}

func (n *Node) transaction(params json.RawMessage) (any, *rpcError) {
	var p protocol.GetTransactionRequest
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: -32602, Message: err.Error()}
	}

	status := protocol.TransactionStatusSuccess
	if len(n.TxStatuses) > 0 {
		status = n.TxStatuses[0]
		if len(n.TxStatuses) > 1 {
			n.TxStatuses = n.TxStatuses[1:]
		}
	}

	res := protocol.GetTransactionResponse{
		TransactionDetails: protocol.TransactionDetails{
			Status:          status,
			TransactionHash: p.Hash,
		},
		LatestLedger: DefaultLatestLedger,
		OldestLedger: 1,
	}

	if status != protocol.TransactionStatusNotFound {
		res.Ledger = DefaultLatestLedger
		res.LedgerCloseTime = 1_760_000_000
	}

	return res, nil
}
