package rpc

import (
	"github.com/stellar/go/protocols/stellarcore"
	"github.com/stellar/stellar-rpc/protocol"
)

const HealthStatusHealthy = "healthy"

// Immediate outcomes of sendTransaction.
const (
	SendStatusPending       = stellarcore.TXStatusPending
	SendStatusDuplicate     = stellarcore.TXStatusDuplicate
	SendStatusTryAgainLater = stellarcore.TXStatusTryAgainLater
	SendStatusError         = stellarcore.TXStatusError
)

// SendFailed reports whether the node rejected a transaction outright.
// Some gateways answer "FAILED" instead of "ERROR", both count.
func SendFailed(res protocol.SendTransactionResponse) bool {
	return res.Status == SendStatusError ||
		res.Status == protocol.TransactionStatusFailed ||
		res.ErrorResultXDR != ""
}

