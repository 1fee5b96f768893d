package seal

import (
	"encoding/json"

	"github.com/chapool/go-docseal/internal/soroban/rpc"
	"github.com/chapool/go-docseal/internal/soroban/scval"
	"github.com/chapool/go-docseal/internal/wallet"
	"github.com/pkg/errors"
)

var (
	ErrSDKUnavailable           = rpc.ErrSDKUnavailable
	ErrMalformedInput           = scval.ErrMalformedInput
	ErrWalletUnavailable        = wallet.ErrUnavailable
	ErrUnexpectedWalletResponse = wallet.ErrUnexpectedResponse

	ErrSigningFailed       = errors.New("wallet refused to sign")
	ErrSimulationFailed    = errors.New("simulation failed")
	ErrSerializationFailed = errors.New("failed to serialize transaction")
	ErrSendFailed          = errors.New("send failed")
	ErrTransactionFailed   = errors.New("transaction failed")
	ErrTransactionTimeout  = errors.New("timed out waiting for transaction confirmation")
)

// StageError is a failed submission stage together with the diagnostic
// payload the ledger returned for it.
type StageError struct {
	Kind   error
	Detail string
}

func (e *StageError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail
}

func (e *StageError) Unwrap() error {
	return e.Kind
}

func stageError(kind error, detail any) *StageError {
	switch d := detail.(type) {
	case nil:
		return &StageError{Kind: kind}
	case string:
		return &StageError{Kind: kind, Detail: d}
	default:
		raw, err := json.Marshal(d)
		if err != nil {
			return &StageError{Kind: kind}
		}
		return &StageError{Kind: kind, Detail: string(raw)}
	}
}

// Outcome names the result of a submission for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrWalletUnavailable):
		return "wallet_unavailable"
	case errors.Is(err, ErrSDKUnavailable):
		return "sdk_unavailable"
	case errors.Is(err, ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, ErrSimulationFailed):
		return "simulation_failed"
	case errors.Is(err, ErrSerializationFailed):
		return "serialization_failed"
	case errors.Is(err, ErrUnexpectedWalletResponse):
		return "unexpected_wallet_response"
	case errors.Is(err, ErrSigningFailed):
		return "signing_failed"
	case errors.Is(err, ErrSendFailed):
		return "send_failed"
	case errors.Is(err, ErrTransactionFailed):
		return "transaction_failed"
	case errors.Is(err, ErrTransactionTimeout):
		return "timeout"
	default:
		return "error"
	}
}
