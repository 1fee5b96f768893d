package seal

import (
	"context"

	"github.com/chapool/go-docseal/internal/soroban/rpc"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/stellar-rpc/protocol"
)

// Ledger is the subset of the RPC client the workflow needs.
type Ledger interface {
	GetAccount(ctx context.Context, address string) (*txnbuild.SimpleAccount, error)
	SimulateTransaction(ctx context.Context, req protocol.SimulateTransactionRequest) (protocol.SimulateTransactionResponse, error)
	SendTransaction(ctx context.Context, req protocol.SendTransactionRequest) (protocol.SendTransactionResponse, error)
	GetTransaction(ctx context.Context, req protocol.GetTransactionRequest) (protocol.GetTransactionResponse, error)
}

var _ Ledger = (*rpc.Client)(nil)

// Resolver hands out the Ledger to use for one operation.
type Resolver interface {
	Ledger(ctx context.Context) (Ledger, error)
}

type loaderResolver struct {
	loader *rpc.Loader
}

// FromLoader resolves ledgers through l.
//
//nolint:ireturn
func FromLoader(l *rpc.Loader) Resolver {
	return loaderResolver{loader: l}
}

//nolint:ireturn
func (r loaderResolver) Ledger(ctx context.Context) (Ledger, error) {
	c, err := r.loader.Client(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type staticResolver struct {
	ledger Ledger
}

// Static always resolves to l.
//
//nolint:ireturn
func Static(l Ledger) Resolver {
	return staticResolver{ledger: l}
}

//nolint:ireturn
func (r staticResolver) Ledger(context.Context) (Ledger, error) {
	return r.ledger, nil
}
