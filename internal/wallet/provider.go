// Package wallet defines the external signing boundary. A Provider holds the
// user's keys; this module only ever hands it an unsigned transaction
// envelope and reads back the signed one.
package wallet

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/stellar/go/network"
)

var (
	ErrUnavailable        = errors.New("wallet unavailable")
	ErrUnexpectedResponse = errors.New("unexpected signature response")
	ErrAccessDenied       = errors.New("wallet access denied")
)

// Network names as reported by browser wallets.
const (
	NetworkPublic     = "PUBLIC"
	NetworkTestnet    = "TESTNET"
	NetworkFuturenet  = "FUTURENET"
	NetworkStandalone = "STANDALONE"

	FuturenetPassphrase  = "Test SDF Future Network ; October 2022"
	StandalonePassphrase = "Standalone Network ; February 2017"
)

type NetworkDetails struct {
	Network           string `json:"network"`
	NetworkPassphrase string `json:"networkPassphrase"`
	NetworkURL        string `json:"networkUrl,omitempty"`
}

// NetworkOptions tells the wallet which network and account a transaction
// belongs to.
type NetworkOptions struct {
	NetworkPassphrase string `json:"networkPassphrase"`
	AccountToSign     string `json:"accountToSign,omitempty"`
}

// SignerOptions is the newer wallet API's equivalent of NetworkOptions.
// Providers get both and use whichever they understand. Network holds the
// network passphrase, not the short name.
type SignerOptions struct {
	Address string `json:"address"`
	Network string `json:"network"`
}

type Provider interface {
	IsConnected(ctx context.Context) (bool, error)
	GetNetwork(ctx context.Context) (*NetworkDetails, error)
	RequestAccess(ctx context.Context) (Response, error)
	SignTransaction(ctx context.Context, txXDR string, network NetworkOptions, signer SignerOptions) (Response, error)
}

// NetworkName maps a network passphrase to the name wallets report for it.
func NetworkName(passphrase string) string {
	switch passphrase {
	case network.PublicNetworkPassphrase:
		return NetworkPublic
	case network.TestNetworkPassphrase:
		return NetworkTestnet
	case FuturenetPassphrase:
		return NetworkFuturenet
	case StandalonePassphrase:
		return NetworkStandalone
	default:
		return ""
	}
}

// Connect runs the connect handshake against p and returns the address the
// wallet grants access to. A network other than expectedNetwork is only
// logged, the wallet stays usable.
func Connect(ctx context.Context, p Provider, expectedNetwork string) (string, error) {
	if p == nil {
		return "", errors.Wrap(ErrUnavailable, "no wallet provider configured")
	}

	connected, err := p.IsConnected(ctx)
	if err != nil {
		return "", errors.Wrap(ErrUnavailable, err.Error())
	}

	if !connected {
		return "", errors.Wrap(ErrUnavailable, "wallet is not connected")
	}

	details, err := p.GetNetwork(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Failed to read wallet network")
	case expectedNetwork != "" && details.Network != expectedNetwork:
		log.Warn().
			Str("network", details.Network).
			Str("expected", expectedNetwork).
			Msg("Wallet is connected to an unexpected network")
	}

	access, err := p.RequestAccess(ctx)
	if err != nil {
		return "", errors.Wrap(ErrAccessDenied, err.Error())
	}

	address, err := access.Address()
	if err != nil {
		return "", errors.Wrap(ErrAccessDenied, err.Error())
	}

	return address, nil
}
