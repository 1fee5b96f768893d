// Package keypair implements a wallet provider that signs locally with a
// Stellar secret seed.
package keypair

import (
	"context"

	"github.com/chapool/go-docseal/internal/wallet"
	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

type Provider struct {
	kp         *keypair.Full
	passphrase string
}

var _ wallet.Provider = (*Provider)(nil)

// New parses seed (S...) and returns a provider bound to the network with
// the given passphrase.
func New(seed string, passphrase string) (*Provider, error) {
	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return nil, errors.Wrap(err, "invalid secret seed")
	}

	return &Provider{kp: kp, passphrase: passphrase}, nil
}

func (p *Provider) Address() string {
	return p.kp.Address()
}

func (p *Provider) IsConnected(_ context.Context) (bool, error) {
	return true, nil
}

func (p *Provider) GetNetwork(_ context.Context) (*wallet.NetworkDetails, error) {
	return &wallet.NetworkDetails{
		Network:           wallet.NetworkName(p.passphrase),
		NetworkPassphrase: p.passphrase,
	}, nil
}

func (p *Provider) RequestAccess(_ context.Context) (wallet.Response, error) {
	return wallet.ObjectResponse(map[string]string{"address": p.kp.Address()}), nil
}

// SignTransaction signs txXDR with the seed. Requests for another account
// are refused.
func (p *Provider) SignTransaction(_ context.Context, txXDR string, network wallet.NetworkOptions, signer wallet.SignerOptions) (wallet.Response, error) {
	for _, account := range []string{network.AccountToSign, signer.Address} {
		if account != "" && account != p.kp.Address() {
			return nil, errors.Errorf("cannot sign for %s with key of %s", account, p.kp.Address())
		}
	}

	passphrase := network.NetworkPassphrase
	if passphrase == "" {
		passphrase = signer.Network
	}
	if passphrase == "" {
		passphrase = p.passphrase
	}

	generic, err := txnbuild.TransactionFromXDR(txXDR)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse transaction")
	}

	tx, ok := generic.Transaction()
	if !ok {
		return nil, errors.New("fee bump transactions are not supported")
	}

	signed, err := tx.Sign(passphrase, p.kp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	signedXDR, err := signed.Base64()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode signed transaction")
	}

	return wallet.ObjectResponse(map[string]string{
		"signedTxXdr":   signedXDR,
		"signerAddress": p.kp.Address(),
	}), nil
}
