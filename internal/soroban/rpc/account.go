package rpc

import (
	"context"

	"github.com/pkg/errors"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/stellar/stellar-rpc/protocol"
)

var ErrAccountNotFound = errors.New("account not found")

// GetAccount loads the current sequence number of a G... account through
// getLedgerEntries and returns it as a txnbuild source account.
func (c *Client) GetAccount(ctx context.Context, address string) (*txnbuild.SimpleAccount, error) {
	accountID, err := xdr.AddressToAccountId(address)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid account address %q", address)
	}

	key := xdr.LedgerKey{
		Type:    xdr.LedgerEntryTypeAccount,
		Account: &xdr.LedgerKeyAccount{AccountId: accountID},
	}

	keyXDR, err := xdr.MarshalBase64(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode account ledger key")
	}

	res, err := c.GetLedgerEntries(ctx, protocol.GetLedgerEntriesRequest{Keys: []string{keyXDR}})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account ledger entry")
	}

	if len(res.Entries) == 0 {
		return nil, errors.Wrap(ErrAccountNotFound, address)
	}

	var data xdr.LedgerEntryData
	if err := xdr.SafeUnmarshalBase64(res.Entries[0].DataXDR, &data); err != nil {
		return nil, errors.Wrap(err, "failed to decode account ledger entry")
	}

	account, ok := data.GetAccount()
	if !ok {
		return nil, errors.Errorf("ledger entry for %s is not an account", address)
	}

	return &txnbuild.SimpleAccount{
		AccountID: address,
		Sequence:  int64(account.SeqNum),
	}, nil
}
