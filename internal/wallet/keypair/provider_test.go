package keypair_test

import (
	"testing"

	"github.com/chapool/go-docseal/internal/wallet"
	walletkeypair "github.com/chapool/go-docseal/internal/wallet/keypair"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsignedPayment(t *testing.T, source string) string {
	t.Helper()

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &txnbuild.SimpleAccount{AccountID: source, Sequence: 41},
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{&txnbuild.Payment{
			Destination: keypair.MustRandom().Address(),
			Amount:      "1",
			Asset:       txnbuild.NativeAsset{},
		}},
		BaseFee:       txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(180)},
	})
	require.NoError(t, err)

	b64, err := tx.Base64()
	require.NoError(t, err)

	return b64
}

func TestSignTransaction(t *testing.T) {
	kp := keypair.MustRandom()

	p, err := walletkeypair.New(kp.Seed(), network.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), p.Address())

	res, err := p.SignTransaction(t.Context(), unsignedPayment(t, kp.Address()),
		wallet.NetworkOptions{NetworkPassphrase: network.TestNetworkPassphrase, AccountToSign: kp.Address()},
		wallet.SignerOptions{Address: kp.Address(), Network: network.TestNetworkPassphrase},
	)
	require.NoError(t, err)

	signedXDR, err := res.SignedXDR()
	require.NoError(t, err)

	generic, err := txnbuild.TransactionFromXDR(signedXDR)
	require.NoError(t, err)

	tx, ok := generic.Transaction()
	require.True(t, ok)
	require.Len(t, tx.Signatures(), 1)
	assert.Equal(t, int64(42), tx.SequenceNumber())

	hash, err := tx.Hash(network.TestNetworkPassphrase)
	require.NoError(t, err)
	require.NoError(t, kp.Verify(hash[:], tx.Signatures()[0].Signature))
}

func TestSignTransactionSignerNetworkPassphrase(t *testing.T) {
	kp := keypair.MustRandom()

	p, err := walletkeypair.New(kp.Seed(), network.PublicNetworkPassphrase)
	require.NoError(t, err)

	res, err := p.SignTransaction(t.Context(), unsignedPayment(t, kp.Address()),
		wallet.NetworkOptions{},
		wallet.SignerOptions{Address: kp.Address(), Network: network.TestNetworkPassphrase},
	)
	require.NoError(t, err)

	signedXDR, err := res.SignedXDR()
	require.NoError(t, err)

	generic, err := txnbuild.TransactionFromXDR(signedXDR)
	require.NoError(t, err)
	tx, ok := generic.Transaction()
	require.True(t, ok)

	hash, err := tx.Hash(network.TestNetworkPassphrase)
	require.NoError(t, err)
	require.NoError(t, kp.Verify(hash[:], tx.Signatures()[0].Signature))
}

func TestSignTransactionRefusesOtherAccount(t *testing.T) {
	kp := keypair.MustRandom()
	other := keypair.MustRandom().Address()

	p, err := walletkeypair.New(kp.Seed(), network.TestNetworkPassphrase)
	require.NoError(t, err)

	_, err = p.SignTransaction(t.Context(), unsignedPayment(t, other),
		wallet.NetworkOptions{AccountToSign: other},
		wallet.SignerOptions{},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot sign for")
}

func TestConnectKeypair(t *testing.T) {
	kp := keypair.MustRandom()

	p, err := walletkeypair.New(kp.Seed(), network.TestNetworkPassphrase)
	require.NoError(t, err)

	addr, err := wallet.Connect(t.Context(), p, wallet.NetworkTestnet)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), addr)
}

func TestNewInvalidSeed(t *testing.T) {
	_, err := walletkeypair.New("SNOTASEED", network.TestNetworkPassphrase)
	require.Error(t, err)

	// a public key is not a seed
	_, err = walletkeypair.New(keypair.MustRandom().Address(), network.TestNetworkPassphrase)
	require.Error(t, err)
}
