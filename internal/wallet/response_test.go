package wallet_test

import (
	"context"
	"testing"

	"github.com/chapool/go-docseal/internal/wallet"
	"github.com/pkg/errors"
	"github.com/stellar/go/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedXDRShapes(t *testing.T) {
	tests := []struct {
		name string
		res  wallet.Response
		want string
	}{
		{"bare string", wallet.StringResponse("AAAA"), "AAAA"},
		{"signedTxXdr", wallet.ObjectResponse(map[string]string{"signedTxXdr": "AAAB"}), "AAAB"},
		{"signedXdr", wallet.ObjectResponse(map[string]string{"signedXdr": "AAAC"}), "AAAC"},
		{"xdr", wallet.ObjectResponse(map[string]string{"xdr": "AAAD"}), "AAAD"},
		{"transaction", wallet.ObjectResponse(map[string]string{"transaction": "AAAE"}), "AAAE"},
		{"precedence", wallet.ObjectResponse(map[string]string{"xdr": "later", "signedXdr": "first"}), "first"},
		{"skips empty field", wallet.Response(`{"signedTxXdr":"","xdr":"AAAF"}`), "AAAF"},
		{"skips non-string field", wallet.Response(`{"signedTxXdr":{"nested":true},"transaction":"AAAG"}`), "AAAG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.res.SignedXDR()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignedXDRUnexpected(t *testing.T) {
	for _, res := range []wallet.Response{
		nil,
		wallet.Response(`{}`),
		wallet.Response(`{"signature":"abc"}`),
		wallet.Response(`42`),
		wallet.Response(`""`),
		wallet.Response(`["AAAA"]`),
	} {
		_, err := res.SignedXDR()
		require.ErrorIs(t, err, wallet.ErrUnexpectedResponse, string(res))
	}
}

func TestAddressShapes(t *testing.T) {
	addr := "GAFFDFIPDOJMYC4AHXUHMHXYPKB3T6GJ2I4JCFGQHQX3DFJVT4TGNNBB"

	for _, res := range []wallet.Response{
		wallet.StringResponse(addr),
		wallet.ObjectResponse(map[string]string{"address": addr}),
		wallet.ObjectResponse(map[string]string{"publicKey": addr}),
	} {
		got, err := res.Address()
		require.NoError(t, err)
		assert.Equal(t, addr, got)
	}

	_, err := wallet.Response(`{"error":"User declined access"}`).Address()
	require.ErrorIs(t, err, wallet.ErrUnexpectedResponse)
}

type stubProvider struct {
	connected  bool
	connErr    error
	network    string
	access     wallet.Response
	accessErr  error
	signResult wallet.Response
}

func (s *stubProvider) IsConnected(context.Context) (bool, error) {
	return s.connected, s.connErr
}

func (s *stubProvider) GetNetwork(context.Context) (*wallet.NetworkDetails, error) {
	return &wallet.NetworkDetails{Network: s.network}, nil
}

func (s *stubProvider) RequestAccess(context.Context) (wallet.Response, error) {
	return s.access, s.accessErr
}

func (s *stubProvider) SignTransaction(context.Context, string, wallet.NetworkOptions, wallet.SignerOptions) (wallet.Response, error) {
	return s.signResult, nil
}

func TestConnect(t *testing.T) {
	addr := "GAFFDFIPDOJMYC4AHXUHMHXYPKB3T6GJ2I4JCFGQHQX3DFJVT4TGNNBB"

	got, err := wallet.Connect(t.Context(), &stubProvider{
		connected: true,
		network:   wallet.NetworkPublic,
		access:    wallet.ObjectResponse(map[string]string{"publicKey": addr}),
	}, wallet.NetworkTestnet)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	_, err = wallet.Connect(t.Context(), nil, wallet.NetworkTestnet)
	require.ErrorIs(t, err, wallet.ErrUnavailable)

	_, err = wallet.Connect(t.Context(), &stubProvider{connected: false}, "")
	require.ErrorIs(t, err, wallet.ErrUnavailable)

	_, err = wallet.Connect(t.Context(), &stubProvider{connErr: errors.New("extension missing")}, "")
	require.ErrorIs(t, err, wallet.ErrUnavailable)
	assert.Contains(t, err.Error(), "extension missing")

	_, err = wallet.Connect(t.Context(), &stubProvider{connected: true, accessErr: errors.New("declined")}, "")
	require.ErrorIs(t, err, wallet.ErrAccessDenied)

	_, err = wallet.Connect(t.Context(), &stubProvider{connected: true, access: wallet.Response(`{}`)}, "")
	require.ErrorIs(t, err, wallet.ErrAccessDenied)
}

func TestNetworkName(t *testing.T) {
	assert.Equal(t, wallet.NetworkTestnet, wallet.NetworkName(network.TestNetworkPassphrase))
	assert.Equal(t, wallet.NetworkPublic, wallet.NetworkName(network.PublicNetworkPassphrase))
	assert.Equal(t, wallet.NetworkFuturenet, wallet.NetworkName(wallet.FuturenetPassphrase))
	assert.Empty(t, wallet.NetworkName("Some Private Network"))
}
