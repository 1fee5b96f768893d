package seal

import (
	"math"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/stellar/stellar-rpc/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContractID(t *testing.T) string {
	t.Helper()

	id, err := strkey.Encode(strkey.VersionByteContract, make([]byte, 32))
	require.NoError(t, err)
	return id
}

func builtInvoke(t *testing.T, fee int64) *Transaction {
	t.Helper()

	svc := &service{cfg: Config{
		ContractID:        testContractID(t),
		NetworkPassphrase: network.TestNetworkPassphrase,
		BaseFee:           fee,
	}.withDefaults()}

	op, err := svc.invoke(FunctionHasDocument, []xdr.ScVal{})
	require.NoError(t, err)

	account := txnbuild.NewSimpleAccount(keypair.MustRandom().Address(), 41)

	tx, err := svc.build(&account, []txnbuild.Operation{op}, DefaultTxTimeout)
	require.NoError(t, err)

	return tx
}

func simulation(t *testing.T, resourceFee int64, auth ...xdr.SorobanAuthorizationEntry) *protocol.SimulateTransactionResponse {
	t.Helper()

	data, err := xdr.MarshalBase64(xdr.SorobanTransactionData{
		Resources: xdr.SorobanResources{
			Footprint:    xdr.LedgerFootprint{ReadOnly: []xdr.LedgerKey{}, ReadWrite: []xdr.LedgerKey{}},
			Instructions: 1000,
		},
	})
	require.NoError(t, err)

	entries := []string{}
	for _, a := range auth {
		b64, err := xdr.MarshalBase64(a)
		require.NoError(t, err)
		entries = append(entries, b64)
	}

	return &protocol.SimulateTransactionResponse{
		TransactionDataXDR: data,
		MinResourceFee:     resourceFee,
		Results:            []protocol.SimulateHostFunctionResult{{AuthXDR: &entries}},
	}
}

func sourceAuth() xdr.SorobanAuthorizationEntry {
	var contract xdr.ContractId
	contract[0] = 7

	return xdr.SorobanAuthorizationEntry{
		Credentials: xdr.SorobanCredentials{Type: xdr.SorobanCredentialsTypeSorobanCredentialsSourceAccount},
		RootInvocation: xdr.SorobanAuthorizedInvocation{
			Function: xdr.SorobanAuthorizedFunction{
				Type: xdr.SorobanAuthorizedFunctionTypeSorobanAuthorizedFunctionTypeContractFn,
				ContractFn: &xdr.InvokeContractArgs{
					ContractAddress: xdr.ScAddress{Type: xdr.ScAddressTypeScAddressTypeContract, ContractId: &contract},
					FunctionName:    xdr.ScSymbol(FunctionSealDocument),
					Args:            []xdr.ScVal{},
				},
			},
			SubInvocations: []xdr.SorobanAuthorizedInvocation{},
		},
	}
}

func TestPrepareAddsResourceFeeAndData(t *testing.T) {
	built := builtInvoke(t, 100)
	assert.Equal(t, StageBuilt, built.Stage())
	assert.Equal(t, int64(100), built.Fee())

	prepared, err := built.simulated().prepare(simulation(t, 25_000, sourceAuth()))
	require.NoError(t, err)

	assert.Equal(t, StagePrepared, prepared.Stage())
	assert.Equal(t, int64(25_100), prepared.Fee())

	env, err := prepared.Envelope()
	require.NoError(t, err)

	data, ok := env.V1.Tx.Ext.GetSorobanData()
	require.True(t, ok)
	assert.Equal(t, xdr.Int64(25_000), data.ResourceFee)
	assert.Equal(t, xdr.Uint32(1000), data.Resources.Instructions)

	op, ok := env.V1.Tx.Operations[0].Body.GetInvokeHostFunctionOp()
	require.True(t, ok)
	require.Len(t, op.Auth, 1)
	assert.Equal(t, xdr.SorobanCredentialsTypeSorobanCredentialsSourceAccount, op.Auth[0].Credentials.Type)

	// the input handle is untouched
	assert.Equal(t, int64(100), built.Fee())
	orig, err := built.Envelope()
	require.NoError(t, err)
	assert.Equal(t, int32(0), orig.V1.Tx.Ext.V)
}

func TestPrepareRejectsBadSimulation(t *testing.T) {
	built := builtInvoke(t, 100)

	_, err := built.prepare(&protocol.SimulateTransactionResponse{})
	require.ErrorIs(t, err, ErrSimulationFailed)

	sim := simulation(t, 10)
	sim.MinResourceFee = -1
	_, err = built.prepare(sim)
	require.ErrorIs(t, err, ErrSimulationFailed)
	assert.Contains(t, err.Error(), "negative resource fee")

	sim = simulation(t, 10)
	sim.Results[0].AuthXDR = &[]string{"%%%"}
	_, err = built.prepare(sim)
	require.ErrorIs(t, err, ErrSimulationFailed)

	_, err = builtInvoke(t, 100).prepare(simulation(t, math.MaxUint32))
	require.ErrorIs(t, err, ErrSimulationFailed)
	assert.Contains(t, err.Error(), "exceeds uint32")
}

func TestSignedRoundTrip(t *testing.T) {
	built := builtInvoke(t, 100)
	prepared, err := built.prepare(simulation(t, 500))
	require.NoError(t, err)

	b64, err := prepared.Base64()
	require.NoError(t, err)

	parsed, err := transactionFromSigned(b64, network.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.Equal(t, int64(600), parsed.Fee())
	assert.Equal(t, 1, parsed.Operations())
	assert.Equal(t, 0, parsed.Signatures())

	h1, err := prepared.Hash()
	require.NoError(t, err)
	h2, err := parsed.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	_, err = transactionFromSigned("not xdr", network.TestNetworkPassphrase)
	require.ErrorIs(t, err, ErrSerializationFailed)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "built", StageBuilt.String())
	assert.Equal(t, "signed", StageSigned.String())
	assert.Equal(t, "unknown", Stage(42).String())
}
