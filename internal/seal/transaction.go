package seal

import (
	"encoding/hex"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/stellar/stellar-rpc/protocol"
)

type Stage int

const (
	StageBuilt Stage = iota
	StageSimulated
	StagePrepared
	StageSigned
)

func (s Stage) String() string {
	switch s {
	case StageBuilt:
		return "built"
	case StageSimulated:
		return "simulated"
	case StagePrepared:
		return "prepared"
	case StageSigned:
		return "signed"
	default:
		return "unknown"
	}
}

// Transaction is an immutable transaction envelope at a given stage. Every
// transition returns a new Transaction.
type Transaction struct {
	stage      Stage
	envelope   xdr.TransactionEnvelope
	passphrase string
}

func newTransaction(stage Stage, env xdr.TransactionEnvelope, passphrase string) (*Transaction, error) {
	if env.Type != xdr.EnvelopeTypeEnvelopeTypeTx || env.V1 == nil {
		return nil, errors.Wrapf(ErrSerializationFailed, "unsupported envelope type %s", env.Type)
	}

	clone, err := cloneEnvelope(env)
	if err != nil {
		return nil, err
	}

	return &Transaction{stage: stage, envelope: clone, passphrase: passphrase}, nil
}

// transactionFromBuilt takes over an envelope produced by txnbuild.
func transactionFromBuilt(tx *txnbuild.Transaction, passphrase string) (*Transaction, error) {
	env := tx.ToXDR()
	return newTransaction(StageBuilt, env, passphrase)
}

// transactionFromSigned parses a wallet-signed envelope.
func transactionFromSigned(signedXDR string, passphrase string) (*Transaction, error) {
	generic, err := txnbuild.TransactionFromXDR(signedXDR)
	if err != nil {
		return nil, errors.Wrap(ErrSerializationFailed, "signed envelope: "+err.Error())
	}

	tx, ok := generic.Transaction()
	if !ok {
		return nil, errors.Wrap(ErrSerializationFailed, "signed envelope is a fee bump transaction")
	}

	return transactionFromBuilt(tx, passphrase)
}

func (t *Transaction) Stage() Stage {
	return t.stage
}

// Envelope returns a copy of the underlying envelope.
func (t *Transaction) Envelope() (xdr.TransactionEnvelope, error) {
	return cloneEnvelope(t.envelope)
}

// Fee is the maximum fee in stroops.
func (t *Transaction) Fee() int64 {
	return int64(t.envelope.V1.Tx.Fee)
}

func (t *Transaction) Operations() int {
	return len(t.envelope.V1.Tx.Operations)
}

func (t *Transaction) Signatures() int {
	return len(t.envelope.V1.Signatures)
}

// Base64 serializes the envelope.
func (t *Transaction) Base64() (string, error) {
	b64, err := xdr.MarshalBase64(t.envelope)
	if err != nil {
		return "", errors.Wrap(ErrSerializationFailed, err.Error())
	}
	return b64, nil
}

// Hash returns the hex transaction hash on the transaction's network.
func (t *Transaction) Hash() (string, error) {
	hash, err := network.HashTransactionInEnvelope(t.envelope, t.passphrase)
	if err != nil {
		return "", errors.Wrap(ErrSerializationFailed, err.Error())
	}
	return hex.EncodeToString(hash[:]), nil
}

func (t *Transaction) simulated() *Transaction {
	return &Transaction{stage: StageSimulated, envelope: t.envelope, passphrase: t.passphrase}
}

func (t *Transaction) signed() *Transaction {
	return &Transaction{stage: StageSigned, envelope: t.envelope, passphrase: t.passphrase}
}

// prepare applies a simulation to the transaction: the soroban resource data
// is attached, authorization entries are filled in for contract calls that
// have none yet and the resource fee is added on top of the inclusion fee.
func (t *Transaction) prepare(sim *protocol.SimulateTransactionResponse) (*Transaction, error) {
	if sim.TransactionDataXDR == "" {
		return nil, stageError(ErrSimulationFailed, "simulation returned no transaction data")
	}

	var data xdr.SorobanTransactionData
	if err := xdr.SafeUnmarshalBase64(sim.TransactionDataXDR, &data); err != nil {
		return nil, stageError(ErrSimulationFailed, "invalid transaction data: "+err.Error())
	}

	if sim.MinResourceFee < 0 {
		return nil, stageError(ErrSimulationFailed, "negative resource fee "+strconv.FormatInt(sim.MinResourceFee, 10))
	}
	resourceFee := sim.MinResourceFee

	env, err := cloneEnvelope(t.envelope)
	if err != nil {
		return nil, err
	}

	tx := &env.V1.Tx
	for i := range tx.Operations {
		op, ok := tx.Operations[i].Body.GetInvokeHostFunctionOp()
		if !ok || len(op.Auth) > 0 || len(sim.Results) == 0 || sim.Results[0].AuthXDR == nil {
			continue
		}

		auth, err := decodeAuth(*sim.Results[0].AuthXDR)
		if err != nil {
			return nil, err
		}

		op.Auth = auth
		tx.Operations[i].Body.InvokeHostFunctionOp = &op
	}

	fee := int64(tx.Fee) + resourceFee
	if fee > math.MaxUint32 {
		return nil, stageError(ErrSimulationFailed, "fee "+strconv.FormatInt(fee, 10)+" exceeds uint32")
	}

	data.ResourceFee = xdr.Int64(resourceFee)
	tx.Fee = xdr.Uint32(fee)
	tx.Ext = xdr.TransactionExt{V: 1, SorobanData: &data}

	return &Transaction{stage: StagePrepared, envelope: env, passphrase: t.passphrase}, nil
}

func decodeAuth(entries []string) ([]xdr.SorobanAuthorizationEntry, error) {
	auth := make([]xdr.SorobanAuthorizationEntry, 0, len(entries))
	for _, entry := range entries {
		var a xdr.SorobanAuthorizationEntry
		if err := xdr.SafeUnmarshalBase64(entry, &a); err != nil {
			return nil, stageError(ErrSimulationFailed, "invalid auth entry: "+err.Error())
		}
		auth = append(auth, a)
	}
	return auth, nil
}

func cloneEnvelope(env xdr.TransactionEnvelope) (xdr.TransactionEnvelope, error) {
	raw, err := env.MarshalBinary()
	if err != nil {
		return xdr.TransactionEnvelope{}, errors.Wrap(ErrSerializationFailed, err.Error())
	}

	var clone xdr.TransactionEnvelope
	if err := xdr.SafeUnmarshal(raw, &clone); err != nil {
		return xdr.TransactionEnvelope{}, errors.Wrap(ErrSerializationFailed, err.Error())
	}

	return clone, nil
}
