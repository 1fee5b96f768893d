package seal

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/chapool/go-docseal/internal/soroban/rpc"
	"github.com/chapool/go-docseal/internal/soroban/scval"
	"github.com/chapool/go-docseal/internal/util"
	"github.com/chapool/go-docseal/internal/wallet"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/stellar/stellar-rpc/protocol"
)

const (
	FunctionSealDocument   = "seal_document"
	FunctionHasDocument    = "has_document"
	FunctionCountDocuments = "count_documents"
	FunctionGetDocuments   = "get_documents"
	FunctionGetMetadata    = "get_metadata"

	DefaultTxTimeout        = 180 * time.Second
	DefaultQueryTimeout     = 60 * time.Second
	DefaultServiceFeeAmount = "1"
)

type ServiceFee struct {
	Enabled     bool
	Destination string
	Amount      string
}

type Config struct {
	ContractID        string
	NetworkPassphrase string
	BaseFee           int64
	TxTimeout         time.Duration
	QueryTimeout      time.Duration
	ServiceFee        ServiceFee
	Poll              RetryPolicy
}

func (c Config) withDefaults() Config {
	if c.BaseFee <= 0 {
		c.BaseFee = txnbuild.MinBaseFee
	}
	if c.TxTimeout <= 0 {
		c.TxTimeout = DefaultTxTimeout
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = DefaultQueryTimeout
	}
	if c.ServiceFee.Amount == "" {
		c.ServiceFee.Amount = DefaultServiceFeeAmount
	}
	c.Poll = c.Poll.withDefaults()
	return c
}

func (c Config) Validate() error {
	return vala.BeginValidation().Validate(
		vala.StringNotEmpty(c.ContractID, "ContractID"),
		vala.StringNotEmpty(c.NetworkPassphrase, "NetworkPassphrase"),
	).Check()
}

// Recorder observes finished submissions.
type Recorder interface {
	ObserveSubmission(outcome string, elapsed time.Duration)
	ObservePolls(polls int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSubmission(string, time.Duration) {}
func (nopRecorder) ObservePolls(int)                        {}

// Result is the outcome of a confirmed submission.
type Result struct {
	Send  *protocol.SendTransactionResponse `json:"send"`
	Final *protocol.GetTransactionResponse  `json:"final"`
	Hash  string                            `json:"hash"`
	Polls int                               `json:"polls"`
}

// Service seals documents on the contract and reads them back.
type Service interface {
	// SubmitSeal builds, simulates and prepares a seal_document call for
	// payload, has the wallet sign it as signer, sends it and waits for the
	// ledger to confirm it.
	SubmitSeal(ctx context.Context, payload Payload, signer string) (*Result, error)

	// HasDocument reports whether docHash has any seal. account is the
	// source of the simulated call. It returns nil when the answer could not
	// be obtained.
	HasDocument(ctx context.Context, docHash string, account string) *bool

	// CountDocuments returns the number of seals recorded for docHash.
	CountDocuments(ctx context.Context, docHash string, account string) (uint32, bool)

	// GetDocuments returns the seals recorded for docHash.
	GetDocuments(ctx context.Context, docHash string, account string) ([]OnChainRecord, bool)

	// GetMetadata returns the signer metadata recorded for docHash.
	GetMetadata(ctx context.Context, docHash string, account string) (*OnChainMetadata, bool)

	// TransactionStatus fetches the current status of a sent transaction.
	TransactionStatus(ctx context.Context, hash string) (*protocol.GetTransactionResponse, error)
}

type ServiceOption func(*service)

func WithRecorder(r Recorder) ServiceOption {
	return func(s *service) {
		if r != nil {
			s.recorder = r
		}
	}
}

type service struct {
	cfg      Config
	ledgers  Resolver
	wallet   wallet.Provider
	recorder Recorder
}

// NewService creates the seal service. w may be nil, SubmitSeal then fails
// with ErrWalletUnavailable while queries keep working.
//
//nolint:ireturn
func NewService(cfg Config, ledgers Resolver, w wallet.Provider, opts ...ServiceOption) (Service, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid seal service config")
	}

	if _, err := scval.ContractAddress(cfg.ContractID); err != nil {
		return nil, errors.Wrap(err, "invalid contract id")
	}

	if ledgers == nil {
		return nil, errors.New("ledger resolver is required")
	}

	s := &service{
		cfg:      cfg,
		ledgers:  ledgers,
		wallet:   w,
		recorder: nopRecorder{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *service) SubmitSeal(ctx context.Context, payload Payload, signer string) (*Result, error) {
	start := time.Now()

	res, err := s.submitSeal(ctx, payload, signer)

	s.recorder.ObserveSubmission(Outcome(err), time.Since(start))
	if res != nil {
		s.recorder.ObservePolls(res.Polls)
	}

	return res, err
}

func (s *service) submitSeal(ctx context.Context, payload Payload, signer string) (*Result, error) {
	if s.wallet == nil {
		return nil, errors.Wrap(ErrWalletUnavailable, "no wallet provider configured")
	}

	if signer == "" {
		signer = payload.Signer
	}
	if payload.Signer == "" {
		payload.Signer = signer
	}

	payload.AllowedSigners = slices.Clone(payload.AllowedSigners)
	payload.EnsureSigner()
	if err := payload.CheckSignerLimit(); err != nil {
		return nil, err
	}

	log := util.LogFromContext(ctx).With().
		Str("signer", signer).
		Str("doc_hash", payload.DocHash).
		Logger()

	args, err := NewRequest(payload).Args()
	if err != nil {
		return nil, err
	}

	ledger, err := s.ledgers.Ledger(ctx)
	if err != nil {
		return nil, err
	}

	source, err := ledger.GetAccount(ctx, signer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load signer account")
	}

	ops, err := s.sealOperations(args)
	if err != nil {
		return nil, err
	}

	built, err := s.build(source, ops, s.cfg.TxTimeout)
	if err != nil {
		return nil, err
	}

	prepared, err := s.simulateAndPrepare(ctx, ledger, built)
	if err != nil {
		return nil, err
	}

	unsigned, err := prepared.Base64()
	if err != nil {
		return nil, err
	}

	log.Debug().Int64("fee", prepared.Fee()).Int("operations", prepared.Operations()).Msg("Requesting wallet signature")

	signedXDR, err := s.sign(ctx, unsigned, signer)
	if err != nil {
		return nil, err
	}

	signed, err := transactionFromSigned(signedXDR, s.cfg.NetworkPassphrase)
	if err != nil {
		return nil, err
	}
	signed = signed.signed()

	envelope, err := signed.Base64()
	if err != nil {
		return nil, err
	}

	sent, err := ledger.SendTransaction(ctx, protocol.SendTransactionRequest{Transaction: envelope})
	if err != nil {
		return nil, errors.Wrap(ErrSendFailed, err.Error())
	}

	if rpc.SendFailed(sent) {
		return nil, stageError(ErrSendFailed, sent)
	}

	hash := sent.Hash
	if hash == "" {
		if hash, err = signed.Hash(); err != nil {
			return nil, err
		}
	}

	log = log.With().Str("tx_hash", hash).Logger()
	log.Info().Str("status", sent.Status).Msg("Seal transaction sent, waiting for confirmation")

	final, polls, err := s.cfg.Poll.Poll(ctx, func(ctx context.Context) (*protocol.GetTransactionResponse, error) {
		res, err := ledger.GetTransaction(ctx, protocol.GetTransactionRequest{Hash: hash})
		if err != nil {
			return nil, err
		}
		return &res, nil
	})

	result := &Result{Send: &sent, Final: final, Hash: hash, Polls: polls}
	if err != nil {
		log.Warn().Err(err).Int("polls", polls).Msg("Seal transaction not confirmed")
		return result, err
	}

	log.Info().Int("polls", polls).Uint32("ledger", final.Ledger).Msg("Seal transaction confirmed")

	return result, nil
}

func (s *service) sealOperations(args []xdr.ScVal) ([]txnbuild.Operation, error) {
	invoke, err := s.invoke(FunctionSealDocument, args)
	if err != nil {
		return nil, err
	}

	ops := make([]txnbuild.Operation, 0, 2)

	if fee := s.cfg.ServiceFee; fee.Enabled && isAccountAddress(fee.Destination) {
		ops = append(ops, &txnbuild.Payment{
			Destination: fee.Destination,
			Amount:      fee.Amount,
			Asset:       txnbuild.NativeAsset{},
		})
	}

	return append(ops, invoke), nil
}

func (s *service) invoke(function string, args []xdr.ScVal) (*txnbuild.InvokeHostFunction, error) {
	contract, err := scval.ContractAddress(s.cfg.ContractID)
	if err != nil {
		return nil, err
	}

	return &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: contract,
				FunctionName:    xdr.ScSymbol(function),
				Args:            args,
			},
		},
	}, nil
}

func (s *service) build(source *txnbuild.SimpleAccount, ops []txnbuild.Operation, timeout time.Duration) (*Transaction, error) {
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        source,
		IncrementSequenceNum: true,
		Operations:           ops,
		BaseFee:              s.cfg.BaseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(int64(timeout / time.Second)),
		},
	})
	if err != nil {
		return nil, errors.Wrap(ErrSerializationFailed, "failed to build transaction: "+err.Error())
	}

	return transactionFromBuilt(tx, s.cfg.NetworkPassphrase)
}

func (s *service) simulate(ctx context.Context, ledger Ledger, tx *Transaction) (*protocol.SimulateTransactionResponse, error) {
	b64, err := tx.Base64()
	if err != nil {
		return nil, err
	}

	sim, err := ledger.SimulateTransaction(ctx, protocol.SimulateTransactionRequest{Transaction: b64})
	if err != nil {
		return nil, errors.Wrap(ErrSimulationFailed, err.Error())
	}

	if sim.Error != "" {
		return nil, stageError(ErrSimulationFailed, sim.Error)
	}

	return &sim, nil
}

func (s *service) simulateAndPrepare(ctx context.Context, ledger Ledger, tx *Transaction) (*Transaction, error) {
	sim, err := s.simulate(ctx, ledger, tx)
	if err != nil {
		return nil, err
	}

	return tx.simulated().prepare(sim)
}

func (s *service) sign(ctx context.Context, unsigned string, signer string) (string, error) {
	res, err := s.wallet.SignTransaction(ctx, unsigned,
		wallet.NetworkOptions{
			NetworkPassphrase: s.cfg.NetworkPassphrase,
			AccountToSign:     signer,
		},
		wallet.SignerOptions{
			Address: signer,
			Network: s.cfg.NetworkPassphrase,
		},
	)
	if err != nil {
		if errors.Is(err, ErrWalletUnavailable) || errors.Is(err, ErrUnexpectedWalletResponse) {
			return "", err
		}
		return "", errors.Wrap(ErrSigningFailed, err.Error())
	}

	return res.SignedXDR()
}

func (s *service) TransactionStatus(ctx context.Context, hash string) (*protocol.GetTransactionResponse, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, errors.Wrap(ErrMalformedInput, "transaction hash is required")
	}

	ledger, err := s.ledgers.Ledger(ctx)
	if err != nil {
		return nil, err
	}

	res, err := ledger.GetTransaction(ctx, protocol.GetTransactionRequest{Hash: hash})
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func isAccountAddress(addr string) bool {
	return strings.HasPrefix(addr, "G") && strkey.IsValidEd25519PublicKey(addr)
}
