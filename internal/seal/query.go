package seal

import (
	"context"
	"encoding/hex"

	"github.com/chapool/go-docseal/internal/soroban/scval"
	"github.com/chapool/go-docseal/internal/util"
	"github.com/pkg/errors"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

// OnChainRecord is a DocumentRecord as stored by the contract. Byte fields
// holding hashes are hex encoded, the others are read as UTF-8.
type OnChainRecord struct {
	DocHash        string `json:"doc_hash"`
	Signature      string `json:"signature"`
	Signer         string `json:"signer"`
	DocType        string `json:"doc_type"`
	Timestamp      uint64 `json:"timestamp"`
	SignerType     uint32 `json:"signer_type"`
	VCHash         string `json:"vc_hash"`
	BusinessID     string `json:"business_id"`
	StudentNameB64 string `json:"student_name_b64"`
}

type OnChainMetadata struct {
	AllowedSigners []string `json:"allowed_signers"`
	MaxSigners     uint32   `json:"max_signers"`
}

var errNoReturnValue = errors.New("simulation returned no value")

func (s *service) HasDocument(ctx context.Context, docHash string, account string) *bool {
	native, err := s.query(ctx, FunctionHasDocument, docHash, account)
	if err != nil {
		return nil
	}

	exists, ok := native.(bool)
	if !ok {
		s.queryFailed(ctx, FunctionHasDocument, errors.Errorf("unexpected return type %T", native))
		return nil
	}

	return &exists
}

func (s *service) CountDocuments(ctx context.Context, docHash string, account string) (uint32, bool) {
	native, err := s.query(ctx, FunctionCountDocuments, docHash, account)
	if err != nil {
		return 0, false
	}

	count, ok := native.(uint32)
	if !ok {
		s.queryFailed(ctx, FunctionCountDocuments, errors.Errorf("unexpected return type %T", native))
		return 0, false
	}

	return count, true
}

func (s *service) GetDocuments(ctx context.Context, docHash string, account string) ([]OnChainRecord, bool) {
	native, err := s.query(ctx, FunctionGetDocuments, docHash, account)
	if err != nil {
		return nil, false
	}

	list, ok := native.([]any)
	if !ok {
		s.queryFailed(ctx, FunctionGetDocuments, errors.Errorf("unexpected return type %T", native))
		return nil, false
	}

	records := make([]OnChainRecord, 0, len(list))
	for _, item := range list {
		fields, ok := item.(map[string]any)
		if !ok {
			s.queryFailed(ctx, FunctionGetDocuments, errors.Errorf("unexpected record type %T", item))
			return nil, false
		}
		records = append(records, recordFromNative(fields))
	}

	return records, true
}

// GetMetadata returns nil and true when the document has no metadata yet.
func (s *service) GetMetadata(ctx context.Context, docHash string, account string) (*OnChainMetadata, bool) {
	native, err := s.query(ctx, FunctionGetMetadata, docHash, account)
	if err != nil {
		return nil, false
	}

	if native == nil {
		return nil, true
	}

	fields, ok := native.(map[string]any)
	if !ok {
		s.queryFailed(ctx, FunctionGetMetadata, errors.Errorf("unexpected return type %T", native))
		return nil, false
	}

	meta := &OnChainMetadata{AllowedSigners: []string{}}
	if signers, ok := fields["allowed_signers"].([]any); ok {
		for _, signer := range signers {
			if addr, ok := signer.(string); ok {
				meta.AllowedSigners = append(meta.AllowedSigners, addr)
			}
		}
	}
	meta.MaxSigners, _ = fields["max_signers"].(uint32)

	return meta, true
}

// query simulates a read-only call taking the document hash and decodes its
// return value. Every failure is logged at debug level and returned.
func (s *service) query(ctx context.Context, function string, docHash string, account string) (any, error) {
	native, err := s.simulateQuery(ctx, function, docHash, account)
	if err != nil {
		s.queryFailed(ctx, function, err)
		return nil, err
	}
	return native, nil
}

func (s *service) simulateQuery(ctx context.Context, function string, docHash string, account string) (any, error) {
	arg, err := scval.Bytes(docHash)
	if err != nil {
		return nil, err
	}

	ledger, err := s.ledgers.Ledger(ctx)
	if err != nil {
		return nil, err
	}

	source, err := ledger.GetAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	op, err := s.invoke(function, []xdr.ScVal{arg})
	if err != nil {
		return nil, err
	}

	tx, err := s.build(source, []txnbuild.Operation{op}, s.cfg.QueryTimeout)
	if err != nil {
		return nil, err
	}

	sim, err := s.simulate(ctx, ledger, tx)
	if err != nil {
		return nil, err
	}

	if len(sim.Results) == 0 || sim.Results[0].ReturnValueXDR == nil || *sim.Results[0].ReturnValueXDR == "" {
		return nil, errNoReturnValue
	}

	var retval xdr.ScVal
	if err := xdr.SafeUnmarshalBase64(*sim.Results[0].ReturnValueXDR, &retval); err != nil {
		return nil, errors.Wrap(err, "failed to decode return value")
	}

	return scval.ToNative(retval)
}

func (s *service) queryFailed(ctx context.Context, function string, err error) {
	util.LogFromContext(ctx).Debug().Err(err).Str("function", function).Msg("Read-only contract query failed")
}

func recordFromNative(fields map[string]any) OnChainRecord {
	r := OnChainRecord{
		DocHash:        hexField(fields, "doc_hash"),
		Signature:      hexField(fields, "signature"),
		DocType:        textField(fields, "doc_type"),
		VCHash:         hexField(fields, "vc_hash"),
		BusinessID:     textField(fields, "business_id"),
		StudentNameB64: textField(fields, "student_name_b64"),
	}

	r.Signer, _ = fields["signer"].(string)
	r.Timestamp, _ = fields["timestamp"].(uint64)
	r.SignerType, _ = fields["signer_type"].(uint32)

	return r
}

func hexField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case []byte:
		return hex.EncodeToString(v)
	case string:
		return v
	default:
		return ""
	}
}

func textField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return ""
	}
}
