package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// PostChainSealPayload post chain seal payload
//
// swagger:model postChainSealPayload
type PostChainSealPayload struct {

	// allowed signers, only used by the first seal of a document
	AllowedSigners []string `json:"allowed_signers"`

	// business id
	BusinessID string `json:"business_id,omitempty"`

	// hex SHA-256 of the document
	// Required: true
	DocHash *string `json:"doc_hash"`

	// doc type
	DocType string `json:"doc_type,omitempty"`

	// max signers
	// Required: true
	// Minimum: 0
	// Maximum: 4294967295
	MaxSigners *int64 `json:"max_signers"`

	// signature, defaults to doc_hash
	Signature string `json:"signature,omitempty"`

	// account submitting the seal
	// Required: true
	// Pattern: ^G[A-Z2-7]{55}$
	Signer *string `json:"signer"`

	// signer type, 0 user or 1 business
	// Enum: [0 1]
	SignerType *int64 `json:"signer_type,omitempty"`

	// student name b64
	StudentNameB64 string `json:"student_name_b64,omitempty"`

	// hex SHA-256 of the verifiable credential
	// Required: true
	VCHash *string `json:"vc_hash"`
}

// Validate validates this post chain seal payload
func (m *PostChainSealPayload) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("doc_hash", "body", m.DocHash); err != nil {
		res = append(res, err)
	}

	if err := m.validateMaxSigners(); err != nil {
		res = append(res, err)
	}

	if err := m.validateSigner(); err != nil {
		res = append(res, err)
	}

	if err := m.validateSignerType(); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("vc_hash", "body", m.VCHash); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *PostChainSealPayload) validateMaxSigners() error {
	if err := validate.Required("max_signers", "body", m.MaxSigners); err != nil {
		return err
	}

	if err := validate.MinimumInt("max_signers", "body", *m.MaxSigners, 0, false); err != nil {
		return err
	}

	if err := validate.MaximumInt("max_signers", "body", *m.MaxSigners, 4294967295, false); err != nil {
		return err
	}

	return nil
}

func (m *PostChainSealPayload) validateSigner() error {
	if err := validate.Required("signer", "body", m.Signer); err != nil {
		return err
	}

	if err := validate.Pattern("signer", "body", *m.Signer, `^G[A-Z2-7]{55}$`); err != nil {
		return err
	}

	return nil
}

var postChainSealPayloadTypeSignerTypePropEnum = []interface{}{int64(0), int64(1)}

func (m *PostChainSealPayload) validateSignerType() error {
	if m.SignerType == nil {
		return nil
	}

	if err := validate.EnumCase("signer_type", "body", *m.SignerType, postChainSealPayloadTypeSignerTypePropEnum, true); err != nil {
		return err
	}

	return nil
}

// PostChainSealResponse post chain seal response
//
// swagger:model postChainSealResponse
type PostChainSealResponse struct {

	// transaction hash
	// Required: true
	Hash *string `json:"hash"`

	// ledger the transaction was included in
	Ledger uint32 `json:"ledger,omitempty"`

	// ok
	OK bool `json:"ok"`

	// number of status polls until confirmation
	Polls int64 `json:"polls"`

	// final transaction status
	// Required: true
	Status *string `json:"status"`
}

// Validate validates this post chain seal response
func (m *PostChainSealResponse) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("hash", "body", m.Hash); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("status", "body", m.Status); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}
