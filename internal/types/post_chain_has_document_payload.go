package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// PostChainHasDocumentPayload post chain has document payload
//
// swagger:model postChainHasDocumentPayload
type PostChainHasDocumentPayload struct {

	// account used as the simulation source
	// Required: true
	// Pattern: ^G[A-Z2-7]{55}$
	Account *string `json:"account"`

	// hex SHA-256 of the document
	// Required: true
	DocHash *string `json:"doc_hash"`
}

// Validate validates this post chain has document payload
func (m *PostChainHasDocumentPayload) Validate(_ strfmt.Registry) error {
	var res []error

	if err := m.validateAccount(); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("doc_hash", "body", m.DocHash); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *PostChainHasDocumentPayload) validateAccount() error {
	if err := validate.Required("account", "body", m.Account); err != nil {
		return err
	}

	if err := validate.Pattern("account", "body", *m.Account, `^G[A-Z2-7]{55}$`); err != nil {
		return err
	}

	return nil
}

// PostChainHasDocumentResponse post chain has document response
//
// swagger:model postChainHasDocumentResponse
type PostChainHasDocumentResponse struct {

	// null when the ledger could not be asked
	Exists *bool `json:"exists"`

	// ok
	OK bool `json:"ok"`
}

// Validate validates this post chain has document response
func (m *PostChainHasDocumentResponse) Validate(_ strfmt.Registry) error {
	return nil
}
