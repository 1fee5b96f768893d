package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// PostHashResponse post hash response
//
// swagger:model postHashResponse
type PostHashResponse struct {

	// hex SHA-256 of the uploaded file
	// Required: true
	DocHash *string `json:"doc_hash"`

	// detected mime type
	// Required: true
	MimeType *string `json:"mime_type"`

	// ok
	OK bool `json:"ok"`

	// size in bytes
	// Required: true
	Size *int64 `json:"size"`
}

// Validate validates this post hash response
func (m *PostHashResponse) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("doc_hash", "body", m.DocHash); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("mime_type", "body", m.MimeType); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("size", "body", m.Size); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}
