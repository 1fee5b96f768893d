package types

import (
	"strconv"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// PublicHTTPError public HTTP error body
//
// swagger:model publicHttpError
type PublicHTTPError struct {

	// always false
	// Required: true
	OK bool `json:"ok"`

	// human readable error message
	// Required: true
	Error *string `json:"error"`

	// machine readable error type
	Type PublicHTTPErrorType `json:"type,omitempty"`

	// list of errors received while validating payload against schema
	ValidationErrors []*HTTPValidationErrorDetail `json:"validation_errors,omitempty"`
}

// Validate validates this public HTTP error
func (m *PublicHTTPError) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("error", "body", m.Error); err != nil {
		res = append(res, err)
	}

	for i, detail := range m.ValidationErrors {
		if detail == nil {
			continue
		}
		if err := detail.Validate(formats); err != nil {
			if ve, ok := err.(*errors.Validation); ok { //nolint:errorlint
				return ve.ValidateName("validation_errors." + strconv.Itoa(i))
			}
			return err
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// PublicHTTPErrorType public HTTP error type
//
// swagger:model publicHttpErrorType
type PublicHTTPErrorType string

const (
	PublicHTTPErrorTypeGeneric           PublicHTTPErrorType = "generic"
	PublicHTTPErrorTypeZEROFILESIZE      PublicHTTPErrorType = "ZERO_FILE_SIZE"
	PublicHTTPErrorTypeINVALIDMODE       PublicHTTPErrorType = "INVALID_MODE"
	PublicHTTPErrorTypeFORBIDDENSIGNER   PublicHTTPErrorType = "FORBIDDEN_SIGNER"
	PublicHTTPErrorTypeNOTFOUND          PublicHTTPErrorType = "NOT_FOUND"
	PublicHTTPErrorTypeRATELIMITED       PublicHTTPErrorType = "RATE_LIMITED"
	PublicHTTPErrorTypeWALLETUNAVAILABLE PublicHTTPErrorType = "WALLET_UNAVAILABLE"
	PublicHTTPErrorTypeLEDGERUNAVAILABLE PublicHTTPErrorType = "LEDGER_UNAVAILABLE"
	PublicHTTPErrorTypeSEALFAILED        PublicHTTPErrorType = "SEAL_FAILED"
)

// HTTPValidationErrorDetail HTTP validation error detail
//
// swagger:model httpValidationErrorDetail
type HTTPValidationErrorDetail struct {

	// Error describing field validation failure
	// Required: true
	Error *string `json:"error"`

	// Indicates how the invalid field was provided
	// Required: true
	In *string `json:"in"`

	// Key of field failing validation
	// Required: true
	Key *string `json:"key"`
}

// Validate validates this HTTP validation error detail
func (m *HTTPValidationErrorDetail) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("error", "body", m.Error); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("in", "body", m.In); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("key", "body", m.Key); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}
