package wallet

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Fields accepted as the signed envelope in an object response, in the
// order they are tried.
var SignedXDRFields = []string{"signedTxXdr", "signedXdr", "xdr", "transaction"}

// Fields accepted as the granted address in an access response.
var AddressFields = []string{"address", "publicKey"}

// Response is a raw wallet reply. Wallets disagree on its shape: some answer
// with a bare string, others with an object carrying the value under one of
// several field names.
type Response json.RawMessage

// StringResponse wraps a bare string reply.
func StringResponse(s string) Response {
	raw, _ := json.Marshal(s)
	return Response(raw)
}

// ObjectResponse wraps an object reply.
func ObjectResponse(fields map[string]string) Response {
	raw, _ := json.Marshal(fields)
	return Response(raw)
}

// SignedXDR extracts the signed base64 envelope.
func (r Response) SignedXDR() (string, error) {
	if s, ok := r.pick(SignedXDRFields); ok {
		return s, nil
	}
	return "", errors.Wrap(ErrUnexpectedResponse, r.describe())
}

// Address extracts the account address granted by an access request.
func (r Response) Address() (string, error) {
	if s, ok := r.pick(AddressFields); ok {
		return s, nil
	}
	return "", errors.Wrap(ErrUnexpectedResponse, r.describe())
}

func (r Response) pick(fields []string) (string, bool) {
	raw := bytes.TrimSpace(r)
	if len(raw) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}

	for _, field := range fields {
		v, ok := obj[field]
		if !ok {
			continue
		}

		if err := json.Unmarshal(v, &s); err == nil && s != "" {
			return s, true
		}
	}

	return "", false
}

func (r Response) describe() string {
	const maxLen = 256

	raw := bytes.TrimSpace(r)
	if len(raw) == 0 {
		return "empty response"
	}
	if len(raw) > maxLen {
		return string(raw[:maxLen]) + "..."
	}
	return string(raw)
}
