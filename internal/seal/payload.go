package seal

import (
	"encoding/base64"
	"io"
	"slices"
	"strings"

	"github.com/chapool/go-docseal/internal/soroban/scval"
	"github.com/pkg/errors"
	"github.com/stellar/go/xdr"
)

const (
	DefaultDocType = "document"

	SignerTypeUser     int64 = 0
	SignerTypeBusiness int64 = 1
)

// Payload describes one seal. Hash fields are hex strings; AllowedSigners and
// MaxSigners only matter for the first seal of a document.
type Payload struct {
	DocHash        string   `json:"doc_hash"`
	Signature      string   `json:"signature,omitempty"`
	Signer         string   `json:"signer"`
	DocType        string   `json:"doc_type,omitempty"`
	SignerType     *int64   `json:"signer_type,omitempty"`
	VCHash         string   `json:"vc_hash"`
	BusinessID     string   `json:"business_id,omitempty"`
	StudentNameB64 string   `json:"student_name_b64,omitempty"`
	AllowedSigners []string `json:"allowed_signers,omitempty"`
	MaxSigners     int64    `json:"max_signers"`
}

// EnsureSigner appends Signer to AllowedSigners unless it is already listed.
// It reports whether the list changed.
func (p *Payload) EnsureSigner() bool {
	if p.Signer == "" || slices.Contains(p.AllowedSigners, p.Signer) {
		return false
	}

	p.AllowedSigners = append(p.AllowedSigners, p.Signer)
	return true
}

// CheckSignerLimit rejects payloads listing more allowed signers than
// MaxSigners permits.
func (p *Payload) CheckSignerLimit() error {
	if int64(len(p.AllowedSigners)) > p.MaxSigners {
		return errors.Wrapf(ErrMalformedInput, "max_signers (%d) cannot be less than allowed signers (%d)",
			p.MaxSigners, len(p.AllowedSigners))
	}
	return nil
}

// Request is the argument list of the contract's seal_document call.
type Request struct {
	DocHash        string
	Signature      string
	Signer         string
	DocType        string
	SignerType     int64
	VCHash         string
	BusinessID     string
	StudentNameB64 string
	AllowedSigners []string
	MaxSigners     int64
}

// NewRequest applies the argument defaults: the signature falls back to the
// document hash, the type to "document" and the signer type to business.
func NewRequest(p Payload) Request {
	r := Request{
		DocHash:        p.DocHash,
		Signature:      p.Signature,
		Signer:         p.Signer,
		DocType:        p.DocType,
		SignerType:     SignerTypeBusiness,
		VCHash:         p.VCHash,
		BusinessID:     p.BusinessID,
		StudentNameB64: p.StudentNameB64,
		AllowedSigners: p.AllowedSigners,
		MaxSigners:     p.MaxSigners,
	}

	if r.Signature == "" {
		r.Signature = r.DocHash
	}
	if r.DocType == "" {
		r.DocType = DefaultDocType
	}
	if p.SignerType != nil {
		r.SignerType = *p.SignerType
	}
	if r.AllowedSigners == nil {
		r.AllowedSigners = []string{}
	}

	return r
}

// ArgNames lists the seal_document parameters in call order.
var ArgNames = []string{
	"doc_hash",
	"signature",
	"signer",
	"doc_type",
	"signer_type",
	"vc_hash",
	"business_id",
	"student_name_b64",
	"allowed_signers",
	"max_signers",
}

// Args encodes the request in ArgNames order.
func (r Request) Args() ([]xdr.ScVal, error) {
	encoders := []func() (xdr.ScVal, error){
		func() (xdr.ScVal, error) { return scval.Bytes(r.DocHash) },
		func() (xdr.ScVal, error) { return scval.Bytes(r.Signature) },
		func() (xdr.ScVal, error) { return scval.Address(r.Signer) },
		func() (xdr.ScVal, error) { return scval.String(r.DocType), nil },
		func() (xdr.ScVal, error) { return scval.U32(r.SignerType) },
		func() (xdr.ScVal, error) { return scval.Bytes(r.VCHash) },
		func() (xdr.ScVal, error) { return scval.String(r.BusinessID), nil },
		func() (xdr.ScVal, error) { return scval.String(r.StudentNameB64), nil },
		func() (xdr.ScVal, error) { return scval.AddressVec(r.AllowedSigners) },
		func() (xdr.ScVal, error) { return scval.U32(r.MaxSigners) },
	}

	args := make([]xdr.ScVal, 0, len(encoders))
	for i, encode := range encoders {
		v, err := encode()
		if err != nil {
			return nil, errors.WithMessage(err, ArgNames[i])
		}
		args = append(args, v)
	}

	return args, nil
}

// Form is the raw input of a seal as entered by a user.
type Form struct {
	Document       io.Reader
	Signer         string
	DocType        string
	VCText         string
	BusinessID     string
	StudentName    string
	AllowedSigners string // one address per line
	MaxSigners     int64
	SignerType     int64
	FirstSeal      bool
}

var ErrInvalidForm = errors.New("invalid seal form")

// NewPayload turns a form into a payload: it hashes the document and the
// credential text, parses and checks the allowed signers, adds the signer
// to them and applies the first-seal rules (student name and signer limit
// required, business signer type forced).
func NewPayload(form Form) (*Payload, error) {
	if form.Document == nil {
		return nil, errors.Wrap(ErrInvalidForm, "document is required")
	}
	if form.Signer == "" {
		return nil, errors.Wrap(ErrWalletUnavailable, "no signer address")
	}

	allowed := ParseSigners(form.AllowedSigners)
	for _, addr := range allowed {
		if !strings.HasPrefix(addr, "G") || len(addr) != 56 {
			return nil, errors.Wrapf(ErrInvalidForm, "invalid Stellar address: %s", addr)
		}
	}

	docHash, err := DigestReader(form.Document)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash document")
	}

	p := &Payload{
		DocHash:        docHash,
		Signature:      docHash,
		Signer:         form.Signer,
		DocType:        form.DocType,
		VCHash:         DigestText(form.VCText),
		BusinessID:     form.BusinessID,
		AllowedSigners: allowed,
		MaxSigners:     form.MaxSigners,
	}
	p.EnsureSigner()

	signerType := form.SignerType
	if form.FirstSeal {
		if form.StudentName == "" {
			return nil, errors.Wrap(ErrInvalidForm, "student name is required for the first seal")
		}
		if form.MaxSigners <= 0 || form.MaxSigners < int64(len(p.AllowedSigners)) {
			return nil, errors.Wrapf(ErrInvalidForm, "max signers (%d) cannot be less than allowed signers (%d)",
				form.MaxSigners, len(p.AllowedSigners))
		}

		signerType = SignerTypeBusiness
		p.StudentNameB64 = base64.StdEncoding.EncodeToString([]byte(form.StudentName))
	}
	p.SignerType = &signerType

	return p, nil
}

// ParseSigners splits a newline separated list of addresses, dropping blank
// lines.
func ParseSigners(raw string) []string {
	out := []string{}
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
