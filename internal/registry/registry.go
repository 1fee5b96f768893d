// Package registry is an in-memory document registry enforcing the same
// rules as the seal contract. It backs the demo /seal and /verify endpoints;
// the ledger stays the source of truth.
package registry

import (
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/dropbox/godropbox/time2"
)

type Record struct {
	DocHash        string `json:"doc_hash"`
	Signature      string `json:"signature"`
	Signer         string `json:"signer"`
	DocType        string `json:"doc_type"`
	Timestamp      int64  `json:"timestamp"`
	SignerType     int64  `json:"signer_type"`
	VCHash         string `json:"vc_hash"`
	BusinessID     string `json:"business_id"`
	StudentNameB64 string `json:"student_name_b64"`
}

type Metadata struct {
	AllowedSigners []string `json:"allowed_signers"`
	MaxSigners     int64    `json:"max_signers"`
}

type SealRequest struct {
	DocHash        string   `json:"doc_hash"`
	Signature      string   `json:"signature"`
	Signer         string   `json:"signer"`
	DocType        string   `json:"doc_type"`
	SignerType     Number   `json:"signer_type"`
	VCHash         string   `json:"vc_hash"`
	BusinessID     string   `json:"business_id"`
	StudentNameB64 string   `json:"student_name_b64"`
	AllowedSigners []string `json:"allowed_signers"`
	MaxSigners     Number   `json:"max_signers"`
}

type SealResult struct {
	TotalRecords int       `json:"total_records"`
	DocHash      string    `json:"doc_hash"`
	Record       Record    `json:"record"`
	Metadata     *Metadata `json:"metadata"`
}

type Registry struct {
	clock time2.Clock

	mu        sync.RWMutex
	order     []string
	documents map[string][]Record
	metadata  map[string]Metadata
}

func New(clock time2.Clock) *Registry {
	return &Registry{
		clock:     clock,
		documents: map[string][]Record{},
		metadata:  map[string]Metadata{},
	}
}

// Seal validates req against the contract rules and stores the record.
// Rejections are *RuleError.
func (r *Registry) Seal(req SealRequest) (*SealResult, error) {
	docHash := strings.TrimSpace(req.DocHash)
	signature := strings.TrimSpace(req.Signature)
	signer := strings.TrimSpace(req.Signer)
	docType := strings.TrimSpace(req.DocType)
	vcHash := strings.TrimSpace(req.VCHash)
	businessID := strings.TrimSpace(req.BusinessID)
	studentName := strings.TrimSpace(req.StudentNameB64)

	signerType, err := req.SignerType.Int(0)
	if err != nil {
		return nil, badRequest("signer_type must be numeric")
	}

	for _, field := range []struct{ name, value string }{
		{"doc_hash", docHash},
		{"signature", signature},
		{"vc_hash", vcHash},
	} {
		if err := ValidateHash(field.value, field.name); err != nil {
			return nil, err
		}
	}

	if docType == "" || len(docType) > MaxDocTypeLen {
		return nil, badRequest("doc_type empty or length invalid (max %d bytes)", MaxDocTypeLen)
	}

	if len(businessID) > MaxBusinessIDLen {
		return nil, badRequest("business_id length invalid (max %d bytes)", MaxBusinessIDLen)
	}

	if err := ValidateAddress(signer, "signer"); err != nil {
		return nil, err
	}

	if signerType != 0 && signerType != 1 {
		return nil, badRequest("signer_type must be 0 (student) or 1 (business)")
	}

	if studentName != "" && !studentNameOK(studentName) {
		return nil, badRequest("student_name_b64 invalid base64 or too long")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.documents[docHash]
	meta, known := r.metadata[docHash]

	if !known {
		meta, err = firstSealMetadata(req, signer, signerType, studentName)
		if err != nil {
			return nil, err
		}
	} else if studentName != "" {
		return nil, badRequest("student_name_b64 must be empty on subsequent seals")
	}

	if len(existing) >= MaxSealsPerDoc {
		return nil, badRequest("Global seal limit exceeded for this document (%d)", MaxSealsPerDoc)
	}

	if !slices.Contains(meta.AllowedSigners, signer) {
		return nil, &RuleError{Status: http.StatusForbidden, Message: "Signer not in allowed_signers list"}
	}

	if slices.ContainsFunc(existing, func(rec Record) bool { return rec.Signer == signer }) {
		return nil, badRequest("This signer has already sealed")
	}

	if int64(len(existing)) >= meta.MaxSigners {
		return nil, badRequest("Maximum number of signers reached (%d)", meta.MaxSigners)
	}

	record := Record{
		DocHash:        docHash,
		Signature:      signature,
		Signer:         signer,
		DocType:        docType,
		Timestamp:      r.clock.Now().Unix(),
		SignerType:     signerType,
		VCHash:         vcHash,
		BusinessID:     businessID,
		StudentNameB64: studentName,
	}

	if !known {
		r.metadata[docHash] = meta
		r.order = append(r.order, docHash)
	}
	r.documents[docHash] = append(existing, record)

	metaCopy := cloneMetadata(meta)

	return &SealResult{
		TotalRecords: len(r.documents[docHash]),
		DocHash:      docHash,
		Record:       record,
		Metadata:     &metaCopy,
	}, nil
}

func firstSealMetadata(req SealRequest, signer string, signerType int64, studentName string) (Metadata, error) {
	if signerType != 1 {
		return Metadata{}, badRequest("First seal must be business (signer_type=1)")
	}

	if studentName == "" {
		return Metadata{}, badRequest("student_name_b64 required on first seal")
	}

	if len(req.AllowedSigners) == 0 {
		return Metadata{}, badRequest("allowed_signers required and cannot be empty")
	}

	maxSigners, err := req.MaxSigners.Int(0)
	if err != nil {
		return Metadata{}, badRequest("max_signers must be numeric")
	}
	if maxSigners <= 0 {
		return Metadata{}, badRequest("max_signers must be > 0")
	}

	if int64(len(req.AllowedSigners)) > maxSigners {
		return Metadata{}, badRequest("allowed_signers length cannot exceed max_signers")
	}

	allowed := make([]string, 0, len(req.AllowedSigners))
	for _, addr := range req.AllowedSigners {
		addr = strings.TrimSpace(addr)
		if err := ValidateAddress(addr, "allowed_signer"); err != nil {
			return Metadata{}, err
		}
		allowed = append(allowed, addr)
	}

	if !slices.Contains(allowed, signer) {
		return Metadata{}, badRequest("Initial business signer must be in allowed_signers")
	}

	return Metadata{AllowedSigners: allowed, MaxSigners: maxSigners}, nil
}

// Records returns the seals of a document, oldest first.
func (r *Registry) Records(docHash string) []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.documents[strings.TrimSpace(docHash)]
	if records == nil {
		return []Record{}
	}
	return slices.Clone(records)
}

// Metadata returns the signer metadata of a document, nil if unknown.
func (r *Registry) Metadata(docHash string) *Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.metadata[strings.TrimSpace(docHash)]
	if !ok {
		return nil
	}

	c := cloneMetadata(meta)
	return &c
}

// BySigner returns every seal made by signer across all documents.
func (r *Registry) BySigner(signer string) []Record {
	signer = strings.TrimSpace(signer)
	return r.filter(func(rec Record) bool { return rec.Signer == signer })
}

// ByVCHash returns every seal carrying the given credential hash.
func (r *Registry) ByVCHash(vcHash string) []Record {
	vcHash = strings.TrimSpace(vcHash)
	return r.filter(func(rec Record) bool { return rec.VCHash == vcHash })
}

func (r *Registry) filter(match func(Record) bool) []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Record{}
	for _, docHash := range r.order {
		for _, rec := range r.documents[docHash] {
			if match(rec) {
				out = append(out, rec)
			}
		}
	}

	return out
}

func cloneMetadata(m Metadata) Metadata {
	return Metadata{AllowedSigners: slices.Clone(m.AllowedSigners), MaxSigners: m.MaxSigners}
}

// Stats returns the number of documents and seals held.
func (r *Registry) Stats() (documents int, seals int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, records := range r.documents {
		seals += len(records)
	}

	return len(r.order), seals
}
