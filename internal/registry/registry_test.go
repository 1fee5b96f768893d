package registry_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/chapool/go-docseal/internal/registry"
	"github.com/dropbox/godropbox/time2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	issuer  = "G" + strings.Repeat("A", 55)
	student = "G" + strings.Repeat("B", 55)
	other   = "G" + strings.Repeat("C", 55)

	docHash = strings.Repeat("ab", 32)
	vcHash  = strings.Repeat("cd", 32)
)

func newRegistry() *registry.Registry {
	return registry.New(time2.NewMockClock(time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)))
}

func firstSeal() registry.SealRequest {
	return registry.SealRequest{
		DocHash:        docHash,
		Signature:      docHash,
		Signer:         issuer,
		DocType:        "diploma",
		SignerType:     registry.NewNumber(1),
		VCHash:         vcHash,
		StudentNameB64: base64.StdEncoding.EncodeToString([]byte("Ayşe Yılmaz")),
		AllowedSigners: []string{issuer, student},
		MaxSigners:     registry.NewNumber(2),
	}
}

func laterSeal(signer string) registry.SealRequest {
	return registry.SealRequest{
		DocHash:    docHash,
		Signature:  docHash,
		Signer:     signer,
		DocType:    "diploma",
		SignerType: registry.NewNumber(0),
		VCHash:     vcHash,
	}
}

func requireRuleError(t *testing.T, err error, status int, msg string) {
	t.Helper()

	var ruleErr *registry.RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, status, ruleErr.Status)
	assert.Equal(t, msg, ruleErr.Message)
}

func TestSealFlow(t *testing.T) {
	r := newRegistry()

	res, err := r.Seal(firstSeal())
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalRecords)
	assert.Equal(t, int64(1759320000), res.Record.Timestamp)
	assert.Equal(t, &registry.Metadata{AllowedSigners: []string{issuer, student}, MaxSigners: 2}, res.Metadata)

	res, err = r.Seal(laterSeal(student))
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalRecords)
	assert.Equal(t, int64(0), res.Record.SignerType)

	records := r.Records(docHash)
	require.Len(t, records, 2)
	assert.Equal(t, issuer, records[0].Signer)
	assert.Equal(t, student, records[1].Signer)

	assert.Len(t, r.BySigner(student), 1)
	assert.Len(t, r.ByVCHash(vcHash), 2)
	assert.Empty(t, r.ByVCHash(docHash))
	assert.NotNil(t, r.Records("unknown"))
	assert.Nil(t, r.Metadata("unknown"))

	documents, seals := r.Stats()
	assert.Equal(t, 1, documents)
	assert.Equal(t, 2, seals)
}

func TestSealRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*registry.SealRequest)
		status int
		msg    string
	}{
		{"empty doc hash", func(r *registry.SealRequest) { r.DocHash = "" }, http.StatusBadRequest, "doc_hash cannot be empty"},
		{"odd hex", func(r *registry.SealRequest) { r.Signature = "abc" }, http.StatusBadRequest, "signature must be valid hex (even-length)"},
		{"non hex", func(r *registry.SealRequest) { r.VCHash = strings.Repeat("zz", 32) }, http.StatusBadRequest, "vc_hash must be valid hex (even-length)"},
		{"short hash", func(r *registry.SealRequest) { r.DocHash = "abcd" }, http.StatusBadRequest, "doc_hash length invalid (byte: 2, expected: 32-128)"},
		{"long doc type", func(r *registry.SealRequest) { r.DocType = strings.Repeat("x", 65) }, http.StatusBadRequest, "doc_type empty or length invalid (max 64 bytes)"},
		{"empty doc type", func(r *registry.SealRequest) { r.DocType = " " }, http.StatusBadRequest, "doc_type empty or length invalid (max 64 bytes)"},
		{"long business id", func(r *registry.SealRequest) { r.BusinessID = strings.Repeat("x", 65) }, http.StatusBadRequest, "business_id length invalid (max 64 bytes)"},
		{"bad signer", func(r *registry.SealRequest) { r.Signer = "GABC" }, http.StatusBadRequest, "signer invalid Stellar address"},
		{"signer type range", func(r *registry.SealRequest) { r.SignerType = registry.NewNumber(2) }, http.StatusBadRequest, "signer_type must be 0 (student) or 1 (business)"},
		{"bad student name", func(r *registry.SealRequest) { r.StudentNameB64 = "!!" }, http.StatusBadRequest, "student_name_b64 invalid base64 or too long"},
		{"first seal by student", func(r *registry.SealRequest) { r.SignerType = registry.NewNumber(0) }, http.StatusBadRequest, "First seal must be business (signer_type=1)"},
		{"first seal without name", func(r *registry.SealRequest) { r.StudentNameB64 = "" }, http.StatusBadRequest, "student_name_b64 required on first seal"},
		{"first seal without signers", func(r *registry.SealRequest) { r.AllowedSigners = nil }, http.StatusBadRequest, "allowed_signers required and cannot be empty"},
		{"zero max signers", func(r *registry.SealRequest) { r.MaxSigners = registry.NewNumber(0) }, http.StatusBadRequest, "max_signers must be > 0"},
		{"too many signers", func(r *registry.SealRequest) { r.MaxSigners = registry.NewNumber(1) }, http.StatusBadRequest, "allowed_signers length cannot exceed max_signers"},
		{"invalid allowed signer", func(r *registry.SealRequest) { r.AllowedSigners = []string{issuer, "nope"} }, http.StatusBadRequest, "allowed_signer invalid Stellar address"},
		{"issuer not listed", func(r *registry.SealRequest) { r.AllowedSigners = []string{student} }, http.StatusBadRequest, "Initial business signer must be in allowed_signers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := firstSeal()
			tt.mutate(&req)

			_, err := newRegistry().Seal(req)
			requireRuleError(t, err, tt.status, tt.msg)
		})
	}
}

func TestSubsequentSealRules(t *testing.T) {
	r := newRegistry()

	_, err := r.Seal(firstSeal())
	require.NoError(t, err)

	withName := laterSeal(student)
	withName.StudentNameB64 = base64.StdEncoding.EncodeToString([]byte("again"))
	_, err = r.Seal(withName)
	requireRuleError(t, err, http.StatusBadRequest, "student_name_b64 must be empty on subsequent seals")

	_, err = r.Seal(laterSeal(other))
	requireRuleError(t, err, http.StatusForbidden, "Signer not in allowed_signers list")

	_, err = r.Seal(laterSeal(issuer))
	requireRuleError(t, err, http.StatusBadRequest, "This signer has already sealed")

	_, err = r.Seal(laterSeal(student))
	require.NoError(t, err)

	// the metadata allows no third signer
	assert.Len(t, r.Records(docHash), 2)
}

func TestSignerOutsideFullList(t *testing.T) {
	r := newRegistry()

	first := firstSeal()
	first.AllowedSigners = []string{issuer, student, other}
	first.MaxSigners = registry.NewNumber(3)
	_, err := r.Seal(first)
	require.NoError(t, err)

	_, err = r.Seal(laterSeal(student))
	require.NoError(t, err)
	_, err = r.Seal(laterSeal(other))
	require.NoError(t, err)

	fourth := "G" + strings.Repeat("D", 55)
	_, err = r.Seal(laterSeal(fourth))
	requireRuleError(t, err, http.StatusForbidden, "Signer not in allowed_signers list")
}

func TestNumberDecoding(t *testing.T) {
	var req registry.SealRequest
	require.NoError(t, json.Unmarshal([]byte(`{"signer_type":"1","max_signers":3.0}`), &req))

	st, err := req.SignerType.Int(0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st)

	ms, err := req.MaxSigners.Int(0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), ms)

	require.NoError(t, json.Unmarshal([]byte(`{"signer_type":"one"}`), &req))
	_, err = newRegistry().Seal(req)
	requireRuleError(t, err, http.StatusBadRequest, "signer_type must be numeric")

	var unset registry.SealRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &unset))
	st, err = unset.SignerType.Int(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), st)
}

func TestNumberFollowsIntConversion(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{`1`, 1, false},
		{`"1"`, 1, false},
		{`" 2 "`, 2, false},
		{`1.5`, 1, false},
		{`1.9`, 1, false},
		{`-1.5`, -1, false},
		{`2e0`, 2, false},
		{`"1.5"`, 0, true},
		{`"one"`, 0, true},
		{`null`, 0, true},
		{`1e300`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n registry.Number
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))

			got, err := n.Int(7)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSealRejectsNullSignerType(t *testing.T) {
	var req registry.SealRequest
	require.NoError(t, json.Unmarshal([]byte(`{"signer_type":null}`), &req))

	_, err := newRegistry().Seal(req)
	requireRuleError(t, err, http.StatusBadRequest, "signer_type must be numeric")
}

func TestSealTruncatesFractionalNumbers(t *testing.T) {
	raw, err := json.Marshal(firstSeal())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	fields["signer_type"] = 1.5
	fields["max_signers"] = 2.7

	raw, err = json.Marshal(fields)
	require.NoError(t, err)

	var req registry.SealRequest
	require.NoError(t, json.Unmarshal(raw, &req))

	res, err := newRegistry().Seal(req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Record.SignerType)
	require.NotNil(t, res.Metadata)
	assert.Equal(t, int64(2), res.Metadata.MaxSigners)
}
