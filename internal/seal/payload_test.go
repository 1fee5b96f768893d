package seal_test

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/chapool/go-docseal/internal/seal"
	"github.com/chapool/go-docseal/internal/soroban/scval"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", seal.Digest(nil))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", seal.Digest([]byte("hello")))

	h, err := seal.DigestReader(strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, seal.Digest([]byte("hello")), h)

	boom := errors.New("read failed")
	_, err = seal.DigestReader(iotest.ErrReader(boom))
	require.ErrorIs(t, err, boom)
}

func TestDigestText(t *testing.T) {
	assert.Equal(t, seal.Digest([]byte(seal.VCPlaceholder)), seal.DigestText(""))
	assert.Equal(t, "3843b15f49c62d21a0c113deb73a7dc6a1fce5dc6a9ff06580fba1e369a32e2a", seal.DigestText(""))

	// composed and decomposed forms are hashed byte for byte
	assert.Equal(t, seal.Digest([]byte("Ays\u0327e")), seal.DigestText("Ays\u0327e"))
	assert.NotEqual(t, seal.DigestText("Ay\u015fe"), seal.DigestText("Ays\u0327e"))
	assert.Equal(t, seal.Digest([]byte("plain")), seal.DigestText("plain"))
}

func TestNewRequestDefaults(t *testing.T) {
	signer := keypair.MustRandom().Address()

	r := seal.NewRequest(seal.Payload{DocHash: "aa", Signer: signer, VCHash: "bb", MaxSigners: 2})
	assert.Equal(t, "aa", r.Signature)
	assert.Equal(t, seal.DefaultDocType, r.DocType)
	assert.Equal(t, seal.SignerTypeBusiness, r.SignerType)
	assert.Equal(t, []string{}, r.AllowedSigners)

	zero := seal.SignerTypeUser
	r = seal.NewRequest(seal.Payload{DocHash: "aa", Signature: "cc", DocType: "diploma", SignerType: &zero})
	assert.Equal(t, "cc", r.Signature)
	assert.Equal(t, "diploma", r.DocType)
	assert.Equal(t, seal.SignerTypeUser, r.SignerType)
}

func TestRequestArgsOrder(t *testing.T) {
	signer := keypair.MustRandom().Address()
	other := keypair.MustRandom().Address()

	args, err := seal.NewRequest(seal.Payload{
		DocHash:        "0x" + strings.Repeat("ab", 32),
		Signer:         signer,
		DocType:        "diploma",
		VCHash:         strings.Repeat("cd", 32),
		BusinessID:     "B-1",
		StudentNameB64: "QXnFn2U=",
		AllowedSigners: []string{signer, other},
		MaxSigners:     2,
	}).Args()
	require.NoError(t, err)
	require.Len(t, args, len(seal.ArgNames))

	wantTypes := []xdr.ScValType{
		xdr.ScValTypeScvBytes,
		xdr.ScValTypeScvBytes,
		xdr.ScValTypeScvAddress,
		xdr.ScValTypeScvBytes,
		xdr.ScValTypeScvU32,
		xdr.ScValTypeScvBytes,
		xdr.ScValTypeScvBytes,
		xdr.ScValTypeScvBytes,
		xdr.ScValTypeScvVec,
		xdr.ScValTypeScvU32,
	}
	for i, want := range wantTypes {
		assert.Equal(t, want, args[i].Type, seal.ArgNames[i])
	}

	native := make([]any, len(args))
	for i, arg := range args {
		native[i], err = scval.ToNative(arg)
		require.NoError(t, err)
	}

	assert.Len(t, native[0], 32)
	assert.Equal(t, native[0], native[1])
	assert.Equal(t, signer, native[2])
	assert.Equal(t, []byte("diploma"), native[3])
	assert.Equal(t, uint32(1), native[4])
	assert.Equal(t, []byte("B-1"), native[6])
	assert.Equal(t, []any{signer, other}, native[8])
	assert.Equal(t, uint32(2), native[9])
}

func TestRequestArgsErrors(t *testing.T) {
	signer := keypair.MustRandom().Address()

	_, err := seal.NewRequest(seal.Payload{DocHash: "abc", Signer: signer}).Args()
	require.ErrorIs(t, err, scval.ErrMalformedHex)
	require.ErrorIs(t, err, seal.ErrMalformedInput)
	assert.Contains(t, err.Error(), "doc_hash")

	_, err = seal.NewRequest(seal.Payload{DocHash: "ab", Signer: "nope"}).Args()
	require.ErrorIs(t, err, scval.ErrInvalidAddress)
	assert.Contains(t, err.Error(), "signer")

	_, err = seal.NewRequest(seal.Payload{DocHash: "ab", Signer: signer, MaxSigners: -1}).Args()
	require.ErrorIs(t, err, scval.ErrInvalidU32)
	assert.Contains(t, err.Error(), "max_signers")
}

func TestEnsureSigner(t *testing.T) {
	signer := keypair.MustRandom().Address()

	p := seal.Payload{Signer: signer}
	assert.True(t, p.EnsureSigner())
	assert.False(t, p.EnsureSigner())
	assert.Equal(t, []string{signer}, p.AllowedSigners)
}

func TestNewPayloadFirstSeal(t *testing.T) {
	signer := keypair.MustRandom().Address()
	student := keypair.MustRandom().Address()

	p, err := seal.NewPayload(seal.Form{
		Document:       strings.NewReader("diploma"),
		Signer:         signer,
		DocType:        "diploma",
		VCText:         `{"name":"x"}`,
		StudentName:    "Ayşe",
		AllowedSigners: "\n " + student + " \n\n",
		MaxSigners:     2,
		SignerType:     seal.SignerTypeUser,
		FirstSeal:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, seal.Digest([]byte("diploma")), p.DocHash)
	assert.Equal(t, p.DocHash, p.Signature)
	assert.Equal(t, seal.DigestText(`{"name":"x"}`), p.VCHash)
	assert.Equal(t, []string{student, signer}, p.AllowedSigners)
	require.NotNil(t, p.SignerType)
	assert.Equal(t, seal.SignerTypeBusiness, *p.SignerType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("Ayşe")), p.StudentNameB64)
}

func TestNewPayloadLaterSeal(t *testing.T) {
	signer := keypair.MustRandom().Address()

	p, err := seal.NewPayload(seal.Form{
		Document:   strings.NewReader("diploma"),
		Signer:     signer,
		SignerType: seal.SignerTypeUser,
	})
	require.NoError(t, err)

	require.NotNil(t, p.SignerType)
	assert.Equal(t, seal.SignerTypeUser, *p.SignerType)
	assert.Empty(t, p.StudentNameB64)
	assert.Equal(t, seal.DigestText(""), p.VCHash)
}

func TestNewPayloadErrors(t *testing.T) {
	signer := keypair.MustRandom().Address()
	student := keypair.MustRandom().Address()

	tests := []struct {
		name string
		form seal.Form
		want error
	}{
		{"no document", seal.Form{Signer: signer}, seal.ErrInvalidForm},
		{"no signer", seal.Form{Document: strings.NewReader("x")}, seal.ErrWalletUnavailable},
		{"bad address", seal.Form{Document: strings.NewReader("x"), Signer: signer, AllowedSigners: "GABC"}, seal.ErrInvalidForm},
		{"first seal without name", seal.Form{Document: strings.NewReader("x"), Signer: signer, MaxSigners: 2, FirstSeal: true}, seal.ErrInvalidForm},
		{"first seal over limit", seal.Form{
			Document:       strings.NewReader("x"),
			Signer:         signer,
			StudentName:    "n",
			AllowedSigners: student,
			MaxSigners:     1,
			FirstSeal:      true,
		}, seal.ErrInvalidForm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seal.NewPayload(tt.form)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseSigners(t *testing.T) {
	assert.Equal(t, []string{}, seal.ParseSigners(""))
	assert.Equal(t, []string{"a", "b"}, seal.ParseSigners(" a \r\n\nb\n"))
}
