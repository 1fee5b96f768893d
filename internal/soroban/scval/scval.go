// Package scval converts application values into Soroban contract-call
// values and back. Every encoder validates its input; malformed values are
// reported with errors wrapping ErrMalformedInput.
package scval

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

var (
	ErrMalformedInput = errors.New("malformed input")

	ErrMalformedHex   = fmt.Errorf("malformed hex: %w", ErrMalformedInput)
	ErrInvalidU32     = fmt.Errorf("invalid u32: %w", ErrMalformedInput)
	ErrInvalidAddress = fmt.Errorf("invalid address: %w", ErrMalformedInput)
	ErrUnsupported    = fmt.Errorf("unsupported value: %w", ErrMalformedInput)
)

// DecodeHex decodes a hex string. Surrounding whitespace and an optional
// 0x/0X prefix are ignored; an empty string decodes to an empty slice.
func DecodeHex(s string) ([]byte, error) {
	clean := strings.TrimSpace(s)
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		clean = clean[2:]
	}

	if clean == "" {
		return []byte{}, nil
	}

	if len(clean)%2 != 0 {
		return nil, errors.Wrapf(ErrMalformedHex, "odd length %d", len(clean))
	}

	raw, err := hex.DecodeString(clean)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedHex, err.Error())
	}

	return raw, nil
}

// HexEncode is the lowercase inverse of DecodeHex.
func HexEncode(raw []byte) string {
	return hex.EncodeToString(raw)
}

// Bytes encodes a hex string as a byte-array value.
func Bytes(hexStr string) (xdr.ScVal, error) {
	raw, err := DecodeHex(hexStr)
	if err != nil {
		return xdr.ScVal{}, err
	}

	return bytesVal(raw), nil
}

// String encodes the UTF-8 bytes of s as a byte-array value.
func String(s string) xdr.ScVal {
	return bytesVal([]byte(s))
}

func bytesVal(raw []byte) xdr.ScVal {
	b := xdr.ScBytes(raw)
	return xdr.ScVal{Type: xdr.ScValTypeScvBytes, Bytes: &b}
}

// U32 encodes n as an unsigned 32-bit value. Values outside [0, 2^32-1] are
// rejected.
func U32(n int64) (xdr.ScVal, error) {
	if n < 0 || n > math.MaxUint32 {
		return xdr.ScVal{}, errors.Wrapf(ErrInvalidU32, "%d out of range", n)
	}

	u := xdr.Uint32(n)
	return xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &u}, nil
}

// Bool encodes b as a boolean value.
func Bool(b bool) xdr.ScVal {
	return xdr.ScVal{Type: xdr.ScValTypeScvBool, B: &b}
}

// Address encodes an account (G...) or contract (C...) strkey.
func Address(addr string) (xdr.ScVal, error) {
	sc, err := ScAddress(addr)
	if err != nil {
		return xdr.ScVal{}, err
	}

	return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &sc}, nil
}

// AddressVec encodes an ordered list of addresses. A nil list encodes as an
// empty vector.
func AddressVec(addrs []string) (xdr.ScVal, error) {
	vec := make(xdr.ScVec, 0, len(addrs))
	for i, addr := range addrs {
		v, err := Address(addr)
		if err != nil {
			return xdr.ScVal{}, errors.WithMessagef(err, "element %d", i)
		}
		vec = append(vec, v)
	}

	ptr := &vec
	return xdr.ScVal{Type: xdr.ScValTypeScvVec, Vec: &ptr}, nil
}

// ScAddress parses an account or contract strkey into its ledger form.
func ScAddress(addr string) (xdr.ScAddress, error) {
	addr = strings.TrimSpace(addr)

	if strkey.IsValidEd25519PublicKey(addr) {
		accountID, err := xdr.AddressToAccountId(addr)
		if err != nil {
			return xdr.ScAddress{}, errors.Wrapf(ErrInvalidAddress, "%q: %v", addr, err)
		}

		return xdr.ScAddress{
			Type:      xdr.ScAddressTypeScAddressTypeAccount,
			AccountId: &accountID,
		}, nil
	}

	if strings.HasPrefix(addr, "C") {
		return ContractAddress(addr)
	}

	return xdr.ScAddress{}, errors.Wrapf(ErrInvalidAddress, "%q", addr)
}

// ContractAddress parses a contract id (C...) into its ledger form.
func ContractAddress(contractID string) (xdr.ScAddress, error) {
	raw, err := strkey.Decode(strkey.VersionByteContract, strings.TrimSpace(contractID))
	if err != nil {
		return xdr.ScAddress{}, errors.Wrapf(ErrInvalidAddress, "contract %q: %v", contractID, err)
	}

	var id xdr.ContractId
	copy(id[:], raw)

	return xdr.ScAddress{
		Type:       xdr.ScAddressTypeScAddressTypeContract,
		ContractId: &id,
	}, nil
}

// AddressString renders a ledger address back into its strkey.
func AddressString(sc xdr.ScAddress) (string, error) {
	switch sc.Type {
	case xdr.ScAddressTypeScAddressTypeAccount:
		if sc.AccountId == nil {
			return "", errors.Wrap(ErrInvalidAddress, "missing account id")
		}
		return sc.AccountId.GetAddress()
	case xdr.ScAddressTypeScAddressTypeContract:
		if sc.ContractId == nil {
			return "", errors.Wrap(ErrInvalidAddress, "missing contract id")
		}
		return strkey.Encode(strkey.VersionByteContract, sc.ContractId[:])
	default:
		return "", errors.Wrapf(ErrUnsupported, "address type %s", sc.Type)
	}
}
