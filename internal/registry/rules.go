package registry

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Limits enforced by the seal contract.
const (
	MaxSealsPerDoc       = 10
	MinHashLenBytes      = 32
	MaxHashLenBytes      = 128
	MaxDocTypeLen        = 64
	MaxBusinessIDLen     = 64
	MaxStudentNameB64Len = 128
)

var addressPattern = regexp.MustCompile(`^G[A-Z0-9]{55}$`)

// RuleError is a rejected seal. Status is the HTTP status to answer with.
type RuleError struct {
	Status  int
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func badRequest(format string, args ...any) *RuleError {
	return &RuleError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// ValidateHash checks that s is even-length hex of MinHashLenBytes to
// MaxHashLenBytes bytes. name is used in the error message.
func ValidateHash(s string, name string) error {
	if s == "" {
		return badRequest("%s cannot be empty", name)
	}

	if len(s)%2 != 0 {
		return badRequest("%s must be valid hex (even-length)", name)
	}
	if _, err := hex.DecodeString(s); err != nil {
		return badRequest("%s must be valid hex (even-length)", name)
	}

	byteLen := len(s) / 2
	if byteLen < MinHashLenBytes || byteLen > MaxHashLenBytes {
		return badRequest("%s length invalid (byte: %d, expected: %d-%d)", name, byteLen, MinHashLenBytes, MaxHashLenBytes)
	}

	return nil
}

// ValidateAddress checks the shape of a Stellar account address.
func ValidateAddress(addr string, field string) error {
	if !addressPattern.MatchString(addr) {
		return badRequest("%s invalid Stellar address", field)
	}
	return nil
}

func studentNameOK(b64 string) bool {
	decoded, err := base64.StdEncoding.Strict().DecodeString(b64)
	if err != nil {
		return false
	}
	return len(decoded) > 0 && len(decoded) <= MaxStudentNameB64Len
}

// Number accepts a JSON number or a string holding an integer. Fractional
// numbers truncate toward zero; an explicit null is kept so that Int can
// reject it.
type Number struct {
	raw    string
	quoted bool
	null   bool
	set    bool
}

func NewNumber(n int64) Number {
	return Number{raw: strconv.FormatInt(n, 10), set: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = Number{null: true, set: true}
		return nil
	}

	quoted := false
	if unquoted, err := strconv.Unquote(s); err == nil {
		s, quoted = unquoted, true
	}

	*n = Number{raw: strings.TrimSpace(s), quoted: quoted, set: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	switch {
	case !n.set || n.null:
		return []byte("null"), nil
	case n.quoted:
		return []byte(strconv.Quote(n.raw)), nil
	default:
		return []byte(n.raw), nil
	}
}

// Int returns the value, or def when it was never set.
func (n Number) Int(def int64) (int64, error) {
	if !n.set {
		return def, nil
	}
	if n.null {
		return 0, errors.New("null is not a number")
	}

	if v, err := strconv.ParseInt(n.raw, 10, 64); err == nil {
		return v, nil
	}
	if n.quoted {
		return 0, fmt.Errorf("not an integer: %q", n.raw)
	}

	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a number: %q", n.raw)
	}

	f = math.Trunc(f)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("out of range: %q", n.raw)
	}

	return int64(f), nil
}
