package seal

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// VCPlaceholder is hashed in place of an empty credential body.
const VCPlaceholder = "vc-placeholder"

// Digest returns the lowercase hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DigestReader hashes everything read from r. Read errors are returned
// unchanged.
func DigestReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestText hashes the UTF-8 bytes of a credential body as given. Empty
// text hashes VCPlaceholder.
func DigestText(text string) string {
	if text == "" {
		text = VCPlaceholder
	}
	return Digest([]byte(text))
}
