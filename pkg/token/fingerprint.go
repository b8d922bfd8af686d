package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// FingerprintLength is the number of hex digits kept.
const FingerprintLength = 12

// Hash computes the hex SHA-256 of a credential.
func Hash(credential string) string {
	h := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(h[:])
}

// Fingerprint returns "sha256:" and the first FingerprintLength hex digits
// of the credential's hash, or "" for an empty credential.
func Fingerprint(credential string) string {
	if credential == "" {
		return ""
	}
	return "sha256:" + Hash(credential)[:FingerprintLength]
}

// Equal compares two credentials in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
