package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"strings"
)

const (
	saltLen = 64 // keyed-hash secret length in bytes
	hashLen = 32 // SHA-256 digest length in bytes
)

// HashPassword derives a fresh 64-byte random salt and the 32-byte
// keyed hash of the plaintext under that salt. A blank password (empty
// or whitespace only) yields nil salt and hash; callers treat that pair
// as "no password set" rather than an error.
func HashPassword(plain string) (salt, hash []byte) {
	if strings.TrimSpace(plain) == "" {
		return nil, nil
	}
	salt = make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil
	}
	mac := hmac.New(sha256.New, salt)
	mac.Write([]byte(plain))
	return salt, mac.Sum(nil)
}

// VerifyPassword recomputes the keyed hash of plain under salt and
// compares it byte-for-byte against hash. Blank passwords and salt or
// hash of the wrong length always fail instead of erroring: mismatched
// shapes are treated as bad credentials.
func VerifyPassword(plain string, salt, hash []byte) bool {
	if strings.TrimSpace(plain) == "" || len(salt) != saltLen || len(hash) != hashLen {
		return false
	}
	mac := hmac.New(sha256.New, salt)
	mac.Write([]byte(plain))
	computed := mac.Sum(nil)
	for i := range computed {
		if computed[i] != hash[i] {
			return false
		}
	}
	return true
}
