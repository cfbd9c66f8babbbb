package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

// proofTokenBytes is the entropy of a proof-of-pickup token (128 bits).
const proofTokenBytes = 16

// NewProofToken returns a new cryptographically-random opaque token,
// hex-encoded. Generated once at listing creation and compared exactly on
// completion.
func NewProofToken() string {
	buf := make([]byte, proofTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic("prooftoken: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// TokensEqual compares two tokens in constant time.
func TokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
