package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex-encoded SHA-256 of the input string. Used for
// storing refresh tokens without keeping the raw token server-side.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

func Verify(token, hash string) bool {
	return Hash(token) == hash
}
