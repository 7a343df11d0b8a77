package tokens

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sha256Hex is the at-rest form of a refresh token: the store never
// holds the signed string itself.
func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
