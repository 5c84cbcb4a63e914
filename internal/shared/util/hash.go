package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a storage-safe identifier derived from an arbitrary string.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
