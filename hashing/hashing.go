// Package hashing holds the two digests used when building transactions:
// SHA-256 for signing and SHA-512 for payload digests and state addresses.
package hashing

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
)

// Sha256 returns the 32-byte digest that signatures are computed over.
func Sha256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// Sha512Hex returns the lowercase hex SHA-512 digest of the UTF-8 bytes of s.
func Sha512Hex(s string) string {
	return Sha512HexBytes([]byte(s))
}

func Sha512HexBytes(data []byte) string {
	sum := sha512.Sum512(data)
	return hex.EncodeToString(sum[:])
}
