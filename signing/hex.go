package signing

import "encoding/hex"

// EncodeHex renders b as lowercase hex.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeHex parses a hex string of either case. DecodeHex(EncodeHex(b))
// always returns b.
func DecodeHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
