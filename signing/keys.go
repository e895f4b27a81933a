package signing

import (
	"fmt"
)

// PrivateKey is an immutable secret key of a given algorithm.
type PrivateKey interface {
	AlgorithmName() string
	// Hex returns the lowercase hex encoding of the key bytes.
	Hex() string
	// Bytes returns a copy of the key bytes.
	Bytes() []byte
}

// PublicKey is an immutable public key of a given algorithm.
type PublicKey interface {
	AlgorithmName() string
	Hex() string
	Bytes() []byte
}

const (
	Secp256k1PrivateKeySize = 32
	Secp256k1PublicKeySize  = 33
)

type Secp256k1PrivateKey struct {
	key [Secp256k1PrivateKeySize]byte
}

// NewSecp256k1PrivateKey copies b into a private key. The scalar range is
// checked by the context on use, not here.
func NewSecp256k1PrivateKey(b []byte) (*Secp256k1PrivateKey, error) {
	if len(b) != Secp256k1PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPrivateKey, Secp256k1PrivateKeySize, len(b))
	}
	k := &Secp256k1PrivateKey{}
	copy(k.key[:], b)
	return k, nil
}

func Secp256k1PrivateKeyFromHex(s string) (*Secp256k1PrivateKey, error) {
	b, err := DecodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return NewSecp256k1PrivateKey(b)
}

func (k *Secp256k1PrivateKey) AlgorithmName() string { return Secp256k1AlgorithmName }

func (k *Secp256k1PrivateKey) Hex() string { return EncodeHex(k.key[:]) }

func (k *Secp256k1PrivateKey) Bytes() []byte {
	out := make([]byte, len(k.key))
	copy(out, k.key[:])
	return out
}

// String keeps key material out of logs and fmt output.
func (k *Secp256k1PrivateKey) String() string { return "secp256k1 private key (redacted)" }

func (k *Secp256k1PrivateKey) GoString() string { return k.String() }

type Secp256k1PublicKey struct {
	key [Secp256k1PublicKeySize]byte
}

// NewSecp256k1PublicKey copies a compressed point. Whether it lies on the
// curve is checked by the context.
func NewSecp256k1PublicKey(b []byte) (*Secp256k1PublicKey, error) {
	if len(b) != Secp256k1PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPublicKey, Secp256k1PublicKeySize, len(b))
	}
	k := &Secp256k1PublicKey{}
	copy(k.key[:], b)
	return k, nil
}

func Secp256k1PublicKeyFromHex(s string) (*Secp256k1PublicKey, error) {
	b, err := DecodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return NewSecp256k1PublicKey(b)
}

func (k *Secp256k1PublicKey) AlgorithmName() string { return Secp256k1AlgorithmName }

func (k *Secp256k1PublicKey) Hex() string { return EncodeHex(k.key[:]) }

func (k *Secp256k1PublicKey) Bytes() []byte {
	out := make([]byte, len(k.key))
	copy(out, k.key[:])
	return out
}

func (k *Secp256k1PublicKey) String() string { return k.Hex() }
