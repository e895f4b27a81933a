package signing

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/mezonai/xoledger/hashing"
)

const (
	Secp256k1AlgorithmName = "secp256k1"

	// compact r||s encoding
	secp256k1SignatureSize = 64

	maxKeyGenerationAttempts = 128
)

// Secp256k1Context signs the SHA-256 digest of the data with deterministic
// (RFC 6979) ECDSA over secp256k1 and renders signatures as 64-byte compact
// r||s hex with a low S value.
type Secp256k1Context struct {
	rand io.Reader
}

func NewSecp256k1Context() *Secp256k1Context {
	return &Secp256k1Context{rand: rand.Reader}
}

// NewSecp256k1ContextWithRand uses r as the entropy source for key generation.
func NewSecp256k1ContextWithRand(r io.Reader) *Secp256k1Context {
	return &Secp256k1Context{rand: r}
}

func (c *Secp256k1Context) AlgorithmName() string {
	return Secp256k1AlgorithmName
}

func (c *Secp256k1Context) Sign(data []byte, privateKey PrivateKey) (string, error) {
	priv, err := toSecp256k1PrivateKey(privateKey)
	if err != nil {
		return "", err
	}
	defer priv.Zero()

	sig := ecdsa.Sign(priv, hashing.Sha256(data))

	r, s := sig.R(), sig.S()
	defer r.Zero()
	defer s.Zero()
	if r.IsZero() || s.IsZero() || s.IsOverHalfOrder() {
		return "", fmt.Errorf("%w: signature is not in canonical compact form", ErrInvalidSignature)
	}

	var compact [secp256k1SignatureSize]byte
	r.PutBytesUnchecked(compact[:32])
	s.PutBytesUnchecked(compact[32:])
	return EncodeHex(compact[:]), nil
}

func (c *Secp256k1Context) Verify(signature string, data []byte, publicKey PublicKey) (bool, error) {
	sig, highS, err := parseCompactSignature(signature)
	if err != nil {
		return false, err
	}

	pub, err := toSecp256k1PublicKey(publicKey)
	if err != nil {
		return false, err
	}

	// only the canonical low-S form is accepted
	if highS {
		return false, nil
	}
	return sig.Verify(hashing.Sha256(data), pub), nil
}

func (c *Secp256k1Context) GetPublicKey(privateKey PrivateKey) (PublicKey, error) {
	priv, err := toSecp256k1PrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	defer priv.Zero()

	return NewSecp256k1PublicKey(priv.PubKey().SerializeCompressed())
}

// NewRandomPrivateKey retries until the drawn bytes form a scalar in
// [1, n-1]. A random 32-byte value is out of range with probability below
// 2^-127, so running out of attempts means the entropy source is broken.
func (c *Secp256k1Context) NewRandomPrivateKey() PrivateKey {
	var buf [Secp256k1PrivateKeySize]byte
	defer clear(buf[:])

	for attempt := 0; attempt < maxKeyGenerationAttempts; attempt++ {
		if _, err := io.ReadFull(c.rand, buf[:]); err != nil {
			panic(fmt.Sprintf("secp256k1: reading random bytes: %v", err))
		}
		if validSecp256k1Scalar(&buf) {
			key := &Secp256k1PrivateKey{}
			key.key = buf
			return key
		}
	}
	panic("secp256k1: no valid private key after maximum attempts")
}

func validSecp256k1Scalar(b *[32]byte) bool {
	var s secp256k1.ModNScalar
	defer s.Zero()
	overflow := s.SetBytes(b)
	return overflow == 0 && !s.IsZero()
}

// toSecp256k1PrivateKey returns a fresh native key; callers must Zero it.
func toSecp256k1PrivateKey(privateKey PrivateKey) (*secp256k1.PrivateKey, error) {
	if privateKey == nil || privateKey.AlgorithmName() != Secp256k1AlgorithmName {
		return nil, fmt.Errorf("%w: not a %s key", ErrInvalidPrivateKey, Secp256k1AlgorithmName)
	}
	raw := privateKey.Bytes()
	defer clear(raw)
	if len(raw) != Secp256k1PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPrivateKey, Secp256k1PrivateKeySize, len(raw))
	}

	var buf [Secp256k1PrivateKeySize]byte
	defer clear(buf[:])
	copy(buf[:], raw)

	var scalar secp256k1.ModNScalar
	defer scalar.Zero()
	if overflow := scalar.SetBytes(&buf); overflow != 0 || scalar.IsZero() {
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidPrivateKey)
	}
	return secp256k1.NewPrivateKey(&scalar), nil
}

func toSecp256k1PublicKey(publicKey PublicKey) (*secp256k1.PublicKey, error) {
	if publicKey == nil || publicKey.AlgorithmName() != Secp256k1AlgorithmName {
		return nil, fmt.Errorf("%w: not a %s key", ErrInvalidPublicKey, Secp256k1AlgorithmName)
	}
	pub, err := secp256k1.ParsePubKey(publicKey.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return pub, nil
}

// parseCompactSignature decodes a 64-byte r||s signature. highS reports a
// signature whose S is above half the group order.
func parseCompactSignature(signature string) (sig *ecdsa.Signature, highS bool, err error) {
	raw, err := DecodeHex(signature)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(raw) != secp256k1SignatureSize {
		return nil, false, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, secp256k1SignatureSize, len(raw))
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(raw[:32]); overflow || r.IsZero() {
		return nil, false, fmt.Errorf("%w: r out of range", ErrInvalidSignature)
	}
	if overflow := s.SetByteSlice(raw[32:]); overflow || s.IsZero() {
		return nil, false, fmt.Errorf("%w: s out of range", ErrInvalidSignature)
	}
	return ecdsa.NewSignature(&r, &s), s.IsOverHalfOrder(), nil
}
