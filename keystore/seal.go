package keystore

import (
	"bytes"
	"crypto/rand"
	"io"

	"github.com/mezonai/xoledger/jsonx"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	envelopeVersion = 1
	envelopeKDF     = "argon2id"
	saltSize        = 16

	maxKDFTime     = 16
	maxKDFMemoryKB = 1024 * 1024
)

var sealedPrefix = []byte("XOENC1\n")

type kdfParams struct {
	time     uint32
	memoryKB uint32
	threads  uint8
}

var defaultKDFParams = kdfParams{time: 2, memoryKB: 64 * 1024, threads: 1}

type envelope struct {
	Version     uint32 `json:"version"`
	KDF         string `json:"kdf"`
	KDFTime     uint32 `json:"kdf_time"`
	KDFMemoryKB uint32 `json:"kdf_memory_kb"`
	KDFThreads  uint8  `json:"kdf_threads"`
	Salt        []byte `json:"salt"`
	Nonce       []byte `json:"nonce"`
	Ciphertext  []byte `json:"ciphertext"`
}

// Sealer encrypts key records under a passphrase with argon2id and
// XChaCha20-Poly1305. A Sealer with an empty passphrase passes records
// through unchanged and refuses to open sealed ones.
type Sealer struct {
	passphrase string
	params     kdfParams
	rand       io.Reader
}

func NewSealer(passphrase string) *Sealer {
	return &Sealer{passphrase: passphrase, params: defaultKDFParams, rand: rand.Reader}
}

func (s *Sealer) Enabled() bool {
	return s != nil && s.passphrase != ""
}

func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, sealedPrefix)
}

func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	if !s.Enabled() {
		return append([]byte(nil), plaintext...), nil
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(s.rand, salt); err != nil {
		return nil, errors.Wrap(err, "read salt")
	}
	key := deriveKey(s.passphrase, salt, s.params)
	defer clear(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(s.rand, nonce); err != nil {
		return nil, errors.Wrap(err, "read nonce")
	}

	raw, err := jsonx.Marshal(envelope{
		Version:     envelopeVersion,
		KDF:         envelopeKDF,
		KDFTime:     s.params.time,
		KDFMemoryKB: s.params.memoryKB,
		KDFThreads:  s.params.threads,
		Salt:        salt,
		Nonce:       nonce,
		Ciphertext:  aead.Seal(nil, nonce, plaintext, sealedPrefix),
	})
	if err != nil {
		return nil, err
	}
	return append(append([]byte(nil), sealedPrefix...), raw...), nil
}

// Open reverses Seal. Unsealed data is returned as is when the sealer has
// no passphrase; with one, unsealed data is rejected.
func (s *Sealer) Open(data []byte) ([]byte, error) {
	if !IsSealed(data) {
		if s.Enabled() {
			return nil, errors.Wrap(ErrAuthFailed, "record is not sealed")
		}
		return append([]byte(nil), data...), nil
	}
	if !s.Enabled() {
		return nil, errors.Wrap(ErrAuthFailed, "record is sealed and no passphrase is set")
	}

	var env envelope
	if err := jsonx.Unmarshal(data[len(sealedPrefix):], &env); err != nil {
		return nil, errors.Wrap(ErrCorrupt, "decode envelope")
	}
	if env.Version != envelopeVersion || env.KDF != envelopeKDF || len(env.Salt) == 0 ||
		env.KDFTime == 0 || env.KDFTime > maxKDFTime ||
		env.KDFMemoryKB == 0 || env.KDFMemoryKB > maxKDFMemoryKB || env.KDFThreads == 0 {
		return nil, errors.Wrap(ErrCorrupt, "unsupported envelope")
	}

	key := deriveKey(s.passphrase, env.Salt, kdfParams{time: env.KDFTime, memoryKB: env.KDFMemoryKB, threads: env.KDFThreads})
	defer clear(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	if len(env.Nonce) != aead.NonceSize() {
		return nil, errors.Wrap(ErrCorrupt, "bad nonce")
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.Ciphertext, sealedPrefix)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func deriveKey(passphrase string, salt []byte, p kdfParams) []byte {
	return argon2.IDKey([]byte(passphrase), salt, p.time, p.memoryKB, p.threads, chacha20poly1305.KeySize)
}
