// Package keystore persists signing keys by name. Every backend stores the
// same record, "<algorithm>:<hex key>", optionally sealed under a
// passphrase.
package keystore

import (
	"regexp"
	"strings"

	"github.com/mezonai/xoledger/logx"
	"github.com/mezonai/xoledger/signing"
	"github.com/pkg/errors"
)

var (
	ErrKeyNotFound = errors.New("keystore: key not found")
	ErrAuthFailed  = errors.New("keystore: authentication failed")
	ErrInvalidName = errors.New("keystore: invalid key name")
	ErrCorrupt     = errors.New("keystore: stored key is corrupt")
	ErrClosed      = errors.New("keystore: store is closed")
)

var keyNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// KeyStore loads and saves private keys by name. Save overwrites.
type KeyStore interface {
	Load(name string) (signing.PrivateKey, error)
	Save(name string, key signing.PrivateKey) error
	Close() error
}

// GetOrCreate returns the key stored under name, generating and saving a
// new one with ctx when none exists. created reports the latter.
func GetOrCreate(store KeyStore, ctx signing.Context, name string) (key signing.PrivateKey, created bool, err error) {
	key, err = store.Load(name)
	switch {
	case err == nil:
		if key.AlgorithmName() != ctx.AlgorithmName() {
			return nil, false, errors.Errorf("keystore: key %q is %s, want %s", name, key.AlgorithmName(), ctx.AlgorithmName())
		}
		return key, false, nil
	case !errors.Is(err, ErrKeyNotFound):
		return nil, false, err
	}

	key = ctx.NewRandomPrivateKey()
	if err := store.Save(name, key); err != nil {
		return nil, false, errors.Wrapf(err, "save new key %q", name)
	}

	if pub, err := ctx.GetPublicKey(key); err == nil {
		logx.Info("KEYSTORE", "Created key ", name, " public key ", pub.Hex())
	}
	return key, true, nil
}

func validateName(name string) error {
	if !keyNamePattern.MatchString(name) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

func encodeRecord(key signing.PrivateKey) ([]byte, error) {
	if key == nil {
		return nil, errors.Wrap(signing.ErrInvalidPrivateKey, "nil key")
	}
	return []byte(key.AlgorithmName() + ":" + key.Hex()), nil
}

func decodeRecord(record []byte) (signing.PrivateKey, error) {
	alg, hexKey, ok := strings.Cut(strings.TrimSpace(string(record)), ":")
	if !ok || alg == "" {
		return nil, ErrCorrupt
	}
	key, err := signing.ParsePrivateKey(alg, hexKey)
	if err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	return key, nil
}
