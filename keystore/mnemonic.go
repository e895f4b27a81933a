package keystore

import (
	"strings"

	"github.com/mezonai/xoledger/signing"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

var ErrInvalidMnemonic = errors.New("keystore: invalid mnemonic")

// ExportMnemonic renders a 32-byte private key as a 24-word BIP-39 phrase.
// The words encode the key itself, not a derivation seed.
func ExportMnemonic(key signing.PrivateKey) (string, error) {
	if key == nil {
		return "", signing.ErrInvalidPrivateKey
	}
	raw := key.Bytes()
	defer clear(raw)
	if len(raw) != 32 {
		return "", errors.Wrapf(signing.ErrInvalidPrivateKey, "%d byte key cannot be exported", len(raw))
	}
	return bip39.NewMnemonic(raw)
}

// ImportMnemonic restores a key written by ExportMnemonic and checks it is
// usable with algorithm.
func ImportMnemonic(algorithm, mnemonic string) (signing.PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidMnemonic, err.Error())
	}
	defer clear(entropy)

	key, err := signing.ParsePrivateKey(algorithm, signing.EncodeHex(entropy))
	if err != nil {
		return nil, err
	}
	ctx, err := signing.CreateContext(algorithm)
	if err != nil {
		return nil, err
	}
	if _, err := ctx.GetPublicKey(key); err != nil {
		return nil, err
	}
	return key, nil
}
