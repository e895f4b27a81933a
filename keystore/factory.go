package keystore

import (
	"github.com/mezonai/xoledger/config"
	"github.com/mezonai/xoledger/logx"
	"github.com/pkg/errors"
)

// NewKeyStore builds the backend named by cfg.Type.
func NewKeyStore(cfg config.KeyStoreConfig) (KeyStore, error) {
	sealer := NewSealer(cfg.ResolvePassphrase())

	switch cfg.Type {
	case config.KeyStoreMemory:
		return NewMemoryStore(), nil
	case config.KeyStoreFile:
		logx.Debug("KEYSTORE", "Using file key store at ", cfg.Path, " sealed=", sealer.Enabled())
		store, err := NewFileStore(cfg.Path, sealer)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.KeyStoreBolt:
		logx.Debug("KEYSTORE", "Using bolt key store at ", cfg.Path, " sealed=", sealer.Enabled())
		store, err := NewBoltStore(cfg.Path, sealer)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.KeyStorePostgres:
		logx.Debug("KEYSTORE", "Using postgres key store")
		store, err := OpenPgStore(cfg.DSN, cfg.MasterKey)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, errors.Errorf("keystore: unknown type %q", cfg.Type)
	}
}
