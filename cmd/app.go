package cmd

import (
	"github.com/mezonai/xoledger/client"
	"github.com/mezonai/xoledger/keystore"
	"github.com/mezonai/xoledger/logx"
	"github.com/mezonai/xoledger/signing"
	"github.com/mezonai/xoledger/xo"
)

// app holds the wiring shared by the game commands.
type app struct {
	context signing.Context
	signer  *signing.Signer
	ledger  *client.RestClient
	handler *xo.Handler
	created bool
}

func openKeyStore() (keystore.KeyStore, error) {
	return keystore.NewKeyStore(cfg.KeyStore)
}

func newApp() (*app, error) {
	ctx := signing.MustCreateContext(cfg.KeyStore.Algorithm)

	store, err := openKeyStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	key, created, err := keystore.GetOrCreate(store, ctx, cfg.KeyStore.KeyName)
	if err != nil {
		return nil, err
	}
	if created {
		logx.Info("CMD", "No key named ", cfg.KeyStore.KeyName, ", generated a new one")
	}
	signer := signing.NewSigner(ctx, key)

	ledger, err := client.NewClient(client.ConfigFromSettings(cfg.Client))
	if err != nil {
		return nil, err
	}
	handler, err := xo.NewHandler(signer, ledger)
	if err != nil {
		return nil, err
	}
	return &app{context: ctx, signer: signer, ledger: ledger, handler: handler, created: created}, nil
}
