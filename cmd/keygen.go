package cmd

import (
	"errors"
	"fmt"

	"github.com/mezonai/xoledger/keystore"
	"github.com/mezonai/xoledger/signing"
	"github.com/spf13/cobra"
)

var (
	keygenForce    bool
	keygenMnemonic bool
	keygenImport   string
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Create, show or restore the signing key",
	Long: `Print the public key stored under --key-name, creating it when missing.
--force replaces an existing key, --import restores one from a BIP-39 phrase
and --mnemonic prints the backup phrase of the key.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := signing.MustCreateContext(cfg.KeyStore.Algorithm)
		store, err := openKeyStore()
		if err != nil {
			return err
		}
		defer store.Close()

		name := cfg.KeyStore.KeyName
		key, err := store.Load(name)
		exists := err == nil
		if err != nil && !errors.Is(err, keystore.ErrKeyNotFound) {
			return err
		}
		if exists && keygenImport != "" && !keygenForce {
			return fmt.Errorf("key %q already exists, pass --force to replace it", name)
		}

		switch {
		case keygenImport != "":
			if key, err = keystore.ImportMnemonic(ctx.AlgorithmName(), keygenImport); err != nil {
				return err
			}
			if err := store.Save(name, key); err != nil {
				return err
			}
		case !exists || keygenForce:
			key = ctx.NewRandomPrivateKey()
			if err := store.Save(name, key); err != nil {
				return err
			}
		}

		pub, err := ctx.GetPublicKey(key)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", name, pub.Hex())
		if keygenMnemonic {
			phrase, err := keystore.ExportMnemonic(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, phrase)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)

	keygenCmd.Flags().BoolVar(&keygenForce, "force", false, "Replace an existing key")
	keygenCmd.Flags().BoolVar(&keygenMnemonic, "mnemonic", false, "Print the BIP-39 backup phrase")
	keygenCmd.Flags().StringVar(&keygenImport, "import", "", "Restore the key from a BIP-39 phrase")
}
