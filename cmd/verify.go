package cmd

import (
	"fmt"
	"os"

	"github.com/mezonai/xoledger/batch"
	"github.com/mezonai/xoledger/signing"
	"github.com/mezonai/xoledger/types"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <batch-list-file>",
	Short: "Decode a serialized batch list and check every signature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var list types.BatchList
		if err := list.Unmarshal(data); err != nil {
			return fmt.Errorf("decode batch list: %w", err)
		}
		if err := batch.VerifyList(signing.MustCreateContext(cfg.KeyStore.Algorithm), &list); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, b := range list.Batches {
			fmt.Fprintf(out, "batch %s OK (%d transactions)\n", b.ID(), len(b.Transactions))
			for _, txn := range b.Transactions {
				fmt.Fprintf(out, "  txn %s %s\n", txn.ID(), txn.Payload)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
