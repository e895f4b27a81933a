package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/mezonai/xoledger/client"
	"github.com/mezonai/xoledger/jsonx"
	"github.com/mezonai/xoledger/stringutil"
	"github.com/spf13/cobra"
)

var showJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all games",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(commandContext(cmd), cfg.Client.Timeout())
		defer cancel()

		games, err := a.handler.ListGames(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "GAME\tBOARD\tSTATE\tPLAYER 1\tPLAYER 2")
		for _, g := range games {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", g.Name, g.Board, g.State, shortKey(g.Player1), shortKey(g.Player2))
		}
		return w.Flush()
	},
}

var showCmd = &cobra.Command{
	Use:   "show <game>",
	Short: "Show one game's board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(commandContext(cmd), cfg.Client.Timeout())
		defer cancel()

		g, err := a.handler.GetGame(ctx, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if showJSON {
			data, err := jsonx.MarshalIndent(g)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		fmt.Fprintf(out, "GAME:     %s\nSTATE:    %s\nPLAYER 1: %s\nPLAYER 2: %s\n\n%s", g.Name, g.State, shortKey(g.Player1), shortKey(g.Player2), g.Render())
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <batch-id>",
	Short: "Show the ledger status of a submitted batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := client.NewClient(client.ConfigFromSettings(cfg.Client))
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(commandContext(cmd), cfg.Client.Timeout())
		defer cancel()

		bs, err := ledger.GetBatchStatus(ctx, args[0], cfg.Client.WaitSeconds)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n%s\n", bs.ID, bs.Status, bs.Describe())
		return nil
	},
}

func shortKey(key string) string {
	return stringutil.Shorten(key, 6, 4)
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the game as JSON")
	rootCmd.AddCommand(listCmd, showCmd, statusCmd)
}
