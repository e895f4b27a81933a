package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/mezonai/xoledger/logx"
	"github.com/mezonai/xoledger/stringutil"
	"github.com/mezonai/xoledger/xo"
	"github.com/spf13/cobra"
)

// outputPath, when set, writes the signed batch list to a file instead of
// submitting it.
var outputPath string

var createCmd = &cobra.Command{
	Use:   "create <game>",
	Short: "Create a new game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, args[0], xo.ActionCreate, "", func(ctx context.Context, h *xo.Handler) (*xo.Submission, error) {
			return h.CreateGame(ctx, args[0])
		})
	},
}

var takeCmd = &cobra.Command{
	Use:   "take <game> <space>",
	Short: "Take a space (1-9) in a game",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		space, err := strconv.Atoi(args[1])
		if err != nil || space < 1 || space > 9 {
			return xo.ErrInvalidSpace
		}
		return runAction(cmd, args[0], xo.ActionTake, args[1], func(ctx context.Context, h *xo.Handler) (*xo.Submission, error) {
			return h.TakeSpace(ctx, args[0], space)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <game>",
	Short: "Delete a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, args[0], xo.ActionDelete, "", func(ctx context.Context, h *xo.Handler) (*xo.Submission, error) {
			return h.DeleteGame(ctx, args[0])
		})
	},
}

func runAction(cmd *cobra.Command, game, action, arg string, submit func(context.Context, *xo.Handler) (*xo.Submission, error)) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if outputPath != "" {
		list, batchID, err := a.handler.MakeBatch(game, action, arg)
		if err != nil {
			return err
		}
		data, err := list.Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote batch %s to %s\n", batchID, outputPath)
		return nil
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), requestTimeout())
	defer cancel()

	sub, err := submit(ctx, a.handler)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Batch %s submitted\n", sub.BatchID)
	logx.Debug("CMD", action, " ", game, " batch ", stringutil.ShortenLog(sub.BatchID))

	res := xo.Await(ctx, sub)
	if res.Status != nil {
		fmt.Fprintln(out, res.Status.Describe())
	}
	if res.Err != nil {
		logx.Warn("CMD", action, " ", game, " failed: ", res.Err)
		return res.Err
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	for _, c := range []*cobra.Command{createCmd, takeCmd, deleteCmd} {
		c.Flags().StringVarP(&outputPath, "output", "o", "", "Write the signed batch list to a file instead of submitting")
		rootCmd.AddCommand(c)
	}
}
