package cmd

import (
	"context"
	"os"
	"time"

	"github.com/mezonai/xoledger/config"
	"github.com/mezonai/xoledger/exception"
	"github.com/mezonai/xoledger/logx"
	"github.com/mezonai/xoledger/monitoring"
	"github.com/spf13/cobra"
)

var (
	configPath string
	urlFlag    string
	keyName    string
	waitFlag   int

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "xo",
	Short: "XO game client for a Sawtooth-style ledger",
	Long: `Command line client for the xo transaction family.
Game actions are signed locally, batched and submitted to the ledger REST API.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logx.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a .yml or .ini config file")
	rootCmd.PersistentFlags().StringVar(&urlFlag, "url", "", "Ledger REST API URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&keyName, "key-name", "", "Name of the signing key in the key store (overrides config)")
	rootCmd.PersistentFlags().IntVar(&waitFlag, "wait", -1, "Seconds the ledger may hold a status request (overrides config)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if urlFlag != "" {
		loaded.Client.URL = urlFlag
	}
	if keyName != "" {
		loaded.KeyStore.KeyName = keyName
	}
	if waitFlag >= 0 {
		loaded.Client.WaitSeconds = waitFlag
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	if cfg.Log.ToFile {
		logx.Init(logx.Options{
			Dir:        cfg.Log.Dir,
			File:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Debug:      cfg.Log.Debug,
		})
	} else if cfg.Log.Debug {
		logx.SetDebug(true)
	}

	if cfg.Metrics.Addr != "" {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		addr := cfg.Metrics.Addr
		exception.SafeGo("metrics-server", func() {
			if err := monitoring.StartMetricsServer(ctx, addr); err != nil {
				logx.Error("MONITORING", "Metrics server stopped: ", err)
			}
		})
	}
	return nil
}

// requestTimeout bounds one command: submission plus status polling.
func requestTimeout() time.Duration {
	return cfg.Client.Timeout() + cfg.Client.PollTimeout()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed: ", err)
		os.Exit(1)
	}
}
