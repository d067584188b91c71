package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wfcgen/wfcgen/libs/log"
)

var (
	configPath string
	logger     = log.NewLogger(os.Stderr)
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wfcgen",
		Short: "Generate, serve, and inspect wave-function-collapse tile maps",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (optional; defaults apply otherwise)")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newValidateCatalogCmd())
	root.AddCommand(newReplayCmd())
	return root
}
