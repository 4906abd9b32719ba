// Package cli wires the gateway's cobra command tree.
package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-erp-gateway/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gateway",
		Short:         "ERP gateway for the backend service layer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newProvisionCmd())
	return root
}

// Execute runs the command tree and returns a process exit code.
func Execute() int {
	cfg := config.New()
	configureLogging(cfg)

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		return 1
	}
	return 0
}

func configureLogging(cfg config.Config) {
	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
