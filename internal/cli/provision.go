package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-erp-gateway/backend"
	"github.com/jrsteele09/go-erp-gateway/internal/config"
	"github.com/jrsteele09/go-erp-gateway/provision"
)

func newProvisionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Reconcile the backend's custom schema and seed account, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd.Context())
		},
	}
}

func runProvision(ctx context.Context) error {
	cfg := config.New()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	client := backend.New(cfg.GetBackendBaseURL(), backend.WithTimeout(cfg.GetBackendTimeout()))
	session, err := client.Login(ctx, cfg.GetCompanyID(), cfg.GetServiceUsername(), cfg.GetServicePassword())
	if err != nil {
		return fmt.Errorf("service account login: %w", err)
	}
	defer func() {
		if err := client.Logout(ctx, session.Token); err != nil {
			log.Warn().Err(err).Msg("service account logout failed")
		}
	}()

	outcome := provision.New(client, provision.DefaultTarget()).Run(ctx, session.Token)
	for _, step := range outcome.Steps {
		fmt.Println(step)
	}
	for _, warning := range outcome.Warnings {
		fmt.Println("WARNING:", warning)
	}
	if len(outcome.Warnings) > 0 {
		return fmt.Errorf("provisioning finished with %d warnings", len(outcome.Warnings))
	}
	return nil
}
