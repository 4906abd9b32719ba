package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-erp-gateway/internal/config"
	"github.com/jrsteele09/go-erp-gateway/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg := config.New()
	displayAppname(cfg.GetAppName())

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	if cfg.GetProvisionOnBoot() {
		if err := provisionOnBoot(cfg, srv); err != nil {
			// Boot-time provisioning is best effort; a later on-demand run
			// can complete whatever this one could not.
			log.Warn().Err(err).Msg("boot provisioning failed")
		}
	}

	httpServer := &http.Server{Addr: cfg.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

// provisionOnBoot logs in with the configured service account, runs one
// reconciliation pass through the server's own backend client, and logs out.
func provisionOnBoot(cfg config.Config, srv *server.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	session, err := srv.Backend().Login(ctx, cfg.GetCompanyID(), cfg.GetServiceUsername(), cfg.GetServicePassword())
	if err != nil {
		return fmt.Errorf("service account login: %w", err)
	}
	defer func() {
		if err := srv.Backend().Logout(ctx, session.Token); err != nil {
			log.Warn().Err(err).Msg("service account logout failed")
		}
	}()

	outcome := srv.Provisioner().Run(ctx, session.Token)
	for _, step := range outcome.Steps {
		log.Info().Msg(step)
	}
	for _, warning := range outcome.Warnings {
		log.Warn().Msg(warning)
	}
	return nil
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
