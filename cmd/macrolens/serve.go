package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sartorproj/macrolens/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve chart datasets over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		dash, err := loadDashboard(cfg, log)
		if err != nil {
			return err
		}
		srv, err := server.New(cfg.Server, dash, log)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			log.WithField("signal", sig.String()).Info("Received shutdown signal")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(ctx)
	},
}
