package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/LdDl/walkroute/server"
	"github.com/pkg/errors"
	"github.com/safing/portbase/log"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP routing API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store := server.NewStore(cfg)
			if _, _, err := store.Reload(ctx); err != nil {
				return errors.Wrap(err, "Initial load failed")
			}
			go reloadOnHangup(ctx, store)
			return server.New(cfg, store).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on. Overrides listen")
	return cmd
}

// reloadOnHangup reloads graph and places on every SIGHUP until ctx is done
func reloadOnHangup(ctx context.Context, store *server.Store) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if _, _, err := store.Reload(ctx); err != nil {
				log.Errorf("walkroute: reload on SIGHUP failed: %s", err)
			}
		}
	}
}
