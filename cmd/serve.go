package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"zillow-wholesale/api"
	"zillow-wholesale/storage"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		addr     string
		postgres bool
	)

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the read-only HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.env.APIAddr
			}

			var reader storage.ListingReader
			if postgres {
				pgWriter, err := storage.NewPostgresWriter(a.env.DSN())
				if err != nil {
					return err
				}
				defer pgWriter.Close()
				reader = pgWriter
			}

			srv := api.NewServer(a.logger, a.metrics, reader, a.search)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.Start(addr) }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	c.Flags().StringVar(&addr, "addr", "", "listen address (default $API_ADDR)")
	c.Flags().BoolVar(&postgres, "postgres", false, "serve stored call sheets from PostgreSQL")
	return c
}
