package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"histpattern/internal/session"
	"histpattern/internal/web"
)

var servePort int

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve query views over HTTP for a browser front end",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			a.loadRegistry(ctx)

			sess := session.New(a.api, session.Options{
				ChartWindow: a.cfg.Results.ChartWindow,
				Logger:      a.logger,
				Recorder:    a.metrics,
			})
			srv := web.NewServer(a.cfg, a.api, a.registry, sess, a.logger, a.gatherer)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start(servePort)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info().Msg("Shutting down view server")
			shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().IntVar(&servePort, "port", 0, "listen port (default: config server.port)")
	return cmd
}
