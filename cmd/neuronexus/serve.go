package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"neuronexus/internal/config"
	"neuronexus/internal/httpapi"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		addr     string
		cors     string
		autoInit bool
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.cfg.Addr = addr
			}
			if cmd.Flags().Changed("cors") {
				c.cfg.CORSOrigins = config.SplitCSV(cors)
			}
			if cmd.Flags().Changed("auto-init") {
				c.cfg.AutoInit = autoInit
			}
			a, err := c.openApp()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			httpapi.SetLogger(c.log.With().Str("component", "http").Logger())
			httpapi.SetBaseContext(ctx)
			httpapi.SetCORSOrigins(c.cfg.CORSOrigins)
			httpapi.SetEvaluateTimeout(timeout)
			srv := &http.Server{
				Addr:              c.cfg.Addr,
				Handler:           httpapi.NewMux(a),
				ReadHeaderTimeout: 10 * time.Second,
			}

			if a.AutoInit() {
				if err := a.StartInit(ctx); err != nil {
					c.log.Warn().Err(err).Msg("auto init")
				}
			}

			errc := make(chan error, 1)
			go func() {
				c.log.Info().Str("addr", c.cfg.Addr).Str("repo", a.Manager().RepoID()).Msg("neuronexus listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				c.log.Error().Err(err).Msg("graceful shutdown")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().StringVar(&cors, "cors", "", "Comma-separated allowed CORS origins")
	cmd.Flags().BoolVar(&autoInit, "auto-init", false, "Load the model in the background at startup")
	cmd.Flags().DurationVar(&timeout, "evaluate-timeout", 0, "Per-request evaluate timeout (0 disables)")
	return cmd
}
