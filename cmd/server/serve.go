package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"prooflayer/internal/app"
	"prooflayer/internal/platform/logger"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"run"},
		Short:   "Start the HTTP API and background workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.Server.LogLevel)
			if cfg.UsesDevSigningKey() {
				log.Warn("JWT_SIGNING_KEY is the development default; set it before exposing this server")
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := app.Build(ctx, app.Options{Config: cfg, Logger: log, Migrate: migrate})
			if err != nil {
				log.Error("startup failed", "error", err)
				return err
			}
			defer a.Close()

			log.Info("starting prooflayer",
				"addr", cfg.Server.Addr,
				"postgres", cfg.Database.URL != "",
				"redis", cfg.Redis.URL != "",
				"kafka", len(cfg.Kafka.Brokers) > 0,
			)
			if err := a.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("server stopped", "error", err)
				return err
			}
			log.Info("shutdown complete")
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}
