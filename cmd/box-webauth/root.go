package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/box-webauth/internal/config"
)

func newRootCmd() *cobra.Command {
	var envFile string

	serve := newServeCmd(&envFile)

	root := &cobra.Command{
		Use:           "box-webauth",
		Short:         "Box OAuth2 web authentication demo",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running without a subcommand serves
		RunE: serve.RunE,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")

	root.AddCommand(serve, newVersionCmd())
	return root
}

// newLogger builds the process logger from configuration
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
