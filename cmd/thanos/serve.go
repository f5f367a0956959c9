package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"thanos/internal/assistant"
	"thanos/internal/catalog"
	"thanos/internal/logging"
	"thanos/internal/organize"
	"thanos/internal/server"
	"thanos/internal/services/classifier"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logPath := filepath.Join(cfg.Paths.LogDir, "thanos.log")
			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stdout", logPath},
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := catalog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			svc := classifier.New(cfg.ClassifierLLM(), logger)
			runner := organize.NewRunner(cfg, store, svc, logger)
			undoer := organize.NewUndoer(cfg, store, logger)
			chat := assistant.New(cfg, logger)

			srv := server.New(cfg, store, runner, undoer, chat, logger)
			return srv.Run(signalCtx)
		},
	}
}
