package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"roughcut/internal/daemon"
	"roughcut/internal/logging"
	"roughcut/internal/queue"
	"roughcut/internal/services/whisper"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the background watcher and worker pool in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}

			transcriber, err := whisper.New(whisper.FromAppConfig(cfg))
			if err != nil {
				_ = store.Close()
				return err
			}

			d, err := daemon.New(cfg, store, transcriber, logger)
			if err != nil {
				_ = store.Close()
				return err
			}
			defer d.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Start(runCtx); err != nil {
				return err
			}
			<-runCtx.Done()
			d.Stop()
			return nil
		},
	}
}
