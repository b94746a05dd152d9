package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/skyblock-shop/internal/queue"
)

func consumeCmd() *cobra.Command {
	var logDir string
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Append published catalog snapshots to <log-dir>/catalog.log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c := &queue.Consumer{URL: cfg.BrokerURL(), LogDir: logDir, Log: log}
			log.WithField("queue", queue.CatalogQueueName).Info("catalog consumer started")
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&logDir, "log-dir", "logs", "directory for catalog.log")
	return cmd
}
