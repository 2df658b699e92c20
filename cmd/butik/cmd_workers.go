package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chiquebutik/butik/config"
	"github.com/chiquebutik/butik/internal/kernel"
	"github.com/chiquebutik/butik/pkg/logger"
)

var (
	queueWorkersFlag int
	queueOnceFlag    bool
)

// butik queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Process background jobs (emails) from the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		defer k.Close()

		if config.QueueDriver() != "redis" {
			logger.Warn("queue:work: QUEUE_DRIVER is not redis; this worker only sees jobs it queues itself")
		}

		if queueOnceFlag {
			n := k.Queue.Drain(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d job(s).\n", n)
			return nil
		}

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 1
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		k.Queue.Run(ctx, workers)
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 2, "Number of concurrent workers")
	queueWorkCmd.Flags().BoolVar(&queueOnceFlag, "once", false, "Process queued jobs and exit")
}
