package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/queue"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume analysis requests from an AMQP queue and publish the results",
	Run: func(_ *cobra.Command, _ []string) {
		work()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)

	workerCmd.Flags().Int("workers", queue.DefaultWorkers, "concurrent consumers")
	workerCmd.Flags().String("queue", queue.DefaultQueue, "queue to consume requests from")

	viper.BindPFlag("queue.workers", workerCmd.Flags().Lookup("workers"))
	viper.BindPFlag("queue.queue", workerCmd.Flags().Lookup("queue"))
}

func work() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config.Queue.URL == "" {
		logger.Fatal("queue url is required", zap.String("hint", "set AMQP_URL or queue.url in the configuration file"))
	}

	svc, err := buildServices(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the analyzer", zap.Error(err))
	}

	processor := queue.NewProcessor(svc.analyzer, svc.loader, svc.fetcher, logger)
	worker := queue.NewWorker(config.Queue, processor, logger)

	logger.Info("starting the worker", zap.String("version", version), zap.String("queue", config.Queue.Queue))

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("worker stopped", zap.Error(err))
	}

	logger.Info("worker stopped")
}
