package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"countries-informer/internal/application/processor"
	"countries-informer/pkg/log"
	"countries-informer/pkg/msg"
	"countries-informer/pkg/sqs"

	"github.com/spf13/cobra"
)

func newImportWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-worker",
		Short: "Consume the places import queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap()
			if err != nil {
				return err
			}
			defer app.close()

			if !app.cfg.Queue.Enabled {
				return errors.New("queue is disabled, set QUEUE_ENABLED=true")
			}
			if err := app.openDatabase(); err != nil {
				return err
			}
			if err := app.openQueue(ctx); err != nil {
				return err
			}
			return runImportWorker(ctx, app, app.buildUseCases())
		},
	}
}

// runImportWorker polls the places import queue until ctx is done
func runImportWorker(ctx context.Context, app *application, useCases useCases) error {
	cfg := app.cfg.Queue
	handler := processor.NewPlacesImportProcessor(useCases.importer)

	worker, err := sqs.NewWorker(ctx, app.sqsClient, cfg.PlacesImport, handler, &sqs.WorkerConfig{
		MaxNumberOfMessages: cfg.MaxMessages,
		WaitTimeSeconds:     cfg.WaitTimeSeconds,
		PoolSize:            cfg.Workers,
		LogLevel:            sqs.ErrorLevel,
	})
	if err != nil {
		return err
	}

	app.queueHealth.RegisterWorker(cfg.PlacesImport, worker)
	defer app.queueHealth.UnregisterWorker(cfg.PlacesImport)

	log.Info(msg.GetMessage("worker.start", cfg.PlacesImport, cfg.Workers))
	worker.Start(ctx)
	log.Info(msg.GetMessage("worker.stop", cfg.PlacesImport))
	return nil
}
