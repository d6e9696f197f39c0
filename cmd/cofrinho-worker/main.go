package main

import (
	"context"
	"errors"
	"os"

	"cofrinho/internal/amqp"
	"cofrinho/internal/cli"
	"cofrinho/internal/config"
	applog "cofrinho/internal/log"
	"cofrinho/internal/profile"
	"cofrinho/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig((*config.Config).ValidateWorker)
	logger := cli.SetupLogger(cfg, applog.ComponentWorker)

	logger.Info("Starting cofrinho-worker", applog.FieldOperation, applog.OpStartup)

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	factory, backend := cli.OpenBackend(ctx, logger, cfg)
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("Failed to close backend", applog.FieldError, err)
		}
	}()
	st := backend.Store

	// Spreadsheet mirroring is optional.
	exporter, err := factory.CreateExporter(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize exporter", applog.FieldError, err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	// Level promotions are published back to the broker.
	w := worker.New(worker.Deps{
		Profiles:     profile.NewService(st, client, nil),
		Goals:        st,
		Transactions: st,
		Exporter:     exporter,
		Logger:       logger,
	})

	logger.Info("Consuming domain events", "queue", cfg.AMQPQueue, "sheets", exporter != nil)
	if err := client.Consume(ctx, w.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
