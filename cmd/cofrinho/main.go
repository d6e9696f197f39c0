package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"cofrinho/internal/amqp"
	"cofrinho/internal/auth"
	"cofrinho/internal/cache"
	"cofrinho/internal/cli"
	"cofrinho/internal/config"
	"cofrinho/internal/events"
	"cofrinho/internal/goals"
	apphttp "cofrinho/internal/http"
	"cofrinho/internal/ledger"
	applog "cofrinho/internal/log"
	"cofrinho/internal/notify"
	"cofrinho/internal/profile"
	"cofrinho/internal/quiz"
	"cofrinho/internal/reports"
	"cofrinho/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig((*config.Config).Validate)
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	factory, backend := cli.OpenBackend(ctx, logger, cfg)
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("Failed to close backend", applog.FieldError, err)
		}
	}()
	st := backend.Store

	hub := notify.NewHub(logger)
	publisher := events.Multi{hub}

	// Without a broker the worker runs in-process so levels still follow points.
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = append(publisher, client)
		logger.Info("Publishing domain events to AMQP", "exchange", cfg.AMQPExchange)
	} else {
		exporter, err := factory.CreateExporter(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize exporter", applog.FieldError, err)
			os.Exit(1)
		}
		inline := worker.New(worker.Deps{
			Profiles:     profile.NewService(st, hub, nil),
			Goals:        st,
			Transactions: st,
			Exporter:     exporter,
			Logger:       logger,
		})
		publisher = append(publisher, events.HandlerFunc(inline.Handle))
		logger.Info("AMQP disabled; handling domain events in-process")
	}

	reportCache := cache.NewLRUCache[reports.Report](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	// Revocations must outlive any number of later sign-outs; only expiry drops them.
	revoked := cache.NewTTLCache[struct{}](24 * time.Hour)
	janitor := cache.NewJanitor(reportCache, revoked)
	go janitor.Run(ctx, 10*time.Minute)

	reportSvc := reports.NewService(st, reportCache)
	ledgerOpts := []ledger.Option{ledger.WithInvalidator(reportSvc)}
	if cfg.LedgerSaveScope == config.SaveScopeCategory {
		ledgerOpts = append(ledgerOpts, ledger.WithScope(ledger.ScopeCategory))
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Logger:         logger,
		Verifier:       auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, auth.WithRevocations(revoked)),
		Profiles:       profile.NewService(st, publisher, nil),
		Ledger:         ledger.NewService(st, publisher, ledgerOpts...),
		Goals:          goals.NewService(st, publisher, nil),
		Quiz:           quiz.NewService(st, st, publisher, nil),
		Reports:        reportSvc,
		Hub:            hub,
		Ping:           backend.Ping,
		RequestTimeout: cfg.RequestTimeout,
		RateLimitRPM:   cfg.RateLimitRPM,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// Configure server timeouts and limits. Websocket connections are
	// hijacked and not bound by WriteTimeout.
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	srv.Start(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	}()

	logger.Info("Starting cofrinho server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"ledger_save_scope", cfg.LedgerSaveScope,
		applog.FieldOperation, applog.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
