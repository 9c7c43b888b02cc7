package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ecotrack/internal/app"
	"github.com/mamadbah2/ecotrack/internal/charts"
	"github.com/mamadbah2/ecotrack/internal/config"
	"github.com/mamadbah2/ecotrack/internal/repository/sheets"
	"github.com/mamadbah2/ecotrack/internal/scheduler"
	"github.com/mamadbah2/ecotrack/internal/server/handlers"
	"github.com/mamadbah2/ecotrack/internal/server/router"
	commandsvc "github.com/mamadbah2/ecotrack/internal/service/commands"
	recordersvc "github.com/mamadbah2/ecotrack/internal/service/recorder"
	reportingsvc "github.com/mamadbah2/ecotrack/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/ecotrack/internal/service/whatsapp"
	"github.com/mamadbah2/ecotrack/pkg/clients/anthropic"
	whatsappclient "github.com/mamadbah2/ecotrack/pkg/clients/whatsapp"
	"github.com/mamadbah2/ecotrack/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	backends, err := app.OpenBackends(context.Background(), cfg, baseLogger.Named("repo"))
	if err != nil {
		baseLogger.Fatal("failed to open storage", zap.Error(err))
	}
	defer func() {
		if err := backends.Close(); err != nil {
			baseLogger.Error("failed to close storage", zap.Error(err))
		}
	}()

	var ledger recordersvc.Ledger
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		ledger = sheets.NewLedger(sheetsRepo)
		baseLogger.Info("google sheets ledger enabled")
	}

	board := charts.NewBoard(baseLogger.Named("charts"))
	recorder := recordersvc.NewService(backends.Store, ledger, baseLogger.Named("svc.recorder"))
	reportingSvc := reportingsvc.NewService(backends.Store, board, baseLogger.Named("svc.reporting"))

	routes := router.Handlers{
		Entries: handlers.NewEntryHandler(recorder, cfg.Server.Cities, baseLogger.Named("handlers.entry")),
		Reports: handlers.NewReportHandler(reportingSvc, board, loc, baseLogger.Named("handlers.report")),
	}

	var messagingSvc whatsappsvc.MessagingService
	if cfg.WhatsApp.Enabled() {
		var aiClient anthropic.Client
		if cfg.AI.AnthropicKey != "" {
			aiClient = anthropic.NewClient(cfg.AI.AnthropicKey)
			baseLogger.Info("anthropic ai client enabled")
		} else {
			baseLogger.Warn("anthropic api key missing, free text commands disabled")
		}

		dispatcher := commandsvc.NewService(recorder, reportingSvc, baseLogger.Named("svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc = whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, dispatcher, aiClient, baseLogger.Named("svc.whatsapp"))
		routes.Webhook = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
	} else {
		baseLogger.Warn("whatsapp not configured, chat channel disabled")
	}

	engine := router.New(routes, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(scheduler.Options{
		Schedule:  cfg.Reporting.CronSchedule,
		Location:  loc,
		ManagerID: cfg.WhatsApp.ManagerID,
	}, reportingSvc, backends.Archive, messagingSvc, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
