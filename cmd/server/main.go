package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/comtec/field-reports/internal/config"
	"github.com/comtec/field-reports/internal/repository/drive"
	"github.com/comtec/field-reports/internal/repository/mongodb"
	"github.com/comtec/field-reports/internal/scheduler"
	"github.com/comtec/field-reports/internal/server/handlers"
	"github.com/comtec/field-reports/internal/server/router"
	reportsvc "github.com/comtec/field-reports/internal/service/report"
	"github.com/comtec/field-reports/pkg/clients/notify"
	"github.com/comtec/field-reports/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	driveRepo, err := drive.NewGoogleDriveRepository(context.Background(), cfg.Drive, baseLogger.Named("repo.drive"))
	if err != nil {
		baseLogger.Fatal("failed to init drive repository", zap.Error(err))
	}

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	// Initialize the optional submission webhook
	var notifier notify.Client
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewClient(cfg.Notify)
		baseLogger.Info("submission webhook enabled")
	} else {
		baseLogger.Warn("notify webhook url missing, submission notices disabled")
	}

	reportSvc := reportsvc.NewService(driveRepo, mongoRepo, reportsvc.NewPDFRenderer(), notifier, cfg.Drive.RootFolderID, baseLogger.Named("svc.report"))
	reportHandler := handlers.NewReportHandler(reportSvc, baseLogger.Named("handlers.report"))
	engine := router.New(reportHandler, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(cfg.Scheduler, reportSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
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
