package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/config"
	"github.com/mamadbah2/satisfaction/internal/locale"
	"github.com/mamadbah2/satisfaction/internal/repository"
	"github.com/mamadbah2/satisfaction/internal/repository/mongodb"
	"github.com/mamadbah2/satisfaction/internal/repository/sheets"
	"github.com/mamadbah2/satisfaction/internal/repository/sqlite"
	"github.com/mamadbah2/satisfaction/internal/scheduler"
	"github.com/mamadbah2/satisfaction/internal/server/handlers"
	"github.com/mamadbah2/satisfaction/internal/server/router"
	authsvc "github.com/mamadbah2/satisfaction/internal/service/auth"
	dashboardsvc "github.com/mamadbah2/satisfaction/internal/service/dashboard"
	"github.com/mamadbah2/satisfaction/internal/service/export"
	reportingsvc "github.com/mamadbah2/satisfaction/internal/service/reporting"
	resetsvc "github.com/mamadbah2/satisfaction/internal/service/reset"
	votingsvc "github.com/mamadbah2/satisfaction/internal/service/voting"
	"github.com/mamadbah2/satisfaction/pkg/clients/notifier"
	"github.com/mamadbah2/satisfaction/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}
	if !locale.Supported(cfg.Locale.Tag) {
		baseLogger.Warn("unsupported locale, falling back", zap.String("locale", cfg.Locale.Tag), zap.String("fallback", locale.Default))
	}
	lc := locale.Lookup(cfg.Locale.Tag)

	store, err := openStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init vote store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close vote store", zap.Error(err))
		}
	}()

	var sheetsRepo sheets.Repository
	var exportSheet export.SheetWriter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exportSheet = sheetsRepo
		baseLogger.Info("google sheets export enabled")
	} else {
		baseLogger.Warn("google sheets credentials missing, spreadsheet export disabled")
	}

	var notifierClient notifier.Client
	if cfg.Notifier.Enabled() {
		notifierClient = notifier.NewClient(cfg.Notifier)
		baseLogger.Info("webhook notifier enabled")
	}

	authService := authsvc.NewService(authsvc.Credentials{
		Email:        cfg.Auth.AdminEmail,
		PasswordHash: cfg.Auth.AdminPasswordHash,
		Secret:       []byte(cfg.Auth.JWTSecret),
		TTL:          cfg.Auth.SessionTTL,
	}, baseLogger.Named("svc.auth"))
	dashboardManager := dashboardsvc.NewManager(store, loc, lc, baseLogger.Named("svc.dashboard"))
	authService.OnAuthStateChange(dashboardManager.HandleAuthChange)

	votingService := votingsvc.NewService(store, votingsvc.NewCooldown(cfg.Kiosk.Cooldown), loc, lc, baseLogger.Named("svc.voting"))
	resetService := resetsvc.NewService(store, resetsvc.DefaultTTL, baseLogger.Named("svc.reset"))
	reportingService := reportingsvc.NewService(store, loc, lc, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Votes:     handlers.NewVoteHandler(votingService, baseLogger.Named("handlers.votes")),
		Auth:      handlers.NewAuthHandler(authService, dashboardManager, baseLogger.Named("handlers.auth")),
		Dashboard: handlers.NewDashboardHandler(dashboardManager, baseLogger.Named("handlers.dashboard")),
		Export:    handlers.NewExportHandler(exportSheet, cfg.Sheets.ExportRange, baseLogger.Named("handlers.export")),
		Reset:     handlers.NewResetHandler(resetService, baseLogger.Named("handlers.reset")),
	}, cfg.Server.AllowedOrigins, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, loc, reportingService, notifierClient, sheetsRepo, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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

func openStore(ctx context.Context, cfg *config.Config, baseLogger *zap.Logger) (repository.VoteStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageSQLite:
		return sqlite.Open(cfg.Storage.SQLitePath, baseLogger.Named("repo.sqlite"))
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		return mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	}
}
