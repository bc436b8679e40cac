package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-report-go/internal/config"
	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
	appHTTP "github.com/cmlabs-hris/hris-report-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/xlsx"
	"github.com/cmlabs-hris/hris-report-go/internal/repository/postgresql"
	reportService "github.com/cmlabs-hris/hris-report-go/internal/service/report"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	log := logger.New(os.Stdout, "hris-report", cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	reportRepo := postgresql.NewAttendanceReportRepository(db)

	archive, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize local storage: %w", err)
	}

	var summaryCache report.SummaryCache
	if addr := cfg.RedisAddr(); addr != "" {
		client, err := cache.NewRedisClient(ctx, addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		summaryCache = cache.NewSummaryCache(client, cfg.Redis.TTL)
	} else {
		slog.Info("Redis not configured, attendance summaries are not cached")
	}

	reportSvc := reportService.NewReportService(reportRepo, xlsx.NewSerializer(), archive, summaryCache, reportService.Options{
		Location:       cfg.Report.Location,
		GraceMinutes:   cfg.Report.GraceMinutes,
		MaxRangeDays:   cfg.Report.MaxRangeDays,
		ArchiveEnabled: cfg.Report.ArchiveEnabled,
	})

	scheduler := cron.NewScheduler(ctx)
	if cfg.Report.ArchiveEnabled {
		cron.NewReportJobs(reportSvc).RegisterJobs(scheduler)
	}
	scheduler.Start()
	defer scheduler.Stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         log,
		AllowedOrigins: []string{cfg.App.FrontendURL},
	}, JWTService, reportHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	slog.Info("Shutting down server")
	return server.Shutdown(shutdownCtx)
}
