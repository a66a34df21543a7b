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

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/currency"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	commissionService "github.com/cmlabs-hris/payroll-backend-go/internal/service/commission"
	dashboardService "github.com/cmlabs-hris/payroll-backend-go/internal/service/dashboard"
	projectService "github.com/cmlabs-hris/payroll-backend-go/internal/service/project"
	revenueService "github.com/cmlabs-hris/payroll-backend-go/internal/service/revenue"
	salaryService "github.com/cmlabs-hris/payroll-backend-go/internal/service/salary"
	settingsService "github.com/cmlabs-hris/payroll-backend-go/internal/service/settings"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	log := logger.New(logger.Options{
		App:     "payroll-backend",
		Version: cfg.App.Version,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if err := postgresql.RunMigrations(ctx, db); err != nil {
		return err
	}

	salaryCache := cache.NewNopCache()
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			slog.Warn("Redis unavailable, salary cache disabled", "error", err)
		} else {
			defer rdb.Close()
			salaryCache = cache.NewRedisCache(rdb, "payroll:")
			slog.Info("Redis connected", "host", cfg.Redis.Host, "port", cfg.Redis.Port)
		}
	}

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	projectRepo := postgresql.NewProjectRepository(db)
	historyRepo := postgresql.NewHistoryRepository(db)
	revenueRepo := postgresql.NewRevenueRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	converter, err := currency.NewConverter(cfg.Currency.USDToPKRRate)
	if err != nil {
		return fmt.Errorf("invalid seed exchange rate: %w", err)
	}
	settingsSvc := settingsService.NewSettingsService(settingsRepo, converter, cfg.Currency.USDToPKRRate)
	// seed the converter from stored settings when present
	if err := settingsSvc.SyncRate(ctx); err != nil {
		return fmt.Errorf("error loading exchange rate: %w", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	calculator := commissionService.NewCalculator()
	resolver := revenueService.NewBasisResolver(revenueRepo)
	composer := salaryService.NewComposer(resolver, projectRepo, calculator)
	generator := salaryService.NewGenerator(employeeRepo, salaryRepo, settingsSvc, converter, composer)
	recalculator := salaryService.NewRecalculator(employeeRepo, salaryRepo, settingsSvc, converter, composer)

	eventHub := sse.NewHub()
	salarySvc := salaryService.NewPublishingService(
		salaryService.NewSalaryService(generator, recalculator, salaryRepo, converter, salaryCache, cfg.Redis.SalaryCacheTTL),
		eventHub,
	)
	projectSvc := projectService.NewProjectService(transactor, projectRepo, historyRepo, employeeRepo)
	revenueSvc := revenueService.NewRevenueService(revenueRepo, projectRepo, converter)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, converter)

	router, err := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         log,
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			BatchRateLimit: cfg.RateLimit.Batch,
		},
		JWTService,
		appHTTP.Handlers{
			Salary:    appHTTP.NewSalaryHandler(salarySvc),
			Project:   appHTTP.NewProjectHandler(projectSvc),
			Revenue:   appHTTP.NewRevenueHandler(revenueSvc),
			Settings:  appHTTP.NewSettingsHandler(settingsSvc),
			Dashboard: appHTTP.NewDashboardHandler(dashboardSvc),
			Events:    appHTTP.NewEventsHandler(eventHub),
		},
	)
	if err != nil {
		return fmt.Errorf("error building router: %w", err)
	}

	scheduler := cron.NewScheduler()
	cron.NewPayrollJobs(salarySvc, settingsSvc, cron.PayrollJobsConfig{
		AutoGenerateEnabled:  cfg.Cron.AutoGenerateEnabled,
		AutoGenerateInterval: cfg.Cron.AutoGenerateInterval,
		RateSyncInterval:     cfg.Cron.RateSyncInterval,
	}).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
