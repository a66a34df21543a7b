package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
)

type PayrollJobsConfig struct {
	AutoGenerateEnabled  bool
	AutoGenerateInterval time.Duration
	RateSyncInterval     time.Duration
}

// PayrollJobs contains salary-related cron jobs
type PayrollJobs struct {
	salaryService   salary.SalaryService
	settingsService settings.SettingsService
	config          PayrollJobsConfig
	now             func() time.Time
}

func NewPayrollJobs(salaryService salary.SalaryService, settingsService settings.SettingsService, config PayrollJobsConfig) *PayrollJobs {
	return &PayrollJobs{
		salaryService:   salaryService,
		settingsService: settingsService,
		config:          config,
		now:             time.Now,
	}
}

// RegisterJobs registers all payroll cron jobs
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	// Keep the converter in line with settings changed by other instances
	scheduler.AddJob(Job{
		Name:     "sync_exchange_rate",
		Interval: j.config.RateSyncInterval,
		Timeout:  30 * time.Second,
		Fn:       j.SyncExchangeRate,
	})

	if j.config.AutoGenerateEnabled {
		scheduler.AddJob(Job{
			Name:     "generate_monthly_salaries",
			Interval: j.config.AutoGenerateInterval,
			Timeout:  10 * time.Minute,
			Fn:       j.GenerateCurrentMonth,
		})
	}
}

// GenerateCurrentMonth only adds missing salaries, so running it repeatedly is safe
func (j *PayrollJobs) GenerateCurrentMonth(ctx context.Context) error {
	month := period.FromTime(j.now())
	resp, err := j.salaryService.Generate(ctx, salary.GenerateRequest{Month: month.String()})
	if err != nil {
		return err
	}
	if resp.CreatedCount > 0 || resp.ErrorCount > 0 {
		slog.Info("Scheduled salary generation",
			"month", resp.Month,
			"created", resp.CreatedCount,
			"errors", resp.ErrorCount,
		)
	}
	return nil
}

func (j *PayrollJobs) SyncExchangeRate(ctx context.Context) error {
	return j.settingsService.SyncRate(ctx)
}
