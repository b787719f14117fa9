package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/smartstock/smartstock/internal/analytics"
	"github.com/smartstock/smartstock/internal/app"
	"github.com/smartstock/smartstock/internal/documents"
	jobmetrics "github.com/smartstock/smartstock/internal/jobs"
	"github.com/smartstock/smartstock/internal/masterdata/departments"
	"github.com/smartstock/smartstock/internal/masterdata/items"
	"github.com/smartstock/smartstock/internal/masterdata/suppliers"
	"github.com/smartstock/smartstock/internal/platform/db"
	"github.com/smartstock/smartstock/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	analyticsService := analytics.NewService(analytics.Sources{
		Items:       items.NewService(items.NewRepository(pool), nil, logger),
		Suppliers:   suppliers.NewService(suppliers.NewRepository(pool)),
		Departments: departments.NewService(departments.NewRepository(pool)),
		Documents:   documents.NewRepository(pool),
	}, analytics.ReportOptions{
		LowStockThreshold: decimal.NewFromInt(int64(cfg.LowStockThreshold)),
		MinStock:          cfg.MinStockLevel,
		MaxStock:          cfg.MaxStockLevel,
	})

	metrics := jobmetrics.NewMetrics(nil)
	mailer := jobs.NewSMTPMailer(jobs.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPFrom,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
	})

	var cron []jobs.CronRegistration
	if cfg.LowStockAlertEmail != "" && cfg.LowStockCron != "" {
		cron = append(cron, jobs.CronRegistration{Spec: cfg.LowStockCron, Task: jobs.NewLowStockDigestTask()})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSendEmail, Handler: jobs.SendEmailHandler{Mailer: mailer, Logger: logger, Metrics: metrics}},
			{Type: jobs.TaskLowStockDigest, Handler: jobs.LowStockDigestHandler{
				Source:    analyticsService,
				Mailer:    mailer,
				Recipient: cfg.LowStockAlertEmail,
				Logger:    logger,
				Metrics:   metrics,
			}},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.Int("cron_entries", len(cron)))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
