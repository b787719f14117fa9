package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/smartstock/smartstock/internal/analytics"
	analytichttp "github.com/smartstock/smartstock/internal/analytics/http"
	"github.com/smartstock/smartstock/internal/app"
	"github.com/smartstock/smartstock/internal/auth"
	"github.com/smartstock/smartstock/internal/documents"
	"github.com/smartstock/smartstock/internal/inventory"
	"github.com/smartstock/smartstock/internal/masterdata"
	"github.com/smartstock/smartstock/internal/masterdata/categories"
	"github.com/smartstock/smartstock/internal/masterdata/departments"
	"github.com/smartstock/smartstock/internal/masterdata/items"
	"github.com/smartstock/smartstock/internal/masterdata/suppliers"
	"github.com/smartstock/smartstock/internal/observability"
	"github.com/smartstock/smartstock/internal/platform/cache"
	"github.com/smartstock/smartstock/internal/platform/db"
	"github.com/smartstock/smartstock/internal/platform/storage"
	"github.com/smartstock/smartstock/internal/procurement"
	"github.com/smartstock/smartstock/internal/rbac"
	"github.com/smartstock/smartstock/internal/shared"
	"github.com/smartstock/smartstock/jobs"
)

type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool); err != nil {
		logger.Error("migrate", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "smartstock_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	rbacMiddleware := rbac.Middleware{Logger: logger}
	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(pool)
	idempotency := shared.NewIdempotencyStore(pool)
	go pruneIdempotencyKeys(ctx, idempotency, logger)

	uploads, err := storage.NewDisk(cfg.UploadDir, "/uploads", cfg.MaxUploadBytes)
	if err != nil {
		logger.Error("init uploads", slog.Any("error", err))
		os.Exit(1)
	}

	authService := auth.NewService(auth.NewRepository(pool), auth.NewOTPStore(redisClient, cfg.OTPTTL, cfg.OTPResetTTL), jobClient)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager, rbacMiddleware)

	documentRepo := documents.NewRepository(pool)
	documentService := documents.NewService(documentRepo, auditLogger,
		documents.WithNumberAttempts(cfg.DocumentNumberAttempts),
		documents.WithStrictNumbers(cfg.StrictNumbers),
		documents.WithConflictObserver(func(kind documents.Kind) {
			metrics.DocumentNumberConflict(string(kind))
		}),
	)

	itemService := items.NewService(items.NewRepository(pool), uploads, logger)
	supplierService := suppliers.NewService(suppliers.NewRepository(pool))
	departmentService := departments.NewService(departments.NewRepository(pool))
	masterDataHandler := &masterdata.Handler{
		Items:       items.NewHandler(logger, itemService, rbacMiddleware),
		Categories:  categories.NewHandler(logger, categories.NewService(categories.NewRepository(pool)), rbacMiddleware),
		Suppliers:   suppliers.NewHandler(logger, supplierService, rbacMiddleware),
		Departments: departments.NewHandler(logger, departmentService, rbacMiddleware),
		RBAC:        rbacMiddleware,
	}

	analyticsService := analytics.NewService(analytics.Sources{
		Items:       itemService,
		Suppliers:   supplierService,
		Departments: departmentService,
		Documents:   documentRepo,
	}, analytics.ReportOptions{
		LowStockThreshold: decimal.NewFromInt(int64(cfg.LowStockThreshold)),
		MinStock:          cfg.MinStockLevel,
		MaxStock:          cfg.MaxStockLevel,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		AuthHandler:        authHandler,
		ProcurementHandler: procurement.NewHandler(logger, documentService, rbacMiddleware),
		InventoryHandler:   inventory.NewHandler(logger, documentService, rbacMiddleware),
		MasterDataHandler:  masterDataHandler,
		AnalyticsHandler:   analytichttp.NewHandler(logger, analyticsService, rbacMiddleware),
		JobHandler:         jobs.NewHandler(inspector, logger),
		RBACMiddleware:     rbacMiddleware,
		Uploads:            uploads,
		Metrics:            metrics,
		Idempotency:        idempotency,
		Readiness: map[string]app.Pinger{
			"postgres": pool,
			"redis":    redisPinger{client: redisClient},
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// pruneIdempotencyKeys drops keys older than a day, once per hour.
func pruneIdempotencyKeys(ctx context.Context, store *shared.IdempotencyStore, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx, 24*time.Hour); err != nil {
				logger.Warn("prune idempotency keys", slog.Any("error", err))
			}
		}
	}
}
