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

	"github.com/go-playground/validator/v10"

	"github.com/iec-msi/quotation-backend/internal/app"
	"github.com/iec-msi/quotation-backend/internal/auth"
	"github.com/iec-msi/quotation-backend/internal/gatesso"
	"github.com/iec-msi/quotation-backend/internal/masterdata/accessories"
	"github.com/iec-msi/quotation-backend/internal/masterdata/bankaccounts"
	"github.com/iec-msi/quotation-backend/internal/masterdata/products"
	"github.com/iec-msi/quotation-backend/internal/platform/cache"
	"github.com/iec-msi/quotation-backend/internal/platform/db"
	"github.com/iec-msi/quotation-backend/internal/sales/customers"
	"github.com/iec-msi/quotation-backend/internal/sales/quotations"
	"github.com/iec-msi/quotation-backend/internal/shared"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr, "quotation-api")
	if err != nil {
		logger.Warn("redis unavailable, directory cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	validate := validator.New()
	auditLogger := shared.NewAuditLogger(pool)

	link := gatesso.NewLink(pool, cfg.GateSSODSN, logger)
	nameCache := gatesso.NewNameCache(redisClient, cfg.DirectoryCacheTTL)
	directory := gatesso.NewDirectory(link, nameCache, logger)

	customerRepo := customers.NewRepository(pool)
	customerService := customers.NewService(customerRepo)

	quotationRepo := quotations.NewRepository(pool, cfg.OrgCode)
	quotationValidator := quotations.NewValidator(quotationRepo)
	quotationComposer := quotations.NewComposer(quotationRepo, customerService, directory)
	quotationService := quotations.NewService(quotationRepo, quotationValidator, quotationComposer, auditLogger, logger)

	productService := products.NewService(products.NewRepository(pool))
	accessoryService := accessories.NewService(accessories.NewRepository(pool))
	bankAccountService := bankaccounts.NewService(bankaccounts.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Auth:               auth.NewMiddleware(logger),
		QuotationHandler:   quotations.NewHandler(logger, quotationService, validate),
		ProductHandler:     products.NewHandler(logger, productService, validate),
		AccessoryHandler:   accessories.NewHandler(logger, accessoryService, validate),
		BankAccountHandler: bankaccounts.NewHandler(logger, bankAccountService, validate),
		CustomerHandler:    customers.NewHandler(logger, customerService, validate),
		DirectoryHandler:   gatesso.NewHandler(logger, directory),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server run", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
}
