package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appidentity "github.com/crewpay/backend/internal/application/identity"
	appledger "github.com/crewpay/backend/internal/application/ledger"
	appscheduling "github.com/crewpay/backend/internal/application/scheduling"
	"github.com/crewpay/backend/internal/domain/ledger"
	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/crewpay/backend/internal/infrastructure/auth"
	"github.com/crewpay/backend/internal/infrastructure/cache"
	"github.com/crewpay/backend/internal/infrastructure/config"
	"github.com/crewpay/backend/internal/infrastructure/logger"
	"github.com/crewpay/backend/internal/infrastructure/payment"
	"github.com/crewpay/backend/internal/infrastructure/persistence"
	"github.com/crewpay/backend/internal/interfaces/http/handler"
	"github.com/crewpay/backend/internal/interfaces/http/middleware"
	"github.com/crewpay/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting CrewPay backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	eventRepo := persistence.NewGormLedgerEventRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	crewEventRepo := persistence.NewGormCrewEventRepository(db.DB)
	assignmentRepo := persistence.NewGormCrewAssignmentRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Callback idempotency store (Redis when enabled, in-memory otherwise)
	idemStore := cache.NewIdempotencyStore(cfg.Redis, log)
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// M-Pesa gateway. Without credentials the payout endpoints fail fast and
	// everything else keeps working, so a dev setup needs no Daraja account.
	var gateway ledger.PaymentGateway
	darajaConfig := payment.NewDarajaConfig(cfg.Mpesa)
	adapter, err := payment.NewDarajaAdapter(darajaConfig, cfg.Mpesa.Timeout, log)
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Daraja gateway misconfigured", zap.Error(err))
		}
		log.Warn("Daraja gateway disabled", zap.Error(err))
		gateway = payment.NewDisabledGateway()
	} else {
		gateway = adapter
		log.Info("Daraja gateway configured", zap.String("env", cfg.Mpesa.Env))
	}

	payRates := ledger.PayRates{
		BaseRate:     decimal.NewFromInt(cfg.Payroll.BaseRate),
		OvertimeRate: decimal.NewFromInt(cfg.Payroll.OvertimeRate),
	}
	idemConfig := shared.IdempotencyConfig{TTL: cfg.Mpesa.IdempotencyTTL, Enabled: true}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	ledgerService := appledger.NewLedgerService(
		txScope, eventRepo, userRepo, gateway, idemStore, idemConfig, payRates, log)
	queryService := appledger.NewQueryService(eventRepo, accountRepo)
	userService := appidentity.NewUserService(userRepo, log)
	eventService := appscheduling.NewEventService(crewEventRepo, assignmentRepo, userRepo, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r := router.NewRouter(engine, jwtService, router.WithAPIVersion("v1"))
	r.RegisterPublic(handler.NewSystemHandler(db))
	r.RegisterPublic(handler.NewPaymentCallbackHandler(ledgerService, gateway, log))
	r.Register(handler.NewLedgerHandler(ledgerService, queryService))
	r.Register(handler.NewSchedulingHandler(eventService))
	r.Register(handler.NewUserHandler(userService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// gormLogLevel maps the application log level to GORM's
func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "warn", "warning":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
