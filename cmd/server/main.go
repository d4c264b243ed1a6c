package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	website "github.com/swift-add/website"
	"github.com/swift-add/website/internal/config"
	"github.com/swift-add/website/internal/handler"
	"github.com/swift-add/website/internal/repository"
	"github.com/swift-add/website/internal/repository/memstore"
	"github.com/swift-add/website/internal/scheduler"
	"github.com/swift-add/website/internal/service"
	"github.com/swift-add/website/internal/telegram"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	// Optional ops channel
	var notify service.Notifier
	var tgLogger *telegram.TelegramLogger
	if cfg.TelegramEnabled() {
		b, err := telegram.NewBot(cfg.TelegramBotToken)
		if err != nil {
			slog.Error("failed to create telegram bot", "error", err)
			os.Exit(1)
		}
		tgLogger = telegram.NewTelegramLogger(b, cfg)
		notify = tgLogger
	}

	schedule, err := cfg.CreditSchedule()
	if err != nil {
		slog.Error("invalid credit table", "error", err)
		os.Exit(1)
	}

	// Initialize services
	slotService := service.NewSlotService(store)
	queueService := service.NewQueueService(store, service.QueueConfig{
		BidIncrement: cfg.BidIncrement,
		Pricing: service.Pricing{
			MaxDiscountRatio: cfg.MaxDiscountRatio,
			MinPaymentFloor:  cfg.MinPaymentFloor,
		},
		MemoPrefix:          cfg.PaymentMemoPrefix,
		RequirePaymentProof: cfg.RequirePaymentProof,
	}, nil, notify)
	activationService := service.NewActivationService(store, notify)
	trackerService := service.NewTrackerService(store, service.TrackerConfig{
		Milestones:     config.Milestones,
		Schedule:       schedule,
		ClockTolerance: cfg.ViewClockTolerance,
	})
	ledgerService := service.NewLedgerService(store, notify)

	h := handler.New(handler.Deps{
		Cfg:        cfg,
		Slots:      slotService,
		Queue:      queueService,
		Activation: activationService,
		Tracker:    trackerService,
		Ledger:     ledgerService,
		Limiter:    store,
	})

	// Server-owned activation so slots turn over without client polling
	if cfg.SchedulerEnabled {
		go scheduler.New(activationService, cfg.SchedulerInterval).Run(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           h.Routes(),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	go func() {
		slog.Info("starting http server", "addr", srv.Addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown", "error", err)
	}
	if tgLogger != nil {
		tgLogger.Wait()
	}
	slog.Info("server stopped gracefully")
}

// openStore connects the configured backend. Postgres is migrated before use.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func()) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		slog.Warn("using in-memory store, state is lost on restart")
		return memstore.New(), func() {}
	}

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Run migrations
	migrationsFS, err := fs.Sub(website.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	return repository.NewPgStore(pool), pool.Close
}
