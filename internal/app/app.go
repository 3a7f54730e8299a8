package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/labwatch-backend/internal/adapter/postgres"
	alertrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/alert"
	auditrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/audit"
	labrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/lab"
	pcrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/pc"
	peripheralrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/peripheral"
	regtokenrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/regtoken"
	settingsrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/settings"
	historyrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/statushistory"
	usbeventrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/usbevent"
	"github.com/heartmarshall/labwatch-backend/internal/auth"
	"github.com/heartmarshall/labwatch-backend/internal/config"
	"github.com/heartmarshall/labwatch-backend/internal/service/alerts"
	auditsvc "github.com/heartmarshall/labwatch-backend/internal/service/audit"
	"github.com/heartmarshall/labwatch-backend/internal/service/detection"
	"github.com/heartmarshall/labwatch-backend/internal/service/inventory"
	"github.com/heartmarshall/labwatch-backend/internal/service/ledger"
	settingssvc "github.com/heartmarshall/labwatch-backend/internal/service/settings"
	"github.com/heartmarshall/labwatch-backend/internal/transport/middleware"
	"github.com/heartmarshall/labwatch-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// repositories, services, and HTTP transport together, starts the missing
// sweep in the background, and serves until ctx is canceled or the
// listener fails.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	// Repositories.
	labs := labrepo.New(pool)
	pcs := pcrepo.New(pool)
	peripherals := peripheralrepo.New(pool)
	history := historyrepo.New(pool)
	alertStore := alertrepo.New(pool)
	events := usbeventrepo.New(pool)
	tokens := regtokenrepo.New(pool)
	settingsStore := settingsrepo.New(pool)
	auditStore := auditrepo.New(pool)

	// Services. The audit repo doubles as the audit logger every writing
	// service records into.
	alertSvc := alerts.NewService(logger, alertStore, peripherals, auditStore, txm)
	ledgerSvc := ledger.NewService(logger, peripherals, history, alertSvc, auditStore, txm)
	settingsSvc := settingssvc.NewService(logger, settingsStore, auditStore, txm)
	inventorySvc := inventory.NewService(logger, labs, pcs, peripherals, history, tokens, alertStore, auditStore, txm)
	inventorySvc.SetDefaultTokenTTL(cfg.Auth.RegistrationTokenTTL)
	inventorySvc.SetExportRowLimit(cfg.Export.MaxRows)
	detectionSvc := detection.NewService(logger, pcs, peripherals, events, ledgerSvc, settingsSvc, auditStore)
	auditSvc := auditsvc.NewService(logger, auditStore)

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	// HTTP transport.
	alertsHandler := rest.NewAlertsHandler(alertSvc, logger)
	alertsHandler.SetStreamPollInterval(cfg.Alerts.StreamPollInterval)

	handlers := rest.Handlers{
		Ledger:    rest.NewLedgerHandler(ledgerSvc, logger),
		Inventory: rest.NewInventoryHandler(inventorySvc, logger),
		Alerts:    alertsHandler,
		Events:    rest.NewEventsHandler(detectionSvc, logger),
		Admin:     rest.NewAdminHandler(settingsSvc, auditSvc, inventorySvc, logger),
		Health:    rest.NewHealthHandler(pool, BuildVersion()),
	}

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Logger(logger),
	}
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		defer limiter.Stop()
		mws = append(mws, limiter.Limit(cfg.RateLimit.PerMinute))
	}
	mws = append(mws, middleware.Auth(verifier))

	router := rest.NewRouter(handlers, middleware.Chain(mws...))

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Background missing sweep.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go runSweeper(sweepCtx, detectionSvc, cfg.Detection.SweepInterval, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Alert streams that never drain can hold graceful shutdown past
		// the deadline; close them hard rather than fail the exit.
		logger.Warn("graceful shutdown incomplete, closing", slog.String("error", err.Error()))
		_ = srv.Close()
	}

	logger.Info("server stopped")
	return nil
}

// runSweeper periodically flips long-unplugged peripherals to missing.
func runSweeper(ctx context.Context, svc *detection.Service, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.SweepMissing(ctx)
			if err != nil {
				logger.Error("missing sweep failed", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Info("missing sweep applied", slog.Int("peripherals", n))
			}
		}
	}
}
