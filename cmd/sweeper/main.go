// Command sweeper runs one missing-detection pass: peripherals unplugged
// longer than the configured window are flipped to missing and alerts
// raised. Intended for cron on deployments that keep the in-process
// sweeper of the server off. Safe to run concurrently with the server.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/labwatch-backend/internal/adapter/postgres"
	alertrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/alert"
	auditrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/audit"
	pcrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/pc"
	peripheralrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/peripheral"
	settingsrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/settings"
	historyrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/statushistory"
	usbeventrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/usbevent"
	"github.com/heartmarshall/labwatch-backend/internal/app"
	"github.com/heartmarshall/labwatch-backend/internal/config"
	"github.com/heartmarshall/labwatch-backend/internal/service/alerts"
	"github.com/heartmarshall/labwatch-backend/internal/service/detection"
	"github.com/heartmarshall/labwatch-backend/internal/service/ledger"
	settingssvc "github.com/heartmarshall/labwatch-backend/internal/service/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	peripherals := peripheralrepo.New(pool)
	history := historyrepo.New(pool)
	alertStore := alertrepo.New(pool)
	auditStore := auditrepo.New(pool)
	settingsStore := settingsrepo.New(pool)
	pcs := pcrepo.New(pool)
	events := usbeventrepo.New(pool)

	alertSvc := alerts.NewService(logger, alertStore, peripherals, auditStore, txm)
	ledgerSvc := ledger.NewService(logger, peripherals, history, alertSvc, auditStore, txm)
	settingsSvc := settingssvc.NewService(logger, settingsStore, auditStore, txm)
	detectionSvc := detection.NewService(logger, pcs, peripherals, events, ledgerSvc, settingsSvc, auditStore)

	n, err := detectionSvc.SweepMissing(ctx)
	if err != nil {
		logger.Error("missing sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Marked %d peripherals missing.\n", n)
}
