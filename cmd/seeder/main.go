// Command seeder fills a development database with demo labs, PCs, and
// peripherals, including a spread of unplugged, faulty, and missing units.
// It is intended for local development, not production.
//
// Flags:
//
//	--labs           number of demo labs (default from config)
//	--pcs-per-lab    PCs registered per lab
//	--dry-run        print what would be seeded without writing
//	--seeder-config  path to seeder YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
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
	"github.com/heartmarshall/labwatch-backend/internal/app"
	"github.com/heartmarshall/labwatch-backend/internal/app/seeder"
	"github.com/heartmarshall/labwatch-backend/internal/config"
	"github.com/heartmarshall/labwatch-backend/internal/service/alerts"
	"github.com/heartmarshall/labwatch-backend/internal/service/detection"
	"github.com/heartmarshall/labwatch-backend/internal/service/inventory"
	"github.com/heartmarshall/labwatch-backend/internal/service/ledger"
	settingssvc "github.com/heartmarshall/labwatch-backend/internal/service/settings"
)

// Compile-time interface assertions.
var (
	_ seeder.InventoryService  = (*inventory.Service)(nil)
	_ seeder.EventService      = (*detection.Service)(nil)
	_ seeder.TransitionService = (*ledger.Service)(nil)
)

func main() {
	labsFlag := flag.Int("labs", 0, "number of demo labs (0 = config default)")
	pcsFlag := flag.Int("pcs-per-lab", 0, "PCs registered per lab (0 = config default)")
	dryRunFlag := flag.Bool("dry-run", false, "print what would be seeded without writing")
	seederConfigFlag := flag.String("seeder-config", "", "path to seeder YAML config file")
	flag.Parse()

	// Load app config (for DB connection and logging).
	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	// Load seeder config.
	seederCfg, err := seeder.LoadConfig(*seederConfigFlag)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *labsFlag > 0 {
		seederCfg.Labs = *labsFlag
	}
	if *pcsFlag > 0 {
		seederCfg.PCsPerLab = *pcsFlag
	}
	if *dryRunFlag {
		seederCfg.DryRun = true
	}
	if err := seederCfg.Validate(); err != nil {
		logger.Error("invalid seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Connect to DB.
	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	labs := labrepo.New(pool)
	pcs := pcrepo.New(pool)
	peripherals := peripheralrepo.New(pool)
	history := historyrepo.New(pool)
	alertStore := alertrepo.New(pool)
	events := usbeventrepo.New(pool)
	tokens := regtokenrepo.New(pool)
	settingsStore := settingsrepo.New(pool)
	auditStore := auditrepo.New(pool)

	alertSvc := alerts.NewService(logger, alertStore, peripherals, auditStore, txm)
	ledgerSvc := ledger.NewService(logger, peripherals, history, alertSvc, auditStore, txm)
	settingsSvc := settingssvc.NewService(logger, settingsStore, auditStore, txm)
	inventorySvc := inventory.NewService(logger, labs, pcs, peripherals, history, tokens, alertStore, auditStore, txm)
	detectionSvc := detection.NewService(logger, pcs, peripherals, events, ledgerSvc, settingsSvc, auditStore)

	stats, err := seeder.Run(ctx, seederCfg, inventorySvc, detectionSvc, ledgerSvc, logger)
	if err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Seeded %d labs, %d PCs, %d peripherals (%d status transitions).\n",
		stats.Labs, stats.PCs, stats.Peripherals, stats.Transitions)
}
