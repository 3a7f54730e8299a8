// Package seeder fills a development database with demo labs, PCs, and
// peripherals. It drives the same services the API uses, so registration
// tokens are spent, history entries appended, and alerts raised exactly as
// they would be in production. Re-running it skips what already exists.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/internal/service/detection"
	"github.com/heartmarshall/labwatch-backend/internal/service/inventory"
	"github.com/heartmarshall/labwatch-backend/internal/service/ledger"
	"github.com/heartmarshall/labwatch-backend/pkg/ctxutil"
)

// seederActor is the identity recorded for every write the seeder causes.
const seederActor = "seeder"

// ---------------------------------------------------------------------------
// Service contracts
// ---------------------------------------------------------------------------

// InventoryService is the slice of the inventory service the seeder drives.
// Implemented by inventory.Service.
type InventoryService interface {
	ListLabs(ctx context.Context) ([]domain.Lab, error)
	CreateLab(ctx context.Context, input inventory.CreateLabInput) (domain.Lab, error)
	IssueRegistrationToken(ctx context.Context, input inventory.IssueTokenInput) (*inventory.IssuedToken, error)
	RegisterDevice(ctx context.Context, input inventory.RegisterDeviceInput) (domain.PC, error)
}

// EventService ingests the synthetic USB events that create peripherals.
// Implemented by detection.Service.
type EventService interface {
	ProcessEvent(ctx context.Context, input detection.EventInput) (*detection.EventOutcome, error)
}

// TransitionService applies the seeded status spread.
// Implemented by ledger.Service.
type TransitionService interface {
	ApplyTransition(ctx context.Context, input ledger.TransitionInput) (*ledger.StatusChange, error)
}

// Stats counts what a run created.
type Stats struct {
	Labs        int
	PCs         int
	Peripherals int
	Transitions int
}

// ---------------------------------------------------------------------------
// Demo dataset
// ---------------------------------------------------------------------------

var demoLabs = []struct {
	name string
	room string
}{
	{"KAB-301", "301"},
	{"KAB-214", "214"},
	{"POD-105", "105"},
	{"POD-112", "112"},
	{"SRV-010", "010"},
}

// demoModels cycles through realistic devices per peripheral slot.
var demoModels = []struct {
	name   string
	kind   domain.PeripheralKind
	vidPid string
}{
	{"Logitech M105", domain.PeripheralKindMouse, "046d:c077"},
	{"Logitech K120", domain.PeripheralKindKeyboard, "046d:c31c"},
	{"Dell P2419H", domain.PeripheralKindMonitor, "413c:2513"},
	{"A4Tech OP-620D", domain.PeripheralKindMouse, "09da:9090"},
	{"HP Pavilion 300K", domain.PeripheralKindKeyboard, "03f0:034a"},
	{"Logitech C270", domain.PeripheralKindWebcam, "046d:0825"},
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

// Run seeds cfg.Labs labs with cfg.PCsPerLab PCs each. Every PC gets two
// or three peripherals, and a deterministic spread of them is moved on to
// unplugged, faulty, or missing so dashboards and alert lists have
// something to show.
func Run(ctx context.Context, cfg *Config, inv InventoryService, events EventService, transitions TransitionService, logger *slog.Logger) (*Stats, error) {
	log := logger.With("component", "seeder")
	ctx = ctxutil.WithActor(ctx, seederActor)

	labCount := cfg.Labs
	if labCount > len(demoLabs) {
		labCount = len(demoLabs)
	}

	if cfg.DryRun {
		stats := planned(labCount, cfg.PCsPerLab)
		log.Info("dry-run: no writes",
			slog.Int("labs", stats.Labs),
			slog.Int("pcs", stats.PCs),
			slog.Int("peripherals", stats.Peripherals),
		)
		return stats, nil
	}

	existing, err := inv.ListLabs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}
	labsByName := make(map[string]domain.Lab, len(existing))
	for _, l := range existing {
		labsByName[l.Name] = l
	}

	stats := &Stats{}
	seq := 0

	for li := 0; li < labCount; li++ {
		spec := demoLabs[li]

		lab, ok := labsByName[spec.name]
		if !ok {
			room := spec.room
			lab, err = inv.CreateLab(ctx, inventory.CreateLabInput{Name: spec.name, Room: &room})
			if err != nil {
				return stats, fmt.Errorf("create lab %s: %w", spec.name, err)
			}
			stats.Labs++
		}

		for pi := 0; pi < cfg.PCsPerLab; pi++ {
			pcUniqueID := fmt.Sprintf("DEMO-%s-%02d", spec.name, pi+1)
			hostname := fmt.Sprintf("%s-pc-%02d", strings.ToLower(spec.name), pi+1)

			if err := registerPC(ctx, inv, lab.ID, pcUniqueID, hostname); err != nil {
				if !errors.Is(err, domain.ErrAlreadyExists) {
					return stats, fmt.Errorf("register pc %s: %w", pcUniqueID, err)
				}
				log.Debug("pc already registered", slog.String("pc_unique_id", pcUniqueID))
			} else {
				stats.PCs++
			}

			// Two peripherals per PC, three on every other one.
			perPC := 2 + pi%2
			for di := 0; di < perPC; di++ {
				created, moved, err := seedPeripheral(ctx, events, transitions, pcUniqueID, seq)
				if err != nil {
					return stats, err
				}
				if created {
					stats.Peripherals++
				}
				stats.Transitions += moved
				seq++
			}
		}
	}

	log.Info("seeding done",
		slog.Int("labs", stats.Labs),
		slog.Int("pcs", stats.PCs),
		slog.Int("peripherals", stats.Peripherals),
		slog.Int("transitions", stats.Transitions),
	)

	return stats, nil
}

func planned(labs, pcsPerLab int) *Stats {
	stats := &Stats{Labs: labs, PCs: labs * pcsPerLab}
	for li := 0; li < labs; li++ {
		for pi := 0; pi < pcsPerLab; pi++ {
			stats.Peripherals += 2 + pi%2
		}
	}
	return stats
}

// registerPC issues a fresh one-time token and spends it immediately.
func registerPC(ctx context.Context, inv InventoryService, labID uuid.UUID, pcUniqueID, hostname string) error {
	note := fmt.Sprintf("seed %s", pcUniqueID)
	issued, err := inv.IssueRegistrationToken(ctx, inventory.IssueTokenInput{
		Note: &note,
		TTL:  time.Hour,
	})
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	_, err = inv.RegisterDevice(ctx, inventory.RegisterDeviceInput{
		Token:      issued.Raw,
		PCUniqueID: pcUniqueID,
		Hostname:   hostname,
		LabID:      &labID,
	})
	return err
}

// seedPeripheral connects one device by event and, for a deterministic
// spread of slots, moves it on to unplugged, faulty, or missing. Returns
// whether a peripheral was created and how many transitions applied.
func seedPeripheral(ctx context.Context, events EventService, transitions TransitionService, pcUniqueID string, seq int) (bool, int, error) {
	model := demoModels[seq%len(demoModels)]
	uniqueID := fmt.Sprintf("%s:DEMO%04d", model.vidPid, seq+1)
	now := time.Now().UTC()

	name := model.name
	kind := model.kind
	outcome, err := events.ProcessEvent(ctx, detection.EventInput{
		PCUniqueID:         pcUniqueID,
		PeripheralUniqueID: uniqueID,
		Kind:               domain.EventKindConnected,
		Name:               &name,
		DeviceKind:         &kind,
		ReportedAt:         now,
	})
	if err != nil {
		return false, 0, fmt.Errorf("connect %s: %w", uniqueID, err)
	}

	created := outcome.PeripheralCreated
	moved := 0

	switch {
	case seq%7 == 3:
		// An occasional faulty unit.
		n, err := apply(ctx, transitions, uniqueID, domain.PeripheralStatusFaulty, "intermittent disconnects")
		if err != nil {
			return created, moved, err
		}
		moved += n

	case seq%5 == 4:
		// An occasional unit somebody unplugged.
		n, err := disconnect(ctx, events, pcUniqueID, uniqueID, now)
		if err != nil {
			return created, moved, err
		}
		moved += n

	case seq%11 == 6:
		// An occasional unit that went missing after being unplugged.
		n, err := disconnect(ctx, events, pcUniqueID, uniqueID, now)
		if err != nil {
			return created, moved, err
		}
		moved += n
		n, err = apply(ctx, transitions, uniqueID, domain.PeripheralStatusMissing, "not found at room check")
		if err != nil {
			return created, moved, err
		}
		moved += n
	}

	return created, moved, nil
}

func disconnect(ctx context.Context, events EventService, pcUniqueID, uniqueID string, at time.Time) (int, error) {
	outcome, err := events.ProcessEvent(ctx, detection.EventInput{
		PCUniqueID:         pcUniqueID,
		PeripheralUniqueID: uniqueID,
		Kind:               domain.EventKindDisconnected,
		ReportedAt:         at.Add(time.Second),
	})
	if err != nil {
		return 0, fmt.Errorf("disconnect %s: %w", uniqueID, err)
	}
	if outcome.TransitionApplied != nil {
		return 1, nil
	}
	return 0, nil
}

// apply moves one unit and tolerates re-runs: a unit already past the
// requested status just stays where it is.
func apply(ctx context.Context, transitions TransitionService, uniqueID string, target domain.PeripheralStatus, reason string) (int, error) {
	_, err := transitions.ApplyTransition(ctx, ledger.TransitionInput{
		UniqueID: uniqueID,
		Target:   target,
		Reason:   &reason,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return 0, nil
		}
		return 0, fmt.Errorf("move %s to %s: %w", uniqueID, target, err)
	}
	return 1, nil
}
