package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedLab creates a lab with a unique name. Returns a filled domain.Lab.
func SeedLab(t *testing.T, pool *pgxpool.Pool) domain.Lab {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	room := "R-" + suffix
	lab := domain.Lab{
		ID:        uuid.New(),
		Name:      "Lab " + suffix,
		Room:      &room,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO labs (id, name, room, created_at) VALUES ($1, $2, $3, $4)`,
		lab.ID, lab.Name, lab.Room, lab.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLab insert lab: %v", err)
	}

	return lab
}

// SeedPC creates a PC in the given lab. Returns a filled domain.PC.
func SeedPC(t *testing.T, pool *pgxpool.Pool, labID uuid.UUID) domain.PC {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	pc := domain.PC{
		ID:           uuid.New(),
		LabID:        &labID,
		UniqueID:     "pc-" + suffix,
		Hostname:     "host-" + suffix,
		RegisteredAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO pcs (id, lab_id, unique_id, hostname, registered_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		pc.ID, pc.LabID, pc.UniqueID, pc.Hostname, pc.RegisteredAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPC insert pc: %v", err)
	}

	return pc
}

// SeedPeripheral creates a peripheral on the given PC with no status assigned
// yet (status is NULL). Returns a filled domain.Peripheral.
func SeedPeripheral(t *testing.T, pool *pgxpool.Pool, pcID uuid.UUID) domain.Peripheral {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	p := domain.Peripheral{
		ID:        uuid.New(),
		PCID:      pcID,
		UniqueID:  "usb-" + suffix,
		Name:      "Test Device " + suffix,
		Kind:      domain.PeripheralKindMouse,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO peripherals (id, pc_id, unique_id, name, kind, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.PCID, p.UniqueID, p.Name, string(p.Kind), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPeripheral insert peripheral: %v", err)
	}

	return p
}

// SeedPeripheralWithStatus creates a peripheral already in the given status,
// with a matching first history row. Returns a filled domain.Peripheral.
func SeedPeripheralWithStatus(t *testing.T, pool *pgxpool.Pool, pcID uuid.UUID, status domain.PeripheralStatus) domain.Peripheral {
	t.Helper()
	ctx := context.Background()

	p := SeedPeripheral(t, pool, pcID)

	now := time.Now().UTC().Truncate(time.Microsecond)
	changedBy := "seeder"

	_, err := pool.Exec(ctx,
		`UPDATE peripherals
		 SET status = $2, status_updated_by = $3, status_updated_at = $4
		 WHERE id = $1`,
		p.ID, string(status), changedBy, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPeripheralWithStatus update status: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO peripheral_status_history (id, peripheral_id, old_status, new_status, changed_by, created_at)
		 VALUES ($1, $2, NULL, $3, $4, $5)`,
		uuid.New(), p.ID, string(status), changedBy, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPeripheralWithStatus insert history: %v", err)
	}

	p.Status = &status
	p.StatusUpdatedBy = &changedBy
	p.StatusUpdatedAt = &now
	return p
}

// SeedAlert creates an unacknowledged alert for the given peripheral.
// Returns a filled domain.Alert.
func SeedAlert(t *testing.T, pool *pgxpool.Pool, peripheralID uuid.UUID, kind domain.PeripheralStatus) domain.Alert {
	t.Helper()
	ctx := context.Background()

	a := domain.Alert{
		ID:           uuid.New(),
		PeripheralID: peripheralID,
		Kind:         kind,
		Message:      "test alert " + uniqueSuffix(),
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO alerts (id, peripheral_id, kind, message, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.PeripheralID, string(a.Kind), a.Message, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAlert insert alert: %v", err)
	}

	return a
}
