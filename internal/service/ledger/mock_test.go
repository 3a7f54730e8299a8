package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// Hand-rolled mocks for the private interfaces. A method panics when its
// Func field is unset, which keeps unexpected calls loud in tests.

type peripheralRepoMock struct {
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (domain.Peripheral, error)
	GetByUniqueIDFunc func(ctx context.Context, uniqueID string) (domain.Peripheral, error)
	LockByIDFunc      func(ctx context.Context, id uuid.UUID) (domain.Peripheral, error)
	UpdateStatusFunc  func(ctx context.Context, id uuid.UUID, params domain.StatusUpdateParams) error

	LockByIDCalls     []uuid.UUID
	UpdateStatusCalls []domain.StatusUpdateParams
}

func (m *peripheralRepoMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Peripheral, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *peripheralRepoMock) GetByUniqueID(ctx context.Context, uniqueID string) (domain.Peripheral, error) {
	return m.GetByUniqueIDFunc(ctx, uniqueID)
}

func (m *peripheralRepoMock) LockByID(ctx context.Context, id uuid.UUID) (domain.Peripheral, error) {
	m.LockByIDCalls = append(m.LockByIDCalls, id)
	return m.LockByIDFunc(ctx, id)
}

func (m *peripheralRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, params domain.StatusUpdateParams) error {
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, params)
	return m.UpdateStatusFunc(ctx, id, params)
}

type historyRepoMock struct {
	AppendFunc           func(ctx context.Context, e *domain.StatusHistoryEntry) (domain.StatusHistoryEntry, error)
	ListByPeripheralFunc func(ctx context.Context, peripheralID uuid.UUID, limit, offset int) ([]domain.StatusHistoryEntry, int, error)

	AppendCalls []domain.StatusHistoryEntry
}

func (m *historyRepoMock) Append(ctx context.Context, e *domain.StatusHistoryEntry) (domain.StatusHistoryEntry, error) {
	m.AppendCalls = append(m.AppendCalls, *e)
	return m.AppendFunc(ctx, e)
}

func (m *historyRepoMock) ListByPeripheral(ctx context.Context, peripheralID uuid.UUID, limit, offset int) ([]domain.StatusHistoryEntry, int, error) {
	return m.ListByPeripheralFunc(ctx, peripheralID, limit, offset)
}

type raiseCall struct {
	PeripheralID uuid.UUID
	Status       domain.PeripheralStatus
	At           time.Time
}

type alertRaiserMock struct {
	RaiseFunc func(ctx context.Context, peripheralID uuid.UUID, status domain.PeripheralStatus, at time.Time) (domain.Alert, error)

	RaiseCalls []raiseCall
}

func (m *alertRaiserMock) Raise(ctx context.Context, peripheralID uuid.UUID, status domain.PeripheralStatus, at time.Time) (domain.Alert, error) {
	m.RaiseCalls = append(m.RaiseCalls, raiseCall{PeripheralID: peripheralID, Status: status, At: at})
	return m.RaiseFunc(ctx, peripheralID, status, at)
}

type auditLoggerMock struct {
	LogFunc func(ctx context.Context, rec *domain.AuditRecord) error

	LogCalls []domain.AuditRecord
}

func (m *auditLoggerMock) Log(ctx context.Context, rec *domain.AuditRecord) error {
	m.LogCalls = append(m.LogCalls, *rec)
	return m.LogFunc(ctx, rec)
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTxFunc(ctx, fn)
}

// passthroughTx runs the transaction body directly on the same context.
func passthroughTx() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}
