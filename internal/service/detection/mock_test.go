package detection

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/internal/service/ledger"
)

// Hand-rolled mocks for the private interfaces. A method panics when its
// Func field is unset, which keeps unexpected calls loud in tests.

type pcRepoMock struct {
	GetByUniqueIDFunc func(ctx context.Context, uniqueID string) (domain.PC, error)
	TouchLastSeenFunc func(ctx context.Context, id uuid.UUID, at time.Time) error

	TouchCalls []touchCall
}

type touchCall struct {
	ID uuid.UUID
	At time.Time
}

func (m *pcRepoMock) GetByUniqueID(ctx context.Context, uniqueID string) (domain.PC, error) {
	return m.GetByUniqueIDFunc(ctx, uniqueID)
}

func (m *pcRepoMock) TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.TouchCalls = append(m.TouchCalls, touchCall{ID: id, At: at})
	return m.TouchLastSeenFunc(ctx, id, at)
}

type peripheralRepoMock struct {
	GetByUniqueIDFunc       func(ctx context.Context, uniqueID string) (domain.Peripheral, error)
	CreateFunc              func(ctx context.Context, p *domain.Peripheral) (domain.Peripheral, error)
	ListUnpluggedBeforeFunc func(ctx context.Context, cutoff time.Time) ([]domain.Peripheral, error)

	CreateCalls []domain.Peripheral
}

func (m *peripheralRepoMock) GetByUniqueID(ctx context.Context, uniqueID string) (domain.Peripheral, error) {
	return m.GetByUniqueIDFunc(ctx, uniqueID)
}

func (m *peripheralRepoMock) Create(ctx context.Context, p *domain.Peripheral) (domain.Peripheral, error) {
	m.CreateCalls = append(m.CreateCalls, *p)
	return m.CreateFunc(ctx, p)
}

func (m *peripheralRepoMock) ListUnpluggedBefore(ctx context.Context, cutoff time.Time) ([]domain.Peripheral, error) {
	return m.ListUnpluggedBeforeFunc(ctx, cutoff)
}

type eventRepoMock struct {
	InsertFunc     func(ctx context.Context, e *domain.USBEvent) (domain.USBEvent, error)
	CountSinceFunc func(ctx context.Context, peripheralUniqueID string, since time.Time) (int, int, error)

	InsertCalls     []domain.USBEvent
	CountSinceCalls []countSinceCall
}

type countSinceCall struct {
	UniqueID string
	Since    time.Time
}

func (m *eventRepoMock) Insert(ctx context.Context, e *domain.USBEvent) (domain.USBEvent, error) {
	m.InsertCalls = append(m.InsertCalls, *e)
	return m.InsertFunc(ctx, e)
}

func (m *eventRepoMock) CountSince(ctx context.Context, peripheralUniqueID string, since time.Time) (int, int, error) {
	m.CountSinceCalls = append(m.CountSinceCalls, countSinceCall{UniqueID: peripheralUniqueID, Since: since})
	return m.CountSinceFunc(ctx, peripheralUniqueID, since)
}

type transitionApplierMock struct {
	ApplyTransitionFunc func(ctx context.Context, input ledger.TransitionInput) (*ledger.StatusChange, error)

	ApplyCalls []ledger.TransitionInput
}

func (m *transitionApplierMock) ApplyTransition(ctx context.Context, input ledger.TransitionInput) (*ledger.StatusChange, error) {
	m.ApplyCalls = append(m.ApplyCalls, input)
	return m.ApplyTransitionFunc(ctx, input)
}

type paramsSourceMock struct {
	DetectionParamsFunc func(ctx context.Context) (domain.DetectionParams, error)
}

func (m *paramsSourceMock) DetectionParams(ctx context.Context) (domain.DetectionParams, error) {
	return m.DetectionParamsFunc(ctx)
}

type auditLoggerMock struct {
	LogFunc func(ctx context.Context, rec *domain.AuditRecord) error

	LogCalls []domain.AuditRecord
}

func (m *auditLoggerMock) Log(ctx context.Context, rec *domain.AuditRecord) error {
	m.LogCalls = append(m.LogCalls, *rec)
	return m.LogFunc(ctx, rec)
}
