package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// Hand-rolled mocks for the private interfaces. A method panics when its
// Func field is unset, which keeps unexpected calls loud in tests.

type ackCall struct {
	ID uuid.UUID
	By string
	At time.Time
}

type alertRepoMock struct {
	GetByIDFunc     func(ctx context.Context, id uuid.UUID) (domain.Alert, error)
	ListFunc        func(ctx context.Context, f domain.AlertFilter) ([]domain.Alert, int, error)
	ListSinceFunc   func(ctx context.Context, after time.Time) ([]domain.Alert, error)
	CreateFunc      func(ctx context.Context, a *domain.Alert) (domain.Alert, error)
	AcknowledgeFunc func(ctx context.Context, id uuid.UUID, by string, at time.Time) error
	SoftDeleteFunc  func(ctx context.Context, id uuid.UUID) error
	RestoreFunc     func(ctx context.Context, id uuid.UUID) error

	CreateCalls      []domain.Alert
	AcknowledgeCalls []ackCall
	SoftDeleteCalls  []uuid.UUID
	RestoreCalls     []uuid.UUID
}

func (m *alertRepoMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Alert, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *alertRepoMock) List(ctx context.Context, f domain.AlertFilter) ([]domain.Alert, int, error) {
	return m.ListFunc(ctx, f)
}

func (m *alertRepoMock) ListSince(ctx context.Context, after time.Time) ([]domain.Alert, error) {
	return m.ListSinceFunc(ctx, after)
}

func (m *alertRepoMock) Create(ctx context.Context, a *domain.Alert) (domain.Alert, error) {
	m.CreateCalls = append(m.CreateCalls, *a)
	return m.CreateFunc(ctx, a)
}

func (m *alertRepoMock) Acknowledge(ctx context.Context, id uuid.UUID, by string, at time.Time) error {
	m.AcknowledgeCalls = append(m.AcknowledgeCalls, ackCall{ID: id, By: by, At: at})
	return m.AcknowledgeFunc(ctx, id, by, at)
}

func (m *alertRepoMock) SoftDelete(ctx context.Context, id uuid.UUID) error {
	m.SoftDeleteCalls = append(m.SoftDeleteCalls, id)
	return m.SoftDeleteFunc(ctx, id)
}

func (m *alertRepoMock) Restore(ctx context.Context, id uuid.UUID) error {
	m.RestoreCalls = append(m.RestoreCalls, id)
	return m.RestoreFunc(ctx, id)
}

type peripheralGetterMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (domain.Peripheral, error)
}

func (m *peripheralGetterMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Peripheral, error) {
	return m.GetByIDFunc(ctx, id)
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

// passthroughTx runs the callback on the caller's context, standing in for
// a real transaction.
func passthroughTx() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}
