package settings

import (
	"context"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// Hand-rolled mocks for the private interfaces. A method panics when its
// Func field is unset, which keeps unexpected calls loud in tests.

type settingsRepoMock struct {
	GetFunc    func(ctx context.Context, key string) (domain.Setting, error)
	ListFunc   func(ctx context.Context) ([]domain.Setting, error)
	UpsertFunc func(ctx context.Context, s *domain.Setting) (domain.Setting, error)

	UpsertCalls []domain.Setting
}

func (m *settingsRepoMock) Get(ctx context.Context, key string) (domain.Setting, error) {
	return m.GetFunc(ctx, key)
}

func (m *settingsRepoMock) List(ctx context.Context) ([]domain.Setting, error) {
	return m.ListFunc(ctx)
}

func (m *settingsRepoMock) Upsert(ctx context.Context, s *domain.Setting) (domain.Setting, error) {
	m.UpsertCalls = append(m.UpsertCalls, *s)
	return m.UpsertFunc(ctx, s)
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

func passthroughTx() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}
