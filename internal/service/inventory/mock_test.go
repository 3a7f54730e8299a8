package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// Hand-rolled mocks for the private interfaces. A method panics when its
// Func field is unset, which keeps unexpected calls loud in tests.

type labRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (domain.Lab, error)
	ListFunc    func(ctx context.Context) ([]domain.Lab, error)
	CreateFunc  func(ctx context.Context, lab *domain.Lab) (domain.Lab, error)

	CreateCalls []domain.Lab
}

func (m *labRepoMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Lab, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *labRepoMock) List(ctx context.Context) ([]domain.Lab, error) {
	return m.ListFunc(ctx)
}

func (m *labRepoMock) Create(ctx context.Context, lab *domain.Lab) (domain.Lab, error) {
	m.CreateCalls = append(m.CreateCalls, *lab)
	return m.CreateFunc(ctx, lab)
}

type pcRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (domain.PC, error)
	ListFunc    func(ctx context.Context, labID *uuid.UUID) ([]domain.PC, error)
	CreateFunc  func(ctx context.Context, pc *domain.PC) (domain.PC, error)

	CreateCalls []domain.PC
}

func (m *pcRepoMock) GetByID(ctx context.Context, id uuid.UUID) (domain.PC, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *pcRepoMock) List(ctx context.Context, labID *uuid.UUID) ([]domain.PC, error) {
	return m.ListFunc(ctx, labID)
}

func (m *pcRepoMock) Create(ctx context.Context, pc *domain.PC) (domain.PC, error) {
	m.CreateCalls = append(m.CreateCalls, *pc)
	return m.CreateFunc(ctx, pc)
}

type remarkCall struct {
	ID     uuid.UUID
	Remark *string
}

type peripheralRepoMock struct {
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (domain.Peripheral, error)
	ListByPCFunc      func(ctx context.Context, pcID uuid.UUID) ([]domain.Peripheral, error)
	ListFunc          func(ctx context.Context, f domain.PeripheralFilter) ([]domain.Peripheral, int, error)
	CountFunc         func(ctx context.Context, labID *uuid.UUID) (int, error)
	CountByStatusFunc func(ctx context.Context, labID *uuid.UUID) ([]domain.StatusCount, error)
	CountByLabFunc    func(ctx context.Context) ([]domain.LabCount, error)
	UpdateRemarkFunc  func(ctx context.Context, id uuid.UUID, remark *string) error

	ListCalls         []domain.PeripheralFilter
	UpdateRemarkCalls []remarkCall
}

func (m *peripheralRepoMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Peripheral, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *peripheralRepoMock) ListByPC(ctx context.Context, pcID uuid.UUID) ([]domain.Peripheral, error) {
	return m.ListByPCFunc(ctx, pcID)
}

func (m *peripheralRepoMock) List(ctx context.Context, f domain.PeripheralFilter) ([]domain.Peripheral, int, error) {
	m.ListCalls = append(m.ListCalls, f)
	return m.ListFunc(ctx, f)
}

func (m *peripheralRepoMock) Count(ctx context.Context, labID *uuid.UUID) (int, error) {
	return m.CountFunc(ctx, labID)
}

func (m *peripheralRepoMock) CountByStatus(ctx context.Context, labID *uuid.UUID) ([]domain.StatusCount, error) {
	return m.CountByStatusFunc(ctx, labID)
}

func (m *peripheralRepoMock) CountByLab(ctx context.Context) ([]domain.LabCount, error) {
	return m.CountByLabFunc(ctx)
}

func (m *peripheralRepoMock) UpdateRemark(ctx context.Context, id uuid.UUID, remark *string) error {
	m.UpdateRemarkCalls = append(m.UpdateRemarkCalls, remarkCall{ID: id, Remark: remark})
	return m.UpdateRemarkFunc(ctx, id, remark)
}

type historyRepoMock struct {
	ListByPeripheralFunc func(ctx context.Context, peripheralID uuid.UUID, limit, offset int) ([]domain.StatusHistoryEntry, int, error)
}

func (m *historyRepoMock) ListByPeripheral(ctx context.Context, peripheralID uuid.UUID, limit, offset int) ([]domain.StatusHistoryEntry, int, error) {
	return m.ListByPeripheralFunc(ctx, peripheralID, limit, offset)
}

type markUsedCall struct {
	TokenID uuid.UUID
	PCID    uuid.UUID
	At      time.Time
}

type tokenRepoMock struct {
	GetByHashFunc func(ctx context.Context, hash string) (domain.RegistrationToken, error)
	CreateFunc    func(ctx context.Context, token *domain.RegistrationToken) (domain.RegistrationToken, error)
	MarkUsedFunc  func(ctx context.Context, id uuid.UUID, pcID uuid.UUID, at time.Time) error

	CreateCalls   []domain.RegistrationToken
	MarkUsedCalls []markUsedCall
}

func (m *tokenRepoMock) GetByHash(ctx context.Context, hash string) (domain.RegistrationToken, error) {
	return m.GetByHashFunc(ctx, hash)
}

func (m *tokenRepoMock) Create(ctx context.Context, token *domain.RegistrationToken) (domain.RegistrationToken, error) {
	m.CreateCalls = append(m.CreateCalls, *token)
	return m.CreateFunc(ctx, token)
}

func (m *tokenRepoMock) MarkUsed(ctx context.Context, id uuid.UUID, pcID uuid.UUID, at time.Time) error {
	m.MarkUsedCalls = append(m.MarkUsedCalls, markUsedCall{TokenID: id, PCID: pcID, At: at})
	return m.MarkUsedFunc(ctx, id, pcID, at)
}

type alertCounterMock struct {
	CountUnacknowledgedFunc func(ctx context.Context) (int, error)
}

func (m *alertCounterMock) CountUnacknowledged(ctx context.Context) (int, error) {
	return m.CountUnacknowledgedFunc(ctx)
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
