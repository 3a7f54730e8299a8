package rest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/internal/service/alerts"
	"github.com/heartmarshall/labwatch-backend/internal/service/audit"
	"github.com/heartmarshall/labwatch-backend/internal/service/detection"
	"github.com/heartmarshall/labwatch-backend/internal/service/inventory"
	"github.com/heartmarshall/labwatch-backend/internal/service/ledger"
	"github.com/heartmarshall/labwatch-backend/internal/service/settings"
)

// Hand-rolled mocks for the private service interfaces. A method panics
// when its Func field is unset, which keeps unexpected calls loud in tests.

type ledgerServiceMock struct {
	ApplyTransitionFunc     func(ctx context.Context, input ledger.TransitionInput) (*ledger.StatusChange, error)
	BulkApplyTransitionFunc func(ctx context.Context, input ledger.BulkTransitionInput) (*ledger.BulkResult, error)
	GetHistoryFunc          func(ctx context.Context, input ledger.HistoryInput) ([]domain.StatusHistoryEntry, int, error)

	ApplyCalls []ledger.TransitionInput
}

func (m *ledgerServiceMock) ApplyTransition(ctx context.Context, input ledger.TransitionInput) (*ledger.StatusChange, error) {
	m.ApplyCalls = append(m.ApplyCalls, input)
	return m.ApplyTransitionFunc(ctx, input)
}

func (m *ledgerServiceMock) BulkApplyTransition(ctx context.Context, input ledger.BulkTransitionInput) (*ledger.BulkResult, error) {
	return m.BulkApplyTransitionFunc(ctx, input)
}

func (m *ledgerServiceMock) GetHistory(ctx context.Context, input ledger.HistoryInput) ([]domain.StatusHistoryEntry, int, error) {
	return m.GetHistoryFunc(ctx, input)
}

type inventoryServiceMock struct {
	RegisterDeviceFunc  func(ctx context.Context, input inventory.RegisterDeviceInput) (domain.PC, error)
	ListPCsFunc         func(ctx context.Context, labID *uuid.UUID) ([]domain.PC, error)
	GetPCFunc           func(ctx context.Context, id uuid.UUID) (*inventory.PCDetail, error)
	ListPeripheralsFunc func(ctx context.Context, input inventory.ListPeripheralsInput) ([]domain.Peripheral, int, error)
	GetPeripheralFunc   func(ctx context.Context, id uuid.UUID) (*inventory.PeripheralDetail, error)
	UpdateRemarkFunc    func(ctx context.Context, input inventory.UpdateRemarkInput) (domain.Peripheral, error)
	CreateLabFunc       func(ctx context.Context, input inventory.CreateLabInput) (domain.Lab, error)
	ListLabsFunc        func(ctx context.Context) ([]domain.Lab, error)
	SummarizeFunc       func(ctx context.Context) (*inventory.Summary, error)

	ListPeripheralsCalls []inventory.ListPeripheralsInput
	RegisterCalls        []inventory.RegisterDeviceInput
}

func (m *inventoryServiceMock) RegisterDevice(ctx context.Context, input inventory.RegisterDeviceInput) (domain.PC, error) {
	m.RegisterCalls = append(m.RegisterCalls, input)
	return m.RegisterDeviceFunc(ctx, input)
}

func (m *inventoryServiceMock) ListPCs(ctx context.Context, labID *uuid.UUID) ([]domain.PC, error) {
	return m.ListPCsFunc(ctx, labID)
}

func (m *inventoryServiceMock) GetPC(ctx context.Context, id uuid.UUID) (*inventory.PCDetail, error) {
	return m.GetPCFunc(ctx, id)
}

func (m *inventoryServiceMock) ListPeripherals(ctx context.Context, input inventory.ListPeripheralsInput) ([]domain.Peripheral, int, error) {
	m.ListPeripheralsCalls = append(m.ListPeripheralsCalls, input)
	return m.ListPeripheralsFunc(ctx, input)
}

func (m *inventoryServiceMock) GetPeripheral(ctx context.Context, id uuid.UUID) (*inventory.PeripheralDetail, error) {
	return m.GetPeripheralFunc(ctx, id)
}

func (m *inventoryServiceMock) UpdateRemark(ctx context.Context, input inventory.UpdateRemarkInput) (domain.Peripheral, error) {
	return m.UpdateRemarkFunc(ctx, input)
}

func (m *inventoryServiceMock) CreateLab(ctx context.Context, input inventory.CreateLabInput) (domain.Lab, error) {
	return m.CreateLabFunc(ctx, input)
}

func (m *inventoryServiceMock) ListLabs(ctx context.Context) ([]domain.Lab, error) {
	return m.ListLabsFunc(ctx)
}

func (m *inventoryServiceMock) Summarize(ctx context.Context) (*inventory.Summary, error) {
	return m.SummarizeFunc(ctx)
}

type alertsServiceMock struct {
	ListFunc        func(ctx context.Context, input alerts.ListInput) ([]domain.Alert, int, error)
	ListSinceFunc   func(ctx context.Context, after time.Time) ([]domain.Alert, error)
	AcknowledgeFunc func(ctx context.Context, id uuid.UUID) (domain.Alert, error)
	DeleteFunc      func(ctx context.Context, id uuid.UUID) error
	RestoreFunc     func(ctx context.Context, id uuid.UUID) (domain.Alert, error)

	ListCalls []alerts.ListInput
}

func (m *alertsServiceMock) List(ctx context.Context, input alerts.ListInput) ([]domain.Alert, int, error) {
	m.ListCalls = append(m.ListCalls, input)
	return m.ListFunc(ctx, input)
}

func (m *alertsServiceMock) ListSince(ctx context.Context, after time.Time) ([]domain.Alert, error) {
	return m.ListSinceFunc(ctx, after)
}

func (m *alertsServiceMock) Acknowledge(ctx context.Context, id uuid.UUID) (domain.Alert, error) {
	return m.AcknowledgeFunc(ctx, id)
}

func (m *alertsServiceMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

func (m *alertsServiceMock) Restore(ctx context.Context, id uuid.UUID) (domain.Alert, error) {
	return m.RestoreFunc(ctx, id)
}

type detectionServiceMock struct {
	ProcessEventFunc func(ctx context.Context, input detection.EventInput) (*detection.EventOutcome, error)

	ProcessCalls []detection.EventInput
}

func (m *detectionServiceMock) ProcessEvent(ctx context.Context, input detection.EventInput) (*detection.EventOutcome, error) {
	m.ProcessCalls = append(m.ProcessCalls, input)
	return m.ProcessEventFunc(ctx, input)
}

type settingsServiceMock struct {
	GetFunc    func(ctx context.Context, key string) (domain.Setting, error)
	ListFunc   func(ctx context.Context) ([]domain.Setting, error)
	UpdateFunc func(ctx context.Context, input settings.UpdateInput) (domain.Setting, error)

	UpdateCalls []settings.UpdateInput
}

func (m *settingsServiceMock) Get(ctx context.Context, key string) (domain.Setting, error) {
	return m.GetFunc(ctx, key)
}

func (m *settingsServiceMock) List(ctx context.Context) ([]domain.Setting, error) {
	return m.ListFunc(ctx)
}

func (m *settingsServiceMock) Update(ctx context.Context, input settings.UpdateInput) (domain.Setting, error) {
	m.UpdateCalls = append(m.UpdateCalls, input)
	return m.UpdateFunc(ctx, input)
}

type auditServiceMock struct {
	ListFunc func(ctx context.Context, input audit.ListInput) ([]domain.AuditRecord, int, error)

	ListCalls []audit.ListInput
}

func (m *auditServiceMock) List(ctx context.Context, input audit.ListInput) ([]domain.AuditRecord, int, error) {
	m.ListCalls = append(m.ListCalls, input)
	return m.ListFunc(ctx, input)
}

type adminInventoryServiceMock struct {
	IssueRegistrationTokenFunc func(ctx context.Context, input inventory.IssueTokenInput) (*inventory.IssuedToken, error)
	ExportWorkbookFunc         func(ctx context.Context) (*excelize.File, error)
}

func (m *adminInventoryServiceMock) IssueRegistrationToken(ctx context.Context, input inventory.IssueTokenInput) (*inventory.IssuedToken, error) {
	return m.IssueRegistrationTokenFunc(ctx, input)
}

func (m *adminInventoryServiceMock) ExportWorkbook(ctx context.Context) (*excelize.File, error) {
	return m.ExportWorkbookFunc(ctx)
}
