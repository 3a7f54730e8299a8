package seeder

import (
	"context"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/internal/service/detection"
	"github.com/heartmarshall/labwatch-backend/internal/service/inventory"
	"github.com/heartmarshall/labwatch-backend/internal/service/ledger"
)

// Hand-rolled mocks for the service contracts. A method panics when its
// Func field is unset, which keeps unexpected calls loud in tests.

type inventoryServiceMock struct {
	ListLabsFunc  func(ctx context.Context) ([]domain.Lab, error)
	CreateLabFunc func(ctx context.Context, input inventory.CreateLabInput) (domain.Lab, error)
	IssueFunc     func(ctx context.Context, input inventory.IssueTokenInput) (*inventory.IssuedToken, error)
	RegisterFunc  func(ctx context.Context, input inventory.RegisterDeviceInput) (domain.PC, error)

	CreateLabCalls []inventory.CreateLabInput
	RegisterCalls  []inventory.RegisterDeviceInput
}

func (m *inventoryServiceMock) ListLabs(ctx context.Context) ([]domain.Lab, error) {
	return m.ListLabsFunc(ctx)
}

func (m *inventoryServiceMock) CreateLab(ctx context.Context, input inventory.CreateLabInput) (domain.Lab, error) {
	m.CreateLabCalls = append(m.CreateLabCalls, input)
	return m.CreateLabFunc(ctx, input)
}

func (m *inventoryServiceMock) IssueRegistrationToken(ctx context.Context, input inventory.IssueTokenInput) (*inventory.IssuedToken, error) {
	return m.IssueFunc(ctx, input)
}

func (m *inventoryServiceMock) RegisterDevice(ctx context.Context, input inventory.RegisterDeviceInput) (domain.PC, error) {
	m.RegisterCalls = append(m.RegisterCalls, input)
	return m.RegisterFunc(ctx, input)
}

type eventServiceMock struct {
	ProcessEventFunc func(ctx context.Context, input detection.EventInput) (*detection.EventOutcome, error)

	ProcessCalls []detection.EventInput
}

func (m *eventServiceMock) ProcessEvent(ctx context.Context, input detection.EventInput) (*detection.EventOutcome, error) {
	m.ProcessCalls = append(m.ProcessCalls, input)
	return m.ProcessEventFunc(ctx, input)
}

type transitionServiceMock struct {
	ApplyFunc func(ctx context.Context, input ledger.TransitionInput) (*ledger.StatusChange, error)

	ApplyCalls []ledger.TransitionInput
}

func (m *transitionServiceMock) ApplyTransition(ctx context.Context, input ledger.TransitionInput) (*ledger.StatusChange, error) {
	m.ApplyCalls = append(m.ApplyCalls, input)
	return m.ApplyFunc(ctx, input)
}
