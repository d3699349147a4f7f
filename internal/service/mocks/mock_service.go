package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kerov/travel-force/internal/models"
)

// MockAssignmentService is a mock implementation of AssignmentService
type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) ViewState(ctx context.Context, tripID string) (*models.ViewState, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ViewState), args.Error(1)
}

func (m *MockAssignmentService) SelectFlight(ctx context.Context, tripID, flightID string) error {
	args := m.Called(ctx, tripID, flightID)
	return args.Error(0)
}

func (m *MockAssignmentService) ClearFlight(ctx context.Context, tripID string) error {
	args := m.Called(ctx, tripID)
	return args.Error(0)
}

func (m *MockAssignmentService) Refresh(ctx context.Context, tripID string) error {
	args := m.Called(ctx, tripID)
	return args.Error(0)
}

func (m *MockAssignmentService) NavigateToTicket(ctx context.Context, tripID string) (*models.RecordRef, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecordRef), args.Error(1)
}
