package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sahara/internal/domain"
	"sahara/internal/service"
)

// MockWellnessService is a mock implementation of service.WellnessService.
type MockWellnessService struct {
	mock.Mock
}

func (m *MockWellnessService) Plan(ctx context.Context, input *service.PlanInput) (*domain.FitnessPlan, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FitnessPlan), args.Error(1)
}

func (m *MockWellnessService) FamilyInsights(ctx context.Context, input *service.FamilyInsightsInput) (*domain.FamilyInsights, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FamilyInsights), args.Error(1)
}

func (m *MockWellnessService) FamilyReport(ctx context.Context, input *service.FamilyReportInput) (*domain.FamilyReport, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FamilyReport), args.Error(1)
}
