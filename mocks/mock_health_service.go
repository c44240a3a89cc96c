package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sahara/internal/domain"
	"sahara/internal/service"
)

// MockHealthService is a mock implementation of service.HealthService.
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) AnalyzeSymptoms(ctx context.Context, input *service.SymptomInput) (*domain.SymptomAnalysis, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SymptomAnalysis), args.Error(1)
}

func (m *MockHealthService) Tips(ctx context.Context, input *service.TipsInput) (*service.TipsResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TipsResult), args.Error(1)
}

func (m *MockHealthService) Categories(language string) []domain.HealthCategory {
	args := m.Called(language)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.HealthCategory)
}

func (m *MockHealthService) EmergencySymptoms(language string) *service.EmergencySymptoms {
	args := m.Called(language)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*service.EmergencySymptoms)
}

func (m *MockHealthService) Predict(ctx context.Context, input *service.PredictInput) (*domain.HealthPrediction, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthPrediction), args.Error(1)
}
