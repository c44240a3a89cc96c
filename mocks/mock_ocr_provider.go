package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sahara/internal/domain"
	"sahara/internal/port"
)

// MockOCRProvider is a mock implementation of port.OCRProvider.
type MockOCRProvider struct {
	mock.Mock
}

func (m *MockOCRProvider) Recognize(ctx context.Context, input port.OCRInput) (*domain.RecognizedDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecognizedDocument), args.Error(1)
}

func (m *MockOCRProvider) Name() string {
	args := m.Called()
	return args.String(0)
}
