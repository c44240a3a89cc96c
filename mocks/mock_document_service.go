package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sahara/internal/domain"
	"sahara/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) ProcessOCR(ctx context.Context, input *service.OCRInput) (*service.OCRResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OCRResult), args.Error(1)
}

func (m *MockDocumentService) ProcessMedicalDocument(ctx context.Context, input *service.MedicalDocumentInput) (*domain.DocumentResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentResult), args.Error(1)
}

func (m *MockDocumentService) StructureText(ctx context.Context, input *service.StructureInput) (*domain.DocumentResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentResult), args.Error(1)
}

func (m *MockDocumentService) Export(ctx context.Context, input *service.ExportInput) (*service.ExportOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportOutput), args.Error(1)
}
