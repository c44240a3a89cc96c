package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sahara/internal/domain"
	"sahara/internal/provider"
)

// MockCompleter is a mock implementation of service.Completer.
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, in provider.CompletionInput) (*domain.ProviderResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderResponse), args.Error(1)
}
