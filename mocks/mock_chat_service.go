package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sahara/internal/service"
)

// MockChatService is a mock implementation of service.ChatService.
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Chat(ctx context.Context, input *service.ChatInput) (*service.ChatResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChatResult), args.Error(1)
}

func (m *MockChatService) Translate(ctx context.Context, input *service.TranslateInput) (*service.TranslateResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TranslateResult), args.Error(1)
}

func (m *MockChatService) ExplainTerm(ctx context.Context, input *service.ExplainTermInput) (*service.ExplainTermResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExplainTermResult), args.Error(1)
}

func (m *MockChatService) ConversationStarters(language string) []string {
	args := m.Called(language)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}
