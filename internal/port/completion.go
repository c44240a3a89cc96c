package port

import (
	"context"

	"sahara/internal/domain"
)

// Message is one chat message in provider-neutral form.
type Message struct {
	Role    domain.Role
	Content string
}

// CompletionRequest carries everything a provider needs to generate a reply.
// Messages are in chronological order and end with the new user message.
type CompletionRequest struct {
	System      string
	Messages    []Message
	Temperature float64
	MaxTokens   int
	JSONOutput  bool
}

// CompletionOutput is the raw result of a single provider call.
type CompletionOutput struct {
	Text         string
	ModelUsed    string
	FinishReason string
}

// CompletionProvider abstracts one AI chat-completion backend.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionOutput, error)
}
