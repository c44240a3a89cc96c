// Package openai implements port.CompletionProvider for the OpenAI Chat
// Completions API and OpenAI-compatible backends such as Groq.
package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"sahara/internal/config"
	"sahara/internal/domain"
	"sahara/internal/port"
	"sahara/internal/provider"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// Provider implements port.CompletionProvider on top of go-openai.
type Provider struct {
	name   string
	model  string
	client *goopenai.Client
}

// NewProvider creates an OpenAI provider from a provider config.
func NewProvider(cfg *config.ProviderConfig) *Provider {
	return newProvider("openai", cfg, cfg.BaseURL, "gpt-4o-mini")
}

// NewGroqProvider creates a provider for Groq's OpenAI-compatible endpoint.
func NewGroqProvider(cfg *config.ProviderConfig) *Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = groqBaseURL
	}
	return newProvider("groq", cfg, baseURL, "llama-3.3-70b-versatile")
}

// NewProviderWithEndpoint creates a provider pointing at a custom base URL (for testing).
func NewProviderWithEndpoint(cfg *config.ProviderConfig, baseURL string) *Provider {
	return newProvider(cfg.Provider, cfg, baseURL, "gpt-4o-mini")
}

func newProvider(name string, cfg *config.ProviderConfig, baseURL, defaultModel string) *Provider {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	if name == "" {
		name = "openai"
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if baseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	// The orchestrator bounds each call with its own deadline; this is a backstop.
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout() + 5*time.Second}
	return &Provider{
		name:   name,
		model:  model,
		client: goopenai.NewClientWithConfig(clientCfg),
	}
}

func toRole(r domain.Role) string {
	if r == domain.RoleAssistant {
		return goopenai.ChatMessageRoleAssistant
	}
	return goopenai.ChatMessageRoleUser
}

func (p *Provider) Complete(ctx context.Context, req port.CompletionRequest) (*port.CompletionOutput, error) {
	temperature := float32(req.Temperature)
	if temperature == 0 {
		// go-openai omits a zero temperature; the smallest non-zero value keeps it.
		temperature = math.SmallestNonzeroFloat32
	}
	chatReq := goopenai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.System != "" {
		chatReq.Messages = append(chatReq.Messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		chatReq.Messages = append(chatReq.Messages, goopenai.ChatCompletionMessage{
			Role:    toRole(m.Role),
			Content: m.Content,
		})
	}
	if req.JSONOutput {
		chatReq.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, p.translateError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", provider.ErrEmptyCompletion)
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: blank message content", provider.ErrEmptyCompletion)
	}
	model := p.model
	if resp.Model != "" {
		model = resp.Model
	}

	return &port.CompletionOutput{
		Text:         text,
		ModelUsed:    model,
		FinishReason: string(resp.Choices[0].FinishReason),
	}, nil
}

// translateError maps go-openai errors onto the provider error types.
func (p *Provider) translateError(err error) error {
	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status == 0 {
		return fmt.Errorf("calling %s API: %w", p.name, err)
	}

	baseErr := fmt.Errorf("%s API error (status %d): %w", p.name, status, err)
	if status == http.StatusTooManyRequests {
		return provider.NewRateLimitError(p.name, baseErr, 0)
	}
	return baseErr
}
