// Package provider sends chat completions to a primary AI backend and falls
// back to a secondary one when the primary fails.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sahara/internal/domain"
	"sahara/internal/port"
)

// DefaultTimeout bounds a provider call when a Backend sets none.
const DefaultTimeout = 20 * time.Second

// Backend is one configured provider slot.
type Backend struct {
	Name     string
	Provider port.CompletionProvider
	Timeout  time.Duration
}

// Options tune a single completion. A nil Temperature or zero MaxTokens
// takes the orchestrator default; an explicit Temperature of 0 is kept.
type Options struct {
	Temperature *float64
	MaxTokens   int
	JSONOutput  bool
}

// Temperature returns a pointer for Options.Temperature.
func Temperature(v float64) *float64 {
	return &v
}

// CompletionInput is what callers hand to Complete. History is caller-owned.
type CompletionInput struct {
	Message     string
	History     []domain.ConversationTurn
	Language    domain.Language
	MedicalMode bool
	Context     map[string]string
	// System replaces the mode/language base prompt when set. The language
	// instruction and context block are still appended.
	System  string
	Options Options
}

// Orchestrator implements the primary-then-fallback completion sequence.
// It holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	primary   Backend
	secondary *Backend
	defaults  Options
	log       zerolog.Logger
}

// NewOrchestrator creates an Orchestrator. secondary may be nil.
func NewOrchestrator(primary Backend, secondary *Backend, defaults Options, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		primary:   primary,
		secondary: secondary,
		defaults:  defaults,
		log:       logger.With().Str("component", "provider.orchestrator").Logger(),
	}
}

// HasFallback reports whether a secondary provider is configured.
func (o *Orchestrator) HasFallback() bool {
	return o.secondary != nil
}

// BuildRequest assembles the provider-neutral request for in.
func (o *Orchestrator) BuildRequest(in CompletionInput) port.CompletionRequest {
	lang := in.Language
	if !domain.SupportedLanguages[lang] {
		lang = domain.LanguageEnglish
	}
	base := in.System
	if base == "" {
		base = SystemPrompt(lang, in.MedicalMode)
	}

	history := make([]domain.ConversationTurn, 0, len(in.History))
	for _, t := range in.History {
		if strings.TrimSpace(t.Text) != "" {
			history = append(history, t)
		}
	}
	// Without a timestamp on every turn the caller's order is kept as is.
	if allTimestamped(history) {
		sort.SliceStable(history, func(i, j int) bool {
			return history[i].Timestamp.Before(history[j].Timestamp)
		})
	}

	msgs := make([]port.Message, 0, len(history)+1)
	for _, t := range history {
		role := t.Role
		if role != domain.RoleAssistant {
			role = domain.RoleUser
		}
		msgs = append(msgs, port.Message{Role: role, Content: t.Text})
	}
	msgs = append(msgs, port.Message{Role: domain.RoleUser, Content: in.Message})

	opts := in.Options
	if opts.Temperature == nil {
		opts.Temperature = o.defaults.Temperature
	}
	var temperature float64
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = o.defaults.MaxTokens
	}

	return port.CompletionRequest{
		System:      BuildSystemInstruction(base, lang, in.Context),
		Messages:    msgs,
		Temperature: temperature,
		MaxTokens:   opts.MaxTokens,
		JSONOutput:  opts.JSONOutput || o.defaults.JSONOutput,
	}
}

// Complete asks the primary provider and, on any failure, the secondary once.
// Caller cancellation stops the sequence without trying the secondary.
func (o *Orchestrator) Complete(ctx context.Context, in CompletionInput) (*domain.ProviderResponse, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, domain.InvalidInputf("message must not be empty")
	}
	lang := in.Language
	if !domain.SupportedLanguages[lang] {
		lang = domain.LanguageEnglish
	}

	req := o.BuildRequest(in)
	at := newAttempt()
	start := time.Now()

	if err := at.advance(StatePrimaryAttempted); err != nil {
		return nil, err
	}
	out, primaryErr := o.call(ctx, o.primary, req)
	if primaryErr == nil {
		if err := at.advance(StateSucceeded); err != nil {
			return nil, err
		}
		return o.response(out, o.primary, domain.ProviderPrimary, lang, nil, start), nil
	}

	o.log.Warn().Err(primaryErr).Str("provider", o.primary.Name).Msg("primary provider failed")
	failed := []domain.ProviderAttempt{{Slot: domain.ProviderPrimary, Name: o.primary.Name, Error: primaryErr.Error()}}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if !errors.Is(primaryErr, ctxErr) {
			primaryErr = fmt.Errorf("%w: %v", ctxErr, primaryErr)
		}
		_ = at.advance(StateFailed)
		return nil, &domain.ProviderUnavailableError{Primary: primaryErr}
	}
	if o.secondary == nil {
		_ = at.advance(StateFailed)
		return nil, &domain.ProviderUnavailableError{Primary: primaryErr}
	}

	if err := at.advance(StateFallbackAttempted); err != nil {
		return nil, err
	}
	out, secondaryErr := o.call(ctx, *o.secondary, req)
	if secondaryErr == nil {
		if err := at.advance(StateSucceeded); err != nil {
			return nil, err
		}
		o.log.Info().Str("provider", o.secondary.Name).Msg("fallback provider succeeded")
		return o.response(out, *o.secondary, domain.ProviderFallback, lang, failed, start), nil
	}

	_ = at.advance(StateFailed)
	o.log.Error().Err(secondaryErr).
		Str("provider", o.secondary.Name).
		Stringer("path", at).
		Msg("fallback provider failed")
	return nil, &domain.ProviderUnavailableError{Primary: primaryErr, Secondary: secondaryErr}
}

func (o *Orchestrator) call(ctx context.Context, b Backend, req port.CompletionRequest) (*port.CompletionOutput, error) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := b.Provider.Complete(callCtx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name, err)
	}
	if out == nil || strings.TrimSpace(out.Text) == "" {
		return nil, fmt.Errorf("%s: %w", b.Name, ErrEmptyCompletion)
	}
	return out, nil
}

func (o *Orchestrator) response(out *port.CompletionOutput, b Backend, slot domain.ProviderSlot, lang domain.Language, failed []domain.ProviderAttempt, start time.Time) *domain.ProviderResponse {
	latency := time.Since(start)
	o.log.Debug().
		Str("provider", b.Name).
		Str("slot", string(slot)).
		Str("model", out.ModelUsed).
		Dur("latency", latency).
		Msg("completion succeeded")
	return &domain.ProviderResponse{
		Text:         strings.TrimSpace(out.Text),
		ProviderUsed: slot,
		ProviderName: b.Name,
		Model:        out.ModelUsed,
		Language:     lang,
		Failed:       failed,
		Latency:      latency,
	}
}

func allTimestamped(turns []domain.ConversationTurn) bool {
	for _, t := range turns {
		if t.Timestamp.IsZero() {
			return false
		}
	}
	return true
}
