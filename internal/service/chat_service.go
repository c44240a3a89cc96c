package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sahara/internal/domain"
	"sahara/internal/langdetect"
	"sahara/internal/provider"
)

// Completer is the provider orchestrator as seen by the services.
type Completer interface {
	Complete(ctx context.Context, in provider.CompletionInput) (*domain.ProviderResponse, error)
}

// ChatInput is the DTO for a chat turn. Language may be "auto" or empty to
// detect it from Message.
type ChatInput struct {
	Message     string
	Language    string
	History     []domain.ConversationTurn
	Context     map[string]string
	MedicalMode bool
}

// ChatResult is the reply plus follow-up suggestions.
type ChatResult struct {
	Response    *domain.ProviderResponse
	Suggestions []string
}

// TranslateInput is the DTO for translating between supported languages.
type TranslateInput struct {
	Text   string
	Source string
	Target string
}

// TranslateResult is a completed translation.
type TranslateResult struct {
	Original   string          `json:"original"`
	Translated string          `json:"translated"`
	Source     domain.Language `json:"source_language"`
	Target     domain.Language `json:"target_language"`
	ModelUsed  string          `json:"model_used"`
}

// ExplainTermInput is the DTO for explaining a medical term.
type ExplainTermInput struct {
	Term     string
	Language string
	Detailed bool
}

// ExplainTermResult is a medical term explanation.
type ExplainTermResult struct {
	Term        string          `json:"term"`
	Explanation string          `json:"explanation"`
	Language    domain.Language `json:"language"`
	ModelUsed   string          `json:"model_used"`
}

// ChatService defines the conversational assistant contract.
type ChatService interface {
	Chat(ctx context.Context, input *ChatInput) (*ChatResult, error)
	Translate(ctx context.Context, input *TranslateInput) (*TranslateResult, error)
	ExplainTerm(ctx context.Context, input *ExplainTermInput) (*ExplainTermResult, error)
	ConversationStarters(language string) []string
}

type chatService struct {
	completer Completer
	detector  *langdetect.Detector
	log       zerolog.Logger
}

// NewChatService creates a new ChatService implementation.
func NewChatService(completer Completer, detector *langdetect.Detector, logger zerolog.Logger) ChatService {
	return &chatService{
		completer: completer,
		detector:  detector,
		log:       logger.With().Str("component", "service.chat").Logger(),
	}
}

func (s *chatService) Chat(ctx context.Context, input *ChatInput) (*ChatResult, error) {
	msg := strings.TrimSpace(input.Message)
	if msg == "" {
		return nil, domain.InvalidInputf("message is required")
	}
	lang := s.detector.Resolve(input.Language, msg)

	resp, err := s.completer.Complete(ctx, provider.CompletionInput{
		Message:     msg,
		History:     input.History,
		Language:    lang,
		MedicalMode: input.MedicalMode,
		Context:     input.Context,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("language", string(lang)).
		Str("provider_used", string(resp.ProviderUsed)).
		Str("model", resp.Model).
		Int("failed_attempts", len(resp.Failed)).
		Dur("latency", resp.Latency).
		Msg("chat completed")

	return &ChatResult{Response: resp, Suggestions: followUpSuggestions(msg, lang)}, nil
}

func (s *chatService) Translate(ctx context.Context, input *TranslateInput) (*TranslateResult, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, domain.InvalidInputf("message is required")
	}
	src, err := parseLanguage(input.Source, domain.LanguageEnglish)
	if err != nil {
		return nil, err
	}
	dst, err := parseLanguage(input.Target, domain.LanguageBangla)
	if err != nil {
		return nil, err
	}
	if src == dst {
		return nil, domain.InvalidInputf("source and target language are both %q", src)
	}

	prompt := fmt.Sprintf("Translate the following %s text to %s. Only provide the translation, nothing else:\n\n%s",
		languageNames[src], languageNames[dst], text)
	resp, err := s.completer.Complete(ctx, provider.CompletionInput{
		Message:  prompt,
		Language: dst,
	})
	if err != nil {
		return nil, err
	}
	return &TranslateResult{
		Original:   text,
		Translated: strings.TrimSpace(resp.Text),
		Source:     src,
		Target:     dst,
		ModelUsed:  resp.Model,
	}, nil
}

func (s *chatService) ExplainTerm(ctx context.Context, input *ExplainTermInput) (*ExplainTermResult, error) {
	term := strings.TrimSpace(input.Term)
	if term == "" {
		return nil, domain.InvalidInputf("term is required")
	}
	lang := s.detector.Resolve(input.Language, term)

	prompt := fmt.Sprintf("Explain the medical term '%s' in simple, easy-to-understand language that a non-medical person can understand.", term)
	if input.Detailed {
		prompt = fmt.Sprintf("Explain the medical term '%s' in detail.", term)
	}
	resp, err := s.completer.Complete(ctx, provider.CompletionInput{
		Message:     prompt,
		Language:    lang,
		MedicalMode: true,
	})
	if err != nil {
		return nil, err
	}
	return &ExplainTermResult{
		Term:        term,
		Explanation: strings.TrimSpace(resp.Text),
		Language:    lang,
		ModelUsed:   resp.Model,
	}, nil
}

func (s *chatService) ConversationStarters(language string) []string {
	if lang, _ := parseLanguage(language, domain.LanguageEnglish); lang == domain.LanguageBangla {
		return append([]string(nil), startersBN...)
	}
	return append([]string(nil), startersEN...)
}

var languageNames = map[domain.Language]string{
	domain.LanguageEnglish: "English",
	domain.LanguageBangla:  "Bangla",
}

// parseLanguage accepts a supported language code; empty yields def.
func parseLanguage(s string, def domain.Language) (domain.Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def, nil
	}
	lang := domain.Language(s)
	if !domain.SupportedLanguages[lang] {
		return "", domain.InvalidInputf("unsupported language %q", s)
	}
	return lang, nil
}

var (
	startersEN = []string{
		"What are the symptoms of diabetes?",
		"How can I improve my health?",
		"Tell me about high blood pressure",
		"What causes headaches?",
		"How to maintain a healthy diet?",
	}
	startersBN = []string{
		"আমার স্বাস্থ্য সম্পর্কে কিছু জানতে চাই",
		"ডায়াবেটিস সম্পর্কে জানতে চাই",
		"কীভাবে সুস্থ থাকব?",
		"মাথাব্যথার কারণ কী হতে পারে?",
		"উচ্চ রক্তচাপ কীভাবে নিয়ন্ত্রণ করব?",
	}
)

type suggestionRule struct {
	keywords    []string
	suggestions []string
}

var suggestionRules = map[domain.Language][]suggestionRule{
	domain.LanguageEnglish: {
		{
			keywords:    []string{"diabetes"},
			suggestions: []string{"Tell me about diabetes prevention", "What are diabetes management tips?", "Explain diabetes complications"},
		},
		{
			keywords:    []string{"blood pressure", "hypertension"},
			suggestions: []string{"How to lower blood pressure naturally?", "What foods help with blood pressure?", "Explain blood pressure readings"},
		},
		{
			keywords:    []string{"symptom"},
			suggestions: []string{"Should I see a doctor?", "What are the treatment options?", "Are there home remedies?"},
		},
	},
	domain.LanguageBangla: {
		{
			keywords:    []string{"ডায়াবেটিস", "diabetes"},
			suggestions: []string{"ডায়াবেটিস প্রতিরোধ সম্পর্কে জানুন", "ডায়াবেটিস নিয়ন্ত্রণের উপায়", "ডায়াবেটিসের জটিলতা"},
		},
	},
}

var defaultSuggestions = map[domain.Language][]string{
	domain.LanguageEnglish: {"Would you like more details?", "Do you have any other questions?"},
	domain.LanguageBangla:  {"আরও বিস্তারিত জানতে চান?", "অন্য কিছু জানতে চান?"},
}

// followUpSuggestions picks canned follow-ups by keyword, first rule wins.
func followUpSuggestions(message string, lang domain.Language) []string {
	lower := strings.ToLower(message)
	for _, rule := range suggestionRules[lang] {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return append([]string(nil), rule.suggestions...)
			}
		}
	}
	return append([]string(nil), defaultSuggestions[lang]...)
}
