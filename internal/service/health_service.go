package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"sahara/internal/domain"
	"sahara/internal/heuristics"
	"sahara/internal/langdetect"
	"sahara/internal/provider"
)

// Disclaimer accompanies every symptom analysis.
const Disclaimer = "This is not medical advice. Please consult a healthcare professional for proper diagnosis and treatment."

// EmergencyMessage accompanies the emergency symptom list.
const EmergencyMessage = "If experiencing any of these symptoms, seek immediate medical attention."

const (
	maxTips      = 10
	tipIcon      = "health_and_safety"
	tipTitleLen  = 50
	defaultTitle = "Health Tip"
)

// SymptomInput is the DTO for symptom analysis. DurationDays wins over the
// free-text Duration when both are set.
type SymptomInput struct {
	Symptoms           []string
	Severity           string
	Duration           string
	DurationDays       int
	Age                int
	Gender             string
	ExistingConditions []string
	Medications        []string
	Language           string
}

// TipsInput is the DTO for health tips generation.
type TipsInput struct {
	Category     string
	Language     string
	Personalized bool
	Profile      map[string]string
}

// TipsResult is a parsed list of AI-generated tips.
type TipsResult struct {
	Tips         []domain.HealthTip `json:"tips"`
	Category     string             `json:"category"`
	Language     domain.Language    `json:"language"`
	Personalized bool               `json:"personalized"`
	ModelUsed    string             `json:"model_used"`
}

// EmergencySymptoms is the static list of symptoms needing immediate care.
type EmergencySymptoms struct {
	Symptoms []string `json:"emergency_symptoms"`
	Message  string   `json:"message"`
}

// HealthService defines the symptom analysis, risk prediction and health tips contract.
type HealthService interface {
	AnalyzeSymptoms(ctx context.Context, input *SymptomInput) (*domain.SymptomAnalysis, error)
	Predict(ctx context.Context, input *PredictInput) (*domain.HealthPrediction, error)
	Tips(ctx context.Context, input *TipsInput) (*TipsResult, error)
	Categories(language string) []domain.HealthCategory
	EmergencySymptoms(language string) *EmergencySymptoms
}

type healthService struct {
	completer Completer
	assessor  *heuristics.Assessor
	detector  *langdetect.Detector
	validator *jsonValidator
	log       zerolog.Logger
}

// NewHealthService creates a new HealthService implementation.
func NewHealthService(completer Completer, assessor *heuristics.Assessor, detector *langdetect.Detector, logger zerolog.Logger) (HealthService, error) {
	v, err := newJSONValidator(analysisSchemaURL, analysisSchema)
	if err != nil {
		return nil, err
	}
	return &healthService{
		completer: completer,
		assessor:  assessor,
		detector:  detector,
		validator: v,
		log:       logger.With().Str("component", "service.health").Logger(),
	}, nil
}

func (s *healthService) AnalyzeSymptoms(ctx context.Context, input *SymptomInput) (*domain.SymptomAnalysis, error) {
	symptoms := cleanList(input.Symptoms)
	if len(symptoms) == 0 {
		return nil, domain.InvalidInputf("at least one symptom is required")
	}
	severity := domain.Severity(strings.ToLower(strings.TrimSpace(input.Severity)))
	if !domain.ValidSeverities[severity] {
		return nil, domain.InvalidInputf("severity must be one of mild, moderate, severe")
	}
	if input.DurationDays < 0 {
		return nil, domain.InvalidInputf("duration_days must not be negative")
	}
	if input.Age < 0 || input.Age > 150 {
		return nil, domain.InvalidInputf("age must be between 0 and 150")
	}
	days := input.DurationDays
	if days == 0 {
		days, _ = heuristics.ParseDurationDays(input.Duration)
	}

	prior := s.assessor.AssessRisk(symptoms, severity, days)
	if prior.RiskLevel == domain.RiskEmergency {
		s.log.Warn().
			Strs("matched", prior.MatchedSymptoms).
			Msg("emergency symptoms matched, skipping AI analysis")
		return &domain.SymptomAnalysis{Assessment: prior, Disclaimer: Disclaimer}, nil
	}

	lang := s.detector.Resolve(input.Language, strings.Join(symptoms, " "))
	resp, err := s.completer.Complete(ctx, provider.CompletionInput{
		Message:     symptomPrompt(symptoms, severity, input),
		Language:    lang,
		MedicalMode: true,
		Options:     provider.Options{Temperature: provider.Temperature(0.2), JSONOutput: true},
	})
	if err != nil {
		return nil, err
	}

	analysis := &domain.SymptomAnalysis{
		ModelUsed:    resp.Model,
		ProviderUsed: resp.ProviderUsed,
		Disclaimer:   Disclaimer,
	}

	var ai aiAnalysis
	if err := s.validator.decode(resp.Text, &ai); err != nil {
		s.log.Warn().Err(err).Str("model", resp.Model).Msg("AI analysis did not match schema, keeping heuristic level")
		text := strings.TrimSpace(resp.Text)
		analysis.Assessment = prior
		analysis.Assessment.Recommendation = text
		analysis.Analysis = text
		return analysis, nil
	}

	aiLevel := heuristics.ParseRiskLevel(ai.RiskLevel)
	analysis.Assessment = s.assessor.Reconcile(prior, aiLevel)
	// The level is bounded by the rules. The model's wording is kept only when
	// its level survived, otherwise the table text matches the clipped level.
	if rec := strings.TrimSpace(ai.Recommendation); rec != "" && analysis.Assessment.RiskLevel == aiLevel {
		analysis.Assessment.Recommendation = rec
	}
	analysis.AISuggestedLevel = aiLevel
	analysis.Analysis = ai.Analysis
	if analysis.Analysis == "" {
		analysis.Analysis = ai.Recommendation
	}
	for _, c := range ai.PossibleConditions {
		analysis.PossibleConditions = append(analysis.PossibleConditions, domain.PossibleCondition{
			Condition:   strings.TrimSpace(c.Condition),
			Probability: c.Probability,
		})
	}

	s.log.Info().
		Str("heuristic_level", string(prior.RiskLevel)).
		Str("ai_level", string(aiLevel)).
		Str("final_level", string(analysis.Assessment.RiskLevel)).
		Str("source", string(analysis.Assessment.Source)).
		Msg("symptoms analyzed")
	return analysis, nil
}

func (s *healthService) Tips(ctx context.Context, input *TipsInput) (*TipsResult, error) {
	category := strings.ToLower(strings.TrimSpace(input.Category))
	if category != "" && !s.assessor.Tables().HasCategory(category) {
		return nil, domain.InvalidInputf("unknown health category %q", input.Category)
	}
	lang, err := parseLanguage(input.Language, domain.LanguageEnglish)
	if err != nil {
		return nil, err
	}

	prompt := "Provide 5 helpful health tips"
	if category != "" {
		prompt += " about " + category
	}
	if input.Personalized && len(input.Profile) > 0 {
		prompt += "\n\nPersonalize for:\n" + bulletList(input.Profile)
	}
	prompt += "\n\nFormat as numbered list with brief explanations."

	resp, err := s.completer.Complete(ctx, provider.CompletionInput{
		Message:     prompt,
		Language:    lang,
		MedicalMode: true,
	})
	if err != nil {
		return nil, err
	}

	if category == "" {
		category = "general"
	}
	return &TipsResult{
		Tips:         ParseHealthTips(resp.Text),
		Category:     category,
		Language:     lang,
		Personalized: input.Personalized,
		ModelUsed:    resp.Model,
	}, nil
}

func (s *healthService) Categories(language string) []domain.HealthCategory {
	return s.assessor.Tables().Categories(domain.Language(strings.ToLower(strings.TrimSpace(language))))
}

func (s *healthService) EmergencySymptoms(language string) *EmergencySymptoms {
	lang := domain.Language(strings.ToLower(strings.TrimSpace(language)))
	return &EmergencySymptoms{
		Symptoms: s.assessor.Tables().EmergencySymptoms(lang),
		Message:  EmergencyMessage,
	}
}

// ParseHealthTips turns a numbered or bulleted list into tips. Lines of the
// form "title: description" are split; other items use their first
// characters as the title. Text without any list item becomes a single tip.
// At most ten tips are returned.
func ParseHealthTips(text string) []domain.HealthTip {
	var tips []domain.HealthTip
	for _, item := range listItems(text) {
		tip := domain.HealthTip{Description: item, Icon: tipIcon}
		if title, desc, ok := strings.Cut(item, ":"); ok {
			tip.Title = strings.TrimSpace(strings.Trim(title, "* "))
			tip.Description = strings.TrimSpace(strings.Trim(desc, "* "))
		} else {
			tip.Title = truncateRunes(strings.Trim(item, "* "), tipTitleLen)
		}
		tips = append(tips, tip)
		if len(tips) == maxTips {
			break
		}
	}
	if len(tips) == 0 {
		return []domain.HealthTip{{Title: defaultTitle, Description: strings.TrimSpace(text), Icon: tipIcon}}
	}
	return tips
}

// listItems returns the numbered or bulleted lines of text with their
// markers removed.
func listItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(line)
		if !unicode.IsDigit(first) && first != '-' && first != '•' && first != '*' {
			continue
		}
		if item := strings.TrimSpace(strings.TrimLeft(line, "0123456789.-•*) ")); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func symptomPrompt(symptoms []string, severity domain.Severity, input *SymptomInput) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following symptoms and provide health insights:\n\n")
	sb.WriteString("Symptoms: " + strings.Join(symptoms, ", "))
	if d := strings.TrimSpace(input.Duration); d != "" {
		sb.WriteString("\nDuration: " + d)
	} else if input.DurationDays > 0 {
		sb.WriteString("\nDuration: " + strconv.Itoa(input.DurationDays) + " days")
	}
	if severity != domain.SeverityUnspecified {
		sb.WriteString("\nSeverity: " + string(severity))
	}

	info := map[string]string{}
	if input.Age > 0 {
		info["age"] = strconv.Itoa(input.Age)
	}
	if g := strings.TrimSpace(input.Gender); g != "" {
		info["gender"] = g
	}
	if c := cleanList(input.ExistingConditions); len(c) > 0 {
		info["existing_conditions"] = strings.Join(c, ", ")
	}
	if m := cleanList(input.Medications); len(m) > 0 {
		info["current_medications"] = strings.Join(m, ", ")
	}
	if len(info) > 0 {
		sb.WriteString("\n\nAdditional Information:\n" + bulletList(info))
	}

	sb.WriteString(`

Respond with a single JSON object and nothing else, using these fields:
- "risk_level": one of "low", "medium", "high"
- "recommendation": one or two sentences of care advice
- "analysis": a short explanation for the patient
- "possible_conditions": a list of {"condition": string, "probability": number between 0 and 1}`)
	return sb.String()
}

// bulletList renders m as "- key: value" lines in key order.
func bulletList(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("- %s: %s", k, m[k]))
	}
	return strings.Join(lines, "\n")
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
