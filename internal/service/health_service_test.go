package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sahara/internal/domain"
	"sahara/internal/heuristics"
	"sahara/internal/langdetect"
	"sahara/internal/provider"
	"sahara/internal/service"
	"sahara/mocks"
)

func newHealthService(t *testing.T, completer *mocks.MockCompleter) service.HealthService {
	t.Helper()
	svc, err := service.NewHealthService(completer, heuristics.NewAssessor(nil), langdetect.New(langdetect.Config{}), zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func TestHealthService_AnalyzeSymptoms_EmergencyNeverCallsProvider(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newHealthService(t, completer)

	for _, severity := range []string{"", "mild", "moderate", "severe"} {
		result, err := svc.AnalyzeSymptoms(context.Background(), &service.SymptomInput{
			Symptoms: []string{"Chest pain radiating to left arm", "sweating"},
			Severity: severity,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.RiskEmergency, result.Assessment.RiskLevel)
		assert.Equal(t, domain.RiskSourceKeyword, result.Assessment.Source)
		assert.Equal(t, []string{"chest pain"}, result.Assessment.MatchedSymptoms)
		assert.True(t, result.Assessment.UrgentCareNeeded)
		assert.Equal(t, service.Disclaimer, result.Disclaimer)
	}
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestHealthService_AnalyzeSymptoms_BanglaEmergency(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newHealthService(t, completer)

	result, err := svc.AnalyzeSymptoms(context.Background(), &service.SymptomInput{Symptoms: []string{"হঠাৎ শ্বাসকষ্ট হচ্ছে"}})

	require.NoError(t, err)
	assert.Equal(t, domain.RiskEmergency, result.Assessment.RiskLevel)
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestHealthService_AnalyzeSymptoms_ReconcilesAILevel(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newHealthService(t, completer)

	aiJSON := "```json\n" + `{
  "risk_level": "high",
  "recommendation": "See a doctor within a day.",
  "analysis": "Fever and cough for a few days suggest a respiratory infection.",
  "possible_conditions": [{"condition": "Influenza", "probability": 0.6}, {"condition": "Common cold"}]
}` + "\n```"
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(in provider.CompletionInput) bool {
		return in.Options.JSONOutput && in.MedicalMode &&
			strings.Contains(in.Message, "Symptoms: fever, cough") &&
			strings.Contains(in.Message, "Duration: 3 days") &&
			strings.Contains(in.Message, "- age: 40")
	})).Return(&domain.ProviderResponse{Text: aiJSON, ProviderUsed: domain.ProviderFallback, Model: "gemini-1.5-flash"}, nil)

	result, err := svc.AnalyzeSymptoms(context.Background(), &service.SymptomInput{
		Symptoms: []string{"fever", "cough"},
		Severity: "moderate",
		Duration: "3 days",
		Age:      40,
	})

	require.NoError(t, err)
	// moderate (1) + 3 days (0) = medium; AI "high" is one step up and allowed.
	assert.Equal(t, domain.RiskHigh, result.Assessment.RiskLevel)
	assert.Equal(t, domain.RiskSourceAI, result.Assessment.Source)
	assert.Equal(t, domain.RiskHigh, result.AISuggestedLevel)
	assert.Equal(t, "See a doctor within a day.", result.Assessment.Recommendation)
	assert.NotEmpty(t, result.Assessment.Recommendations)
	assert.Equal(t, "Fever and cough for a few days suggest a respiratory infection.", result.Analysis)
	assert.Equal(t, []domain.PossibleCondition{{Condition: "Influenza", Probability: 0.6}, {Condition: "Common cold"}}, result.PossibleConditions)
	assert.Equal(t, domain.ProviderFallback, result.ProviderUsed)
	assert.Equal(t, "gemini-1.5-flash", result.ModelUsed)
	completer.AssertExpectations(t)
}

func TestHealthService_AnalyzeSymptoms_KeepsAIRecommendationAtPriorLevel(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newHealthService(t, completer)

	completer.On("Complete", mock.Anything, mock.Anything).Return(reply(`{
  "risk_level": "medium",
  "recommendation": "  Drink fluids and see a GP if fever lasts past 3 days.  ",
  "analysis": "Likely a viral fever."
}`), nil)

	result, err := svc.AnalyzeSymptoms(context.Background(), &service.SymptomInput{
		Symptoms: []string{"fever"},
		Severity: "moderate",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RiskMedium, result.Assessment.RiskLevel)
	assert.Equal(t, domain.RiskSourceHeuristic, result.Assessment.Source)
	assert.Equal(t, "Drink fluids and see a GP if fever lasts past 3 days.", result.Assessment.Recommendation)
	assert.NotContains(t, result.Assessment.Recommendations, result.Assessment.Recommendation)
}

func TestHealthService_AnalyzeSymptoms_ClipsAIEmergency(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newHealthService(t, completer)

	completer.On("Complete", mock.Anything, mock.Anything).
		Return(reply(`{"risk_level": "emergency", "recommendation": "Go to the ER."}`), nil)

	result, err := svc.AnalyzeSymptoms(context.Background(), &service.SymptomInput{Symptoms: []string{"headache"}, Severity: "mild"})

	require.NoError(t, err)
	// low prior: AI emergency clips to high, then to one step above low.
	assert.Equal(t, domain.RiskMedium, result.Assessment.RiskLevel)
	assert.Equal(t, domain.RiskEmergency, result.AISuggestedLevel)
	assert.Equal(t, "Go to the ER.", result.Analysis)
	require.NotEmpty(t, result.Assessment.Recommendations)
	assert.Equal(t, result.Assessment.Recommendations[0], result.Assessment.Recommendation)
	assert.NotEqual(t, "Go to the ER.", result.Assessment.Recommendation)
}

func TestHealthService_AnalyzeSymptoms_InvalidJSONKeepsHeuristicLevel(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"prose", "You probably have a cold. Rest and drink fluids."},
		{"missing required field", `{"risk_level": "low"}`},
		{"probability out of range", `{"risk_level": "low", "recommendation": "Rest", "possible_conditions": [{"condition": "Cold", "probability": 7}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(mocks.MockCompleter)
			svc := newHealthService(t, completer)
			completer.On("Complete", mock.Anything, mock.Anything).Return(reply(tt.text), nil)

			result, err := svc.AnalyzeSymptoms(context.Background(), &service.SymptomInput{
				Symptoms:     []string{"runny nose"},
				Severity:     "severe",
				DurationDays: 2,
			})

			require.NoError(t, err)
			assert.Equal(t, domain.RiskHigh, result.Assessment.RiskLevel)
			assert.Equal(t, domain.RiskSourceHeuristic, result.Assessment.Source)
			assert.Equal(t, tt.text, result.Assessment.Recommendation)
			assert.Empty(t, result.AISuggestedLevel)
		})
	}
}

func TestHealthService_AnalyzeSymptoms_ProviderUnavailable(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newHealthService(t, completer)

	completer.On("Complete", mock.Anything, mock.Anything).
		Return(nil, &domain.ProviderUnavailableError{Primary: errors.New("503")})

	_, err := svc.AnalyzeSymptoms(context.Background(), &service.SymptomInput{Symptoms: []string{"fatigue"}})

	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable))
}

func TestHealthService_AnalyzeSymptoms_Validation(t *testing.T) {
	svc := newHealthService(t, new(mocks.MockCompleter))

	for _, in := range []*service.SymptomInput{
		{Symptoms: nil},
		{Symptoms: []string{" ", ""}},
		{Symptoms: []string{"cough"}, Severity: "unbearable"},
		{Symptoms: []string{"cough"}, DurationDays: -1},
		{Symptoms: []string{"cough"}, Age: 200},
	} {
		_, err := svc.AnalyzeSymptoms(context.Background(), in)
		assert.True(t, errors.Is(err, domain.ErrInputInvalid), "input %+v", in)
	}
}

func TestHealthService_Tips(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newHealthService(t, completer)

	completer.On("Complete", mock.Anything, mock.MatchedBy(func(in provider.CompletionInput) bool {
		return strings.HasPrefix(in.Message, "Provide 5 helpful health tips about sleep") &&
			strings.Contains(in.Message, "- age: 62") &&
			in.Language == domain.LanguageEnglish
	})).Return(reply("Here are some tips:\n1. **Keep a schedule**: Go to bed at the same time.\n2. Avoid screens before bed\n- Limit caffeine: No coffee after 2pm."), nil)

	result, err := svc.Tips(context.Background(), &service.TipsInput{
		Category:     "Sleep",
		Personalized: true,
		Profile:      map[string]string{"age": "62"},
	})

	require.NoError(t, err)
	assert.Equal(t, "sleep", result.Category)
	assert.True(t, result.Personalized)
	require.Len(t, result.Tips, 3)
	assert.Equal(t, domain.HealthTip{Title: "Keep a schedule", Description: "Go to bed at the same time.", Icon: "health_and_safety"}, result.Tips[0])
	assert.Equal(t, "Avoid screens before bed", result.Tips[1].Title)
	assert.Equal(t, "Limit caffeine", result.Tips[2].Title)
}

func TestHealthService_Tips_UnknownCategory(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newHealthService(t, completer)

	_, err := svc.Tips(context.Background(), &service.TipsInput{Category: "astrology"})

	assert.True(t, errors.Is(err, domain.ErrInputInvalid))
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestParseHealthTips(t *testing.T) {
	t.Run("fallback single tip", func(t *testing.T) {
		tips := service.ParseHealthTips("Drink eight glasses of water a day.")
		assert.Equal(t, []domain.HealthTip{{Title: "Health Tip", Description: "Drink eight glasses of water a day.", Icon: "health_and_safety"}}, tips)
	})

	t.Run("at most ten", func(t *testing.T) {
		var sb strings.Builder
		for i := 0; i < 15; i++ {
			sb.WriteString("- tip\n")
		}
		assert.Len(t, service.ParseHealthTips(sb.String()), 10)
	})

	t.Run("long title truncated by rune", func(t *testing.T) {
		long := strings.Repeat("ঘ", 80)
		tips := service.ParseHealthTips("• " + long)
		require.Len(t, tips, 1)
		assert.Equal(t, strings.Repeat("ঘ", 50), tips[0].Title)
		assert.Equal(t, long, tips[0].Description)
	})
}

func TestHealthService_StaticLists(t *testing.T) {
	svc := newHealthService(t, new(mocks.MockCompleter))

	cats := svc.Categories("bn")
	require.Len(t, cats, 6)
	assert.Equal(t, "পুষ্টি", cats[0].Name)
	assert.Equal(t, "Nutrition", svc.Categories("fr")[0].Name)

	em := svc.EmergencySymptoms("en")
	assert.Equal(t, "Chest pain or pressure", em.Symptoms[0])
	assert.Equal(t, service.EmergencyMessage, em.Message)
}
