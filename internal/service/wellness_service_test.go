package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sahara/internal/domain"
	"sahara/internal/provider"
	"sahara/internal/service"
	"sahara/mocks"
)

func newWellnessService(t *testing.T, completer *mocks.MockCompleter) service.WellnessService {
	t.Helper()
	svc, err := service.NewWellnessService(completer, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func planInput() *service.PlanInput {
	return &service.PlanInput{
		Age:            30,
		Gender:         "male",
		HeightCM:       175,
		WeightKG:       80,
		ActivityLevel:  "moderately active",
		Goal:           "weight_loss",
		Equipment:      "basic_home",
		WorkoutMinutes: 45,
	}
}

const planJSON = `{
  "nutrition_plan": {
    "daily_calories": 2100,
    "macronutrients": {"protein_g": 120, "carbs_g": 230, "fat_g": 60},
    "daily_plans": [
      {"day": "Monday", "meals": [
        {"meal": "Breakfast", "food": "2 ruti, 1 cup mixed vegetables", "calories": 400, "alternatives": "Oats with banana"},
        {"meal": "Lunch", "food": "1 cup rice, 100g fish curry, dal", "calories": 650}
      ]}
    ]
  },
  "supplement_plan": {"recommendations": [{"supplement": "Vitamin D", "dosage": "1000 IU daily", "reason": "Low sun exposure"}]},
  "exercise_plan": {
    "weekly_schedule": [{"day": "Monday", "activity": "Upper Body Strength", "duration_minutes": 40, "exercises": ["Push-ups", "Dumbbell Rows"]}],
    "progression_advice": "Add one set each week."
  },
  "disclaimer": "model text"
}`

func TestWellnessService_Plan(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newWellnessService(t, completer)

	completer.On("Complete", mock.Anything, mock.MatchedBy(func(in provider.CompletionInput) bool {
		return in.Options.JSONOutput && in.Options.MaxTokens == 2048 && *in.Options.Temperature == 0.7 &&
			in.System != "" &&
			strings.Contains(in.Message, "- Equipment: basic_home") &&
			strings.Contains(in.Message, "- Workout Time: 45 minutes per day") &&
			strings.Contains(in.Message, "- Dietary Preferences: None") &&
			strings.Contains(in.Message, "Standard Bangladeshi foods")
	})).Return(reply("```json\n"+planJSON+"\n```"), nil)

	plan, err := svc.Plan(context.Background(), planInput())

	require.NoError(t, err)
	assert.Equal(t, 2100.0, plan.Nutrition.DailyCalories)
	assert.Equal(t, 120.0, plan.Nutrition.Macronutrients.ProteinG)
	require.Len(t, plan.Nutrition.DailyPlans[0].Meals, 2)
	assert.Equal(t, "Oats with banana", plan.Nutrition.DailyPlans[0].Meals[0].Alternatives)
	assert.Equal(t, "Vitamin D", plan.Supplements.Recommendations[0].Supplement)
	assert.Equal(t, 40, plan.Exercise.WeeklySchedule[0].DurationMinutes)
	assert.Equal(t, service.PlanDisclaimer, plan.Disclaimer)
	assert.Equal(t, domain.ProviderPrimary, plan.ProviderUsed)
	completer.AssertExpectations(t)
}

func TestWellnessService_Plan_UnusableOutput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"prose", "Here is your plan: eat well and walk daily."},
		{"missing exercise plan", `{"nutrition_plan": {"daily_plans": [{"day": "Monday", "meals": []}]}}`},
		{"calories as text", `{"nutrition_plan": {"daily_calories": "2000 kcal", "daily_plans": [{"day": "Monday", "meals": []}]}, "exercise_plan": {"weekly_schedule": [{"day": "Monday", "activity": "Walk"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(mocks.MockCompleter)
			svc := newWellnessService(t, completer)
			completer.On("Complete", mock.Anything, mock.Anything).Return(reply(tt.text), nil)

			_, err := svc.Plan(context.Background(), planInput())

			assert.ErrorIs(t, err, domain.ErrAIResponseInvalid)
		})
	}
}

func TestWellnessService_Plan_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*service.PlanInput)
	}{
		{"age", func(in *service.PlanInput) { in.Age = 121 }},
		{"weight", func(in *service.PlanInput) { in.WeightKG = 10 }},
		{"workout minutes", func(in *service.PlanInput) { in.WorkoutMinutes = 200 }},
		{"goal", func(in *service.PlanInput) { in.Goal = " " }},
		{"language", func(in *service.PlanInput) { in.Language = "fr" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(mocks.MockCompleter)
			svc := newWellnessService(t, completer)
			in := planInput()
			tt.modify(in)

			_, err := svc.Plan(context.Background(), in)

			assert.ErrorIs(t, err, domain.ErrInputInvalid)
			completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		})
	}
}

func family() []domain.FamilyMember {
	return []domain.FamilyMember{
		{Name: "Rahima", Relationship: "mother", Age: 58, Gender: "female", ChronicDiseases: []string{"Diabetes", "Asthma"}},
		{Name: "Karim", Relationship: "father", Age: 62, ChronicDiseases: []string{"diabetes", "Hypertension"}},
		{Name: "Nadia", Relationship: "daughter"},
	}
}

func TestWellnessService_FamilyInsights(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newWellnessService(t, completer)

	aiText := "Your family shares a pattern of metabolic conditions.\n\n" +
		"1. Cut down on sweets and white rice\n" +
		"2. Walk together after dinner\n" +
		"- Check blood pressure monthly"
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(in provider.CompletionInput) bool {
		return in.MedicalMode &&
			strings.Contains(in.Message, "Chronic Conditions in Family: Diabetes, Asthma, Hypertension") &&
			strings.Contains(in.Message, "- mother, 58, female: Diabetes, Asthma") &&
			strings.Contains(in.Message, "- daughter: no chronic conditions") &&
			strings.Contains(in.Message, "Focus Areas: diet, prevention") &&
			!strings.Contains(in.Message, "Rahima")
	})).Return(reply(aiText), nil)

	result, err := svc.FamilyInsights(context.Background(), &service.FamilyInsightsInput{
		Members:    family(),
		FocusAreas: []string{"Diet", "prevention"},
	})

	require.NoError(t, err)
	require.Len(t, result.Insights, 4)
	assert.Equal(t, "general", result.Insights[0].Type)
	assert.Equal(t, domain.RiskHigh, result.Insights[0].Priority)
	assert.Equal(t, "Diabetes Management", result.Insights[1].Title)
	assert.Equal(t, "Your family shares a pattern of metabolic conditions.", result.Summary)
	assert.Equal(t, []string{
		"Cut down on sweets and white rice",
		"Walk together after dinner",
		"Check blood pressure monthly",
	}, result.Recommendations)
	assert.Equal(t, domain.RiskHigh, result.RiskAssessment.RiskLevel)
	assert.Equal(t, []string{"Diabetes", "Hypertension"}, result.RiskAssessment.RiskFactors)
	completer.AssertExpectations(t)
}

func TestWellnessService_FamilyInsights_DefaultRecommendations(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newWellnessService(t, completer)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(in provider.CompletionInput) bool {
		return strings.Contains(in.Message, "Focus Areas: general")
	})).Return(reply(strings.Repeat("অ", 600)), nil)

	result, err := svc.FamilyInsights(context.Background(), &service.FamilyInsightsInput{
		Members: []domain.FamilyMember{{Name: "A", Relationship: "self"}},
	})

	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 4)
	assert.Equal(t, strings.Repeat("অ", 500)+"...", result.Insights[0].Description)
	assert.Equal(t, domain.RiskLow, result.RiskAssessment.RiskLevel)
	assert.Equal(t, "Maintain healthy lifestyle", result.RiskAssessment.Recommendation)
}

func TestWellnessService_FamilyInsights_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input service.FamilyInsightsInput
	}{
		{"no members", service.FamilyInsightsInput{}},
		{"unnamed member", service.FamilyInsightsInput{Members: []domain.FamilyMember{{Relationship: "father"}}}},
		{"unknown focus", service.FamilyInsightsInput{Members: family(), FocusAreas: []string{"astrology"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(mocks.MockCompleter)
			svc := newWellnessService(t, completer)

			_, err := svc.FamilyInsights(context.Background(), &tt.input)

			assert.ErrorIs(t, err, domain.ErrInputInvalid)
			completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		})
	}
}

func TestAssessFamilyRisk(t *testing.T) {
	risk := service.AssessFamilyRisk([]string{"Seasonal allergies", "Asthma"})
	assert.Equal(t, domain.RiskMedium, risk.RiskLevel)
	assert.Equal(t, []string{"Asthma", "Allergies"}, risk.RiskFactors)

	risk = service.AssessFamilyRisk([]string{"হৃদরোগ"})
	assert.Equal(t, domain.RiskHigh, risk.RiskLevel)
	assert.Equal(t, []string{"Heart Disease"}, risk.RiskFactors)
}

func TestWellnessService_FamilyReport(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newWellnessService(t, completer)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(in provider.CompletionInput) bool {
		return strings.Contains(in.Message, "- Members with Conditions: 2") &&
			strings.Contains(in.Message, "- Unique Conditions: 3")
	})).Return(reply("  The family is managing diabetes well.  "), nil)

	report, err := svc.FamilyReport(context.Background(), &service.FamilyReportInput{
		Members:           family(),
		TotalRecords:      9,
		TotalEvents:       3,
		IncludeAIAnalysis: true,
	})

	require.NoError(t, err)
	m := report.KeyMetrics
	assert.Equal(t, 3, m.TotalMembers)
	assert.Equal(t, 2, m.MembersWithConditions)
	assert.Equal(t, 3, m.UniqueConditions)
	require.NotNil(t, m.AverageAge)
	assert.Equal(t, 60.0, *m.AverageAge)
	assert.Equal(t, 3.0, report.ReportData.HealthRecords.PerMember)
	assert.Equal(t, 1.0, report.ReportData.MedicalEvents.PerMember)
	assert.Equal(t, []string{"Diabetes", "Asthma"}, report.ReportData.Members[0].Conditions)
	assert.False(t, report.ReportData.GeneratedAt.IsZero())
	assert.Equal(t, "The family is managing diabetes well.", report.AISummary)
	completer.AssertExpectations(t)
}

func TestWellnessService_FamilyReport_WithoutAI(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newWellnessService(t, completer)

	report, err := svc.FamilyReport(context.Background(), &service.FamilyReportInput{TotalRecords: 4, IncludeAIAnalysis: true})

	require.NoError(t, err)
	assert.Nil(t, report.KeyMetrics.AverageAge)
	assert.Equal(t, 4.0, report.ReportData.HealthRecords.PerMember)
	assert.Empty(t, report.AISummary)
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestWellnessService_FamilyReport_SummaryFailureKeepsReport(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newWellnessService(t, completer)
	completer.On("Complete", mock.Anything, mock.Anything).Return(nil, &domain.ProviderUnavailableError{Primary: assert.AnError})

	report, err := svc.FamilyReport(context.Background(), &service.FamilyReportInput{Members: family(), IncludeAIAnalysis: true})

	require.NoError(t, err)
	assert.Empty(t, report.AISummary)
	assert.Equal(t, 3, report.KeyMetrics.TotalMembers)
}

func TestWellnessService_FamilyReport_CancelledRequest(t *testing.T) {
	completer := new(mocks.MockCompleter)
	svc := newWellnessService(t, completer)
	completer.On("Complete", mock.Anything, mock.Anything).Return(nil, context.Canceled)

	_, err := svc.FamilyReport(context.Background(), &service.FamilyReportInput{Members: family(), IncludeAIAnalysis: true})

	assert.ErrorIs(t, err, context.Canceled)
}
