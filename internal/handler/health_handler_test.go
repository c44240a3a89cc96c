package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sahara/internal/domain"
	"sahara/internal/handler"
	"sahara/internal/service"
	"sahara/mocks"
)

func newHealthRouter() (*gin.Engine, *mocks.MockHealthService) {
	svc := new(mocks.MockHealthService)
	h := handler.NewHealthHandler(svc)
	r := gin.New()
	r.POST("/health/analyze-symptoms", h.AnalyzeSymptoms)
	r.POST("/health/predict", h.Predict)
	r.GET("/health/tips", h.Tips)
	r.GET("/health/categories", h.Categories)
	r.GET("/health/emergency-symptoms", h.EmergencySymptoms)
	return r, svc
}

func TestAnalyzeSymptoms_Emergency(t *testing.T) {
	r, svc := newHealthRouter()

	svc.On("AnalyzeSymptoms", mock.Anything, mock.MatchedBy(func(in *service.SymptomInput) bool {
		return len(in.Symptoms) == 1 && in.Symptoms[0] == "chest pain" && in.Age == 60
	})).Return(&domain.SymptomAnalysis{
		Assessment: domain.RiskAssessment{
			RiskLevel:        domain.RiskEmergency,
			MatchedSymptoms:  []string{"chest pain"},
			UrgentCareNeeded: true,
			Source:           domain.RiskSourceKeyword,
		},
		Disclaimer: service.Disclaimer,
	}, nil)

	w := doJSON(t, r, http.MethodPost, "/health/analyze-symptoms", map[string]interface{}{
		"symptoms": []string{"chest pain"},
		"severity": "severe",
		"age":      60,
	})

	require.Equal(t, http.StatusOK, w.Code)
	data := string(decode(t, w).Data)
	assert.Contains(t, data, `"risk_level":"emergency"`)
	assert.Contains(t, data, `"urgent_care_needed":true`)
	svc.AssertExpectations(t)
}

func TestAnalyzeSymptoms_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no symptoms", `{"symptoms":[]}`},
		{"missing symptoms", `{"severity":"mild"}`},
		{"bad severity", `{"symptoms":["cough"],"severity":"extreme"}`},
		{"age too high", `{"symptoms":["cough"],"age":200}`},
		{"negative days", `{"symptoms":["cough"],"duration_days":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := newHealthRouter()
			w := doJSON(t, r, http.MethodPost, "/health/analyze-symptoms", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "AnalyzeSymptoms", mock.Anything, mock.Anything)
		})
	}
}

func TestTips_Success(t *testing.T) {
	r, svc := newHealthRouter()

	svc.On("Tips", mock.Anything, mock.MatchedBy(func(in *service.TipsInput) bool {
		return in.Category == "nutrition" && in.Language == "bn" && in.Personalized && in.Profile["age"] == "34"
	})).Return(&service.TipsResult{
		Tips:     []domain.HealthTip{{Title: "Eat vegetables", Description: "Every day", Icon: "health_and_safety"}},
		Category: "nutrition",
		Language: domain.LanguageBangla,
	}, nil)

	w := doJSON(t, r, http.MethodGet, "/health/tips?category=nutrition&language=bn&personalized=true&profile[age]=34", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), "Eat vegetables")
	svc.AssertExpectations(t)
}

func TestTips_BadPersonalizedFlag(t *testing.T) {
	r, svc := newHealthRouter()

	w := doJSON(t, r, http.MethodGet, "/health/tips?personalized=maybe", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Tips", mock.Anything, mock.Anything)
}

func TestTips_UnknownCategory(t *testing.T) {
	r, svc := newHealthRouter()
	svc.On("Tips", mock.Anything, mock.Anything).Return(nil, domain.InvalidInputf(`unknown health category "astrology"`))

	w := doJSON(t, r, http.MethodGet, "/health/tips?category=astrology", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, w).Error.Code)
}

func TestCategoriesAndEmergencySymptoms(t *testing.T) {
	r, svc := newHealthRouter()
	svc.On("Categories", "en").Return([]domain.HealthCategory{{ID: "nutrition", Name: "Nutrition", Icon: "restaurant"}})
	svc.On("EmergencySymptoms", "bn").Return(&service.EmergencySymptoms{
		Symptoms: []string{"বুকে ব্যথা"},
		Message:  service.EmergencyMessage,
	})

	w := doJSON(t, r, http.MethodGet, "/health/categories?language=en", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"id":"nutrition"`)

	w = doJSON(t, r, http.MethodGet, "/health/emergency-symptoms?language=bn", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), "বুকে ব্যথা")
}

func TestPredict_Success(t *testing.T) {
	r, svc := newHealthRouter()

	svc.On("Predict", mock.Anything, mock.MatchedBy(func(in *service.PredictInput) bool {
		return in.HealthMetrics["bmi"] == 31.5 && in.HealthMetrics["blood_pressure"] == "150/95" &&
			in.LifestyleFactors["smoking"] == true && len(in.FamilyHistory) == 1
	})).Return(&domain.HealthPrediction{
		Predictions: []domain.PredictedCondition{{Condition: "Hypertension", Risk: domain.RiskMedium, Timeframe: service.PredictionTimeline}},
		RiskFactors: []domain.RiskFactor{{Factor: "High Blood Pressure", Impact: domain.RiskHigh}},
		Timeline:    service.PredictionTimeline,
		Disclaimer:  service.Disclaimer,
	}, nil)

	w := doJSON(t, r, http.MethodPost, "/health/predict", `{
		"health_metrics": {"bmi": 31.5, "blood_pressure": "150/95"},
		"lifestyle_factors": {"smoking": true},
		"family_history": ["heart disease"]
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	data := string(decode(t, w).Data)
	assert.Contains(t, data, `"condition":"Hypertension"`)
	assert.Contains(t, data, `"factor":"High Blood Pressure"`)
	svc.AssertExpectations(t)
}

func TestPredict_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing metrics", `{"medical_history":["asthma"]}`},
		{"bad language", `{"health_metrics":{"bmi":22},"language":"fr"}`},
		{"metrics not an object", `{"health_metrics":"bmi 22"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := newHealthRouter()
			w := doJSON(t, r, http.MethodPost, "/health/predict", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "INVALID_REQUEST", decode(t, w).Error.Code)
			svc.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
		})
	}
}

func TestPredict_ProvidersDown(t *testing.T) {
	r, svc := newHealthRouter()
	svc.On("Predict", mock.Anything, mock.Anything).Return(nil, &domain.ProviderUnavailableError{Primary: context.DeadlineExceeded})

	w := doJSON(t, r, http.MethodPost, "/health/predict", `{"health_metrics":{"bmi":22}}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "AI_UNAVAILABLE", decode(t, w).Error.Code)
}
