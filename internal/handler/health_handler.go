package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sahara/internal/service"
)

// HealthHandler handles symptom analysis and health information endpoints.
type HealthHandler struct {
	healthService service.HealthService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(healthService service.HealthService) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

// AnalyzeSymptoms handles POST /api/v1/health/analyze-symptoms
// @Summary Analyze symptoms
// @Description Assess risk with keyword and heuristic rules, then enrich with AI analysis. Emergencies skip the AI call.
// @Tags health
// @Accept json
// @Produce json
// @Param request body AnalyzeSymptomsRequest true "Symptoms and patient context"
// @Success 200 {object} Response{data=domain.SymptomAnalysis} "Risk assessment"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 503 {object} ErrorResponseBody "All AI providers unavailable"
// @Router /health/analyze-symptoms [post]
func (h *HealthHandler) AnalyzeSymptoms(c *gin.Context) {
	var req AnalyzeSymptomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "symptoms are required; severity must be mild, moderate or severe; age must be 0-150")
		return
	}

	result, err := h.healthService.AnalyzeSymptoms(c.Request.Context(), &service.SymptomInput{
		Symptoms:           req.Symptoms,
		Severity:           req.Severity,
		Duration:           req.Duration,
		DurationDays:       req.DurationDays,
		Age:                req.Age,
		Gender:             req.Gender,
		ExistingConditions: req.ExistingConditions,
		Medications:        req.Medications,
		Language:           req.Language,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Predict handles POST /api/v1/health/predict
// @Summary Predict health risks
// @Description Risk factors come from the submitted metrics, history and lifestyle; predicted conditions come from the AI answer.
// @Tags health
// @Accept json
// @Produce json
// @Param request body PredictRequest true "Health metrics, history and lifestyle"
// @Success 200 {object} Response{data=domain.HealthPrediction} "Prediction"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 503 {object} ErrorResponseBody "All AI providers unavailable"
// @Router /health/predict [post]
func (h *HealthHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "health_metrics is required; language must be en or bn")
		return
	}

	result, err := h.healthService.Predict(c.Request.Context(), &service.PredictInput{
		HealthMetrics:    req.HealthMetrics,
		MedicalHistory:   req.MedicalHistory,
		LifestyleFactors: req.LifestyleFactors,
		FamilyHistory:    req.FamilyHistory,
		Language:         req.Language,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Tips handles GET /api/v1/health/tips
// @Summary Generate health tips
// @Tags health
// @Produce json
// @Param category query string false "Category id from /health/categories"
// @Param language query string false "Language (en, bn)" default(en)
// @Param personalized query bool false "Personalize using profile[...] query values"
// @Success 200 {object} Response{data=service.TipsResult} "Tips"
// @Failure 400 {object} ErrorResponseBody "Unknown category or language"
// @Failure 503 {object} ErrorResponseBody "All AI providers unavailable"
// @Router /health/tips [get]
func (h *HealthHandler) Tips(c *gin.Context) {
	personalized := false
	if v := c.Query("personalized"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "personalized must be true or false")
			return
		}
		personalized = b
	}

	result, err := h.healthService.Tips(c.Request.Context(), &service.TipsInput{
		Category:     c.Query("category"),
		Language:     c.Query("language"),
		Personalized: personalized,
		Profile:      c.QueryMap("profile"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Categories handles GET /api/v1/health/categories
// @Summary List health tip categories
// @Tags health
// @Produce json
// @Param language query string false "Language (en, bn)" default(en)
// @Success 200 {object} Response{data=[]domain.HealthCategory} "Categories"
// @Router /health/categories [get]
func (h *HealthHandler) Categories(c *gin.Context) {
	RespondOK(c, h.healthService.Categories(c.Query("language")))
}

// EmergencySymptoms handles GET /api/v1/health/emergency-symptoms
// @Summary List emergency symptoms
// @Tags health
// @Produce json
// @Param language query string false "Language (en, bn)" default(en)
// @Success 200 {object} Response{data=service.EmergencySymptoms} "Emergency symptoms"
// @Router /health/emergency-symptoms [get]
func (h *HealthHandler) EmergencySymptoms(c *gin.Context) {
	RespondOK(c, h.healthService.EmergencySymptoms(c.Query("language")))
}
