package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sahara/internal/domain"
	"sahara/internal/service"
)

// WellnessHandler handles fitness coaching and family health endpoints.
type WellnessHandler struct {
	wellnessService service.WellnessService
}

// NewWellnessHandler creates a new WellnessHandler.
func NewWellnessHandler(wellnessService service.WellnessService) *WellnessHandler {
	return &WellnessHandler{wellnessService: wellnessService}
}

// Plan handles POST /api/v1/nutrition-fitness/plan
// @Summary Generate a nutrition and fitness plan
// @Description Seven-day meal, supplement and workout plan built around locally available foods.
// @Tags wellness
// @Accept json
// @Produce json
// @Param request body PlanRequest true "Body metrics and goals"
// @Success 200 {object} Response{data=domain.FitnessPlan} "Plan"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 502 {object} ErrorResponseBody "AI returned an unusable plan"
// @Failure 503 {object} ErrorResponseBody "All AI providers unavailable"
// @Router /nutrition-fitness/plan [post]
func (h *WellnessHandler) Plan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "age, gender, height_cm, weight_kg, activity_level, goal, equipment and workout_time_minutes are required")
		return
	}

	result, err := h.wellnessService.Plan(c.Request.Context(), &service.PlanInput{
		Age:                 req.Age,
		Gender:              req.Gender,
		HeightCM:            req.HeightCM,
		WeightKG:            req.WeightKG,
		ActivityLevel:       req.ActivityLevel,
		Goal:                req.Goal,
		DietaryPreferences:  req.DietaryPreferences,
		AvailableLocalFoods: req.AvailableLocalFoods,
		Equipment:           req.Equipment,
		WorkoutMinutes:      req.WorkoutMinutes,
		Language:            req.Language,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// FamilyInsights handles POST /api/v1/family-insights/generate-insights
// @Summary Generate family health insights
// @Tags wellness
// @Accept json
// @Produce json
// @Param request body FamilyInsightsRequest true "Family members and focus areas"
// @Success 200 {object} Response{data=domain.FamilyInsights} "Insights"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 503 {object} ErrorResponseBody "All AI providers unavailable"
// @Router /family-insights/generate-insights [post]
func (h *WellnessHandler) FamilyInsights(c *gin.Context) {
	var req FamilyInsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "at least one family member with name and relationship is required; focus areas must be general, diet, exercise or prevention")
		return
	}

	result, err := h.wellnessService.FamilyInsights(c.Request.Context(), &service.FamilyInsightsInput{
		Members:    toFamilyMembers(req.FamilyMembers),
		FocusAreas: req.FocusAreas,
		Language:   req.Language,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// FamilyReport handles POST /api/v1/family-insights/generate-report
// @Summary Generate a family health report
// @Description Counts are computed locally. The AI summary is omitted when not requested or when no provider answers.
// @Tags wellness
// @Accept json
// @Produce json
// @Param request body FamilyReportRequest true "Family members and record totals"
// @Success 200 {object} Response{data=domain.FamilyReport} "Report"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Router /family-insights/generate-report [post]
func (h *WellnessHandler) FamilyReport(c *gin.Context) {
	var req FamilyReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "family members need a name and relationship; totals must not be negative")
		return
	}

	includeAI := true
	if req.IncludeAIAnalysis != nil {
		includeAI = *req.IncludeAIAnalysis
	}
	result, err := h.wellnessService.FamilyReport(c.Request.Context(), &service.FamilyReportInput{
		Members:           toFamilyMembers(req.FamilyMembers),
		TotalRecords:      req.TotalRecords,
		TotalEvents:       req.TotalEvents,
		IncludeAIAnalysis: includeAI,
		Language:          req.Language,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

func toFamilyMembers(in []FamilyMemberRequest) []domain.FamilyMember {
	out := make([]domain.FamilyMember, 0, len(in))
	for _, m := range in {
		out = append(out, domain.FamilyMember{
			ID:              m.ID,
			Name:            m.Name,
			Relationship:    m.Relationship,
			Age:             m.Age,
			Gender:          m.Gender,
			ChronicDiseases: m.ChronicDiseases,
		})
	}
	return out
}
