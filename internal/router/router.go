package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"sahara/internal/handler"
	"sahara/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger zerolog.Logger,
	allowedOrigins []string,
	statusH *handler.StatusHandler,
	ocrH *handler.OCRHandler,
	documentH *handler.DocumentHandler,
	chatH *handler.ChatHandler,
	healthH *handler.HealthHandler,
	wellnessH *handler.WellnessHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", statusH.Liveness)
	r.GET("/readyz", statusH.Readiness)

	v1 := r.Group("/api/v1")

	// OCR
	ocr := v1.Group("/ocr")
	ocr.POST("/process", ocrH.Process)
	ocr.POST("/process-file", ocrH.ProcessFile)
	ocr.POST("/medical-document", ocrH.MedicalDocument)

	// Structuring without OCR
	documents := v1.Group("/documents")
	documents.POST("/structure", documentH.Structure)
	documents.POST("/export", documentH.Export)

	// AI assistant
	ai := v1.Group("/ai")
	ai.POST("/chat", chatH.Chat)
	ai.POST("/translate", chatH.Translate)
	ai.POST("/explain-term", chatH.ExplainTerm)
	ai.GET("/conversation-starters", chatH.ConversationStarters)

	// Health information
	health := v1.Group("/health")
	health.POST("/analyze-symptoms", healthH.AnalyzeSymptoms)
	health.POST("/predict", healthH.Predict)
	health.GET("/tips", healthH.Tips)
	health.GET("/categories", healthH.Categories)
	health.GET("/emergency-symptoms", healthH.EmergencySymptoms)

	// Coaching and family health
	v1.POST("/nutrition-fitness/plan", wellnessH.Plan)
	family := v1.Group("/family-insights")
	family.POST("/generate-insights", wellnessH.FamilyInsights)
	family.POST("/generate-report", wellnessH.FamilyReport)

	return r
}
