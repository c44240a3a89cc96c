package handler

import (
	"sahara/internal/domain"
)

// Swagger type definitions for API documentation.
// Request types double as binding targets for the handlers.

// --- Request Types ---

// ImageRequest identifies the scan to recognize. Image wins when both Image and Key are set.
type ImageRequest struct {
	Image       string `json:"image_base64" example:"data:image/png;base64,iVBORw0KGgo..."`
	Key         string `json:"image_key" example:"uploads/rx-1.png"`
	ContentType string `json:"content_type" example:"image/png"`
}

// OCRRequest represents the plain OCR request body.
type OCRRequest struct {
	ImageRequest
	Language string `json:"language" binding:"omitempty,oneof=en bn auto" example:"bn"`
}

// MedicalDocumentRequest represents the OCR plus structuring request body.
type MedicalDocumentRequest struct {
	ImageRequest
	DocumentType domain.DocumentKind `json:"document_type" binding:"omitempty,oneof=prescription lab_report generic" example:"prescription"`
	Language     string              `json:"language" binding:"omitempty,oneof=en bn auto" example:"en"`
}

// StructureRequest represents the structure-text request body.
type StructureRequest struct {
	RawText      string              `json:"raw_text" binding:"required" example:"Dr. Rahman\nTab Napa 500mg 1+0+1 5 days"`
	DocumentType domain.DocumentKind `json:"document_type" binding:"omitempty,oneof=prescription lab_report generic" example:"prescription"`
	Language     string              `json:"language" binding:"omitempty,oneof=en bn auto" example:"en"`
}

// ExportRequest represents the export request body. The format comes from the query string.
type ExportRequest struct {
	RawText      string              `json:"raw_text" binding:"required" example:"Hemoglobin 10.2 g/dL 13.0-17.0"`
	DocumentType domain.DocumentKind `json:"document_type" binding:"omitempty,oneof=prescription lab_report generic" example:"lab_report"`
}

// ChatTurnRequest is one history entry of a chat request.
type ChatTurnRequest struct {
	Role    domain.Role `json:"role" binding:"required,oneof=user assistant" example:"user"`
	Content string      `json:"content" binding:"required" example:"I have a headache"`
}

// ChatRequest represents the chat request body.
type ChatRequest struct {
	Message             string            `json:"message" binding:"required" example:"What should I do for a mild fever?"`
	Language            string            `json:"language" binding:"omitempty,oneof=en bn auto" example:"auto"`
	ConversationHistory []ChatTurnRequest `json:"conversation_history" binding:"omitempty,dive"`
	Context             map[string]string `json:"context" example:"age:34"`
	MedicalMode         *bool             `json:"medical_mode" example:"true"`
}

// TranslateRequest represents the translate request body.
type TranslateRequest struct {
	Text           string `json:"text" binding:"required" example:"Take one tablet after meals"`
	SourceLanguage string `json:"source_language" binding:"omitempty,oneof=en bn" example:"en"`
	TargetLanguage string `json:"target_language" binding:"omitempty,oneof=en bn" example:"bn"`
}

// ExplainTermRequest represents the explain-term request body.
type ExplainTermRequest struct {
	Term     string `json:"term" binding:"required" example:"hypertension"`
	Language string `json:"language" binding:"omitempty,oneof=en bn" example:"en"`
	Detailed bool   `json:"detailed" example:"false"`
}

// AnalyzeSymptomsRequest represents the symptom analysis request body.
type AnalyzeSymptomsRequest struct {
	Symptoms           []string `json:"symptoms" binding:"required,min=1" example:"fever,cough"`
	Severity           string   `json:"severity" binding:"omitempty,oneof=mild moderate severe" example:"moderate"`
	Duration           string   `json:"duration" example:"3 days"`
	DurationDays       int      `json:"duration_days" binding:"min=0" example:"3"`
	Age                int      `json:"age" binding:"min=0,max=150" example:"34"`
	Gender             string   `json:"gender" example:"female"`
	ExistingConditions []string `json:"existing_conditions" example:"diabetes"`
	Medications        []string `json:"medications" example:"metformin"`
	Language           string   `json:"language" binding:"omitempty,oneof=en bn auto" example:"en"`
}

// PredictRequest represents the predictive health request body. Metric and
// lifestyle values may be numbers, strings or booleans.
type PredictRequest struct {
	HealthMetrics    map[string]interface{} `json:"health_metrics" binding:"required"`
	MedicalHistory   []string               `json:"medical_history" example:"gestational diabetes"`
	LifestyleFactors map[string]interface{} `json:"lifestyle_factors"`
	FamilyHistory    []string               `json:"family_history" example:"heart disease"`
	Language         string                 `json:"language" binding:"omitempty,oneof=en bn" example:"en"`
}

// PlanRequest represents the nutrition and fitness plan request body.
type PlanRequest struct {
	Age                 int      `json:"age" binding:"required,min=1,max=120" example:"30"`
	Gender              string   `json:"gender" binding:"required" example:"male"`
	HeightCM            float64  `json:"height_cm" binding:"required,min=50,max=300" example:"175"`
	WeightKG            float64  `json:"weight_kg" binding:"required,min=20,max=500" example:"80"`
	ActivityLevel       string   `json:"activity_level" binding:"required" example:"moderately active"`
	Goal                string   `json:"goal" binding:"required" example:"weight_loss"`
	DietaryPreferences  []string `json:"dietary_preferences" example:"vegetarian"`
	AvailableLocalFoods string   `json:"available_local_foods" example:"Rice, lentils, spinach, fish"`
	Equipment           string   `json:"equipment" binding:"required" example:"basic_home"`
	WorkoutMinutes      int      `json:"workout_time_minutes" binding:"required,min=10,max=180" example:"45"`
	Language            string   `json:"language" binding:"omitempty,oneof=en bn" example:"en"`
}

// FamilyMemberRequest is one family member in insight and report requests.
type FamilyMemberRequest struct {
	ID              string   `json:"id"`
	Name            string   `json:"name" binding:"required" example:"Rahima"`
	Relationship    string   `json:"relationship" binding:"required" example:"mother"`
	Age             int      `json:"age" binding:"min=0,max=150" example:"58"`
	Gender          string   `json:"gender" example:"female"`
	ChronicDiseases []string `json:"chronic_diseases" example:"diabetes"`
}

// FamilyInsightsRequest represents the family insights request body.
type FamilyInsightsRequest struct {
	FamilyMembers []FamilyMemberRequest `json:"family_members" binding:"required,min=1,dive"`
	FocusAreas    []string              `json:"focus_areas" binding:"omitempty,dive,oneof=general diet exercise prevention" example:"general"`
	Language      string                `json:"language" binding:"omitempty,oneof=en bn" example:"en"`
}

// FamilyReportRequest represents the family report request body.
// IncludeAIAnalysis defaults to true.
type FamilyReportRequest struct {
	FamilyMembers     []FamilyMemberRequest `json:"family_members" binding:"dive"`
	TotalRecords      int                   `json:"total_records" binding:"min=0" example:"12"`
	TotalEvents       int                   `json:"total_events" binding:"min=0" example:"3"`
	IncludeAIAnalysis *bool                 `json:"include_ai_analysis" example:"true"`
	Language          string                `json:"language" binding:"omitempty,oneof=en bn" example:"en"`
}

// --- Response Types ---

// Response is the generic success envelope.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
}

// ErrorResponseBody is the error envelope.
type ErrorResponseBody struct {
	Success bool     `json:"success" example:"false"`
	Error   APIError `json:"error"`
}

// ChatResponse is the data payload of a chat reply.
type ChatResponse struct {
	Response     string              `json:"response"`
	Language     domain.Language     `json:"language"`
	ModelUsed    string              `json:"model_used"`
	ProviderUsed domain.ProviderSlot `json:"provider_used"`
	Suggestions  []string            `json:"suggestions"`
}

// ConversationStartersResponse lists suggested opening questions.
type ConversationStartersResponse struct {
	Language domain.Language `json:"language"`
	Starters []string        `json:"starters"`
}

// StatusResponse is the body of liveness and readiness checks.
type StatusResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}
