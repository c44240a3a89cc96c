package domain

import "time"

// BoundingBox is the pixel-space rectangle of a recognized block.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TextBlock is one recognized region with its confidence in [0,1].
type TextBlock struct {
	Text       string      `json:"text"`
	Bounds     BoundingBox `json:"bounds"`
	Confidence float64     `json:"confidence"`
}

// ImageMeta describes the source image of an OCR call.
type ImageMeta struct {
	Format    string `json:"format"`
	SizeBytes int    `json:"size_bytes"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// RecognizedDocument is the output of a single OCR call.
type RecognizedDocument struct {
	RawText  string      `json:"raw_text"`
	Blocks   []TextBlock `json:"blocks"`
	Image    ImageMeta   `json:"image"`
	Language Language    `json:"language"`
	Engine   string      `json:"engine"`
}

// MeanConfidence averages block confidence. Documents without blocks report 0.
func (d *RecognizedDocument) MeanConfidence() float64 {
	if len(d.Blocks) == 0 {
		return 0
	}
	var sum float64
	for _, b := range d.Blocks {
		sum += b.Confidence
	}
	return sum / float64(len(d.Blocks))
}

// HasText reports whether OCR returned any non-whitespace text.
func (d *RecognizedDocument) HasText() bool {
	for _, r := range d.RawText {
		if r != ' ' && r != '\n' && r != '\t' && r != '\r' {
			return true
		}
	}
	return false
}

// PrescriptionItem is one drug entry. Every field is optional.
type PrescriptionItem struct {
	DrugName  string `json:"drug_name,omitempty"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

// PrescriptionRecord is the structured form of a prescription.
type PrescriptionRecord struct {
	Items     []PrescriptionItem `json:"items"`
	Doctor    string             `json:"doctor,omitempty"`
	Patient   string             `json:"patient,omitempty"`
	Date      string             `json:"date,omitempty"`
	Diagnosis string             `json:"diagnosis,omitempty"`
}

// LabResult is one measured test line of a lab report.
type LabResult struct {
	TestName       string  `json:"test_name"`
	Value          string  `json:"value,omitempty"`
	Unit           string  `json:"unit,omitempty"`
	ReferenceRange string  `json:"reference_range,omitempty"`
	Flag           LabFlag `json:"flag"`
}

// LabReportRecord is the structured form of a lab report.
type LabReportRecord struct {
	Results []LabResult `json:"results"`
	Patient string      `json:"patient,omitempty"`
	Date    string      `json:"date,omitempty"`
}

// GenericEntry is a labelled line. An empty Label marks free text.
type GenericEntry struct {
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
}

// GenericRecord keeps every non-empty line of an unclassified document.
type GenericRecord struct {
	Entries []GenericEntry `json:"entries"`
}

// StructuredMedicalRecord is a tagged variant: only the field matching Kind is set.
type StructuredMedicalRecord struct {
	Kind             DocumentKind        `json:"kind"`
	Prescription     *PrescriptionRecord `json:"prescription,omitempty"`
	LabReport        *LabReportRecord    `json:"lab_report,omitempty"`
	Generic          *GenericRecord      `json:"generic,omitempty"`
	HeuristicVersion string              `json:"heuristic_version"`
}

// IsEmpty reports whether structuring matched nothing.
func (r *StructuredMedicalRecord) IsEmpty() bool {
	switch r.Kind {
	case DocumentKindPrescription:
		p := r.Prescription
		return p == nil || (len(p.Items) == 0 && p.Doctor == "" && p.Patient == "" && p.Date == "" && p.Diagnosis == "")
	case DocumentKindLabReport:
		return r.LabReport == nil || len(r.LabReport.Results) == 0
	case DocumentKindGeneric:
		return r.Generic == nil || len(r.Generic.Entries) == 0
	default:
		return true
	}
}

// Values returns every extracted string in the record, in record order.
func (r *StructuredMedicalRecord) Values() []string {
	var out []string
	add := func(vals ...string) {
		for _, v := range vals {
			if v != "" {
				out = append(out, v)
			}
		}
	}
	if p := r.Prescription; p != nil {
		add(p.Doctor, p.Patient, p.Date, p.Diagnosis)
		for _, it := range p.Items {
			add(it.DrugName, it.Dosage, it.Frequency, it.Duration)
		}
	}
	if l := r.LabReport; l != nil {
		add(l.Patient, l.Date)
		for _, res := range l.Results {
			add(res.TestName, res.Value, res.Unit, res.ReferenceRange)
		}
	}
	if g := r.Generic; g != nil {
		for _, e := range g.Entries {
			add(e.Label, e.Value)
		}
	}
	return out
}

// DocumentResult is what the document pipeline hands back to the caller.
type DocumentResult struct {
	Status     DocumentStatus           `json:"status"`
	Kind       DocumentKind             `json:"document_type"`
	Record     *StructuredMedicalRecord `json:"extracted_data,omitempty"`
	RawText    string                   `json:"raw_text"`
	Confidence float64                  `json:"confidence"`
	WordCount  int                      `json:"word_count"`
	Language   Language                 `json:"language"`
	Engine     string                   `json:"engine,omitempty"`
}

// ConversationTurn is one message of caller-owned chat history.
type ConversationTurn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ProviderAttempt records one failed provider call for diagnostics.
type ProviderAttempt struct {
	Slot  ProviderSlot `json:"slot"`
	Name  string       `json:"name"`
	Error string       `json:"error"`
}

// ProviderResponse is the normalized output of the provider orchestrator.
type ProviderResponse struct {
	Text         string            `json:"message"`
	ProviderUsed ProviderSlot      `json:"provider_used"`
	ProviderName string            `json:"provider_name"`
	Model        string            `json:"model_used"`
	Language     Language          `json:"language"`
	Failed       []ProviderAttempt `json:"failed_attempts,omitempty"`
	Latency      time.Duration     `json:"-"`
}

// RiskAssessment is computed per request and never cached.
type RiskAssessment struct {
	RiskLevel        RiskLevel  `json:"risk_level"`
	MatchedSymptoms  []string   `json:"matched_symptoms"`
	Recommendation   string     `json:"recommendation"`
	Recommendations  []string   `json:"recommendations"`
	UrgentCareNeeded bool       `json:"urgent_care_needed"`
	Source           RiskSource `json:"source"`
}

// HealthTip is one parsed item of an AI-generated tips list.
type HealthTip struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// HealthCategory is a static tips category shown to users.
type HealthCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// PossibleCondition is an AI-suggested condition attached to a symptom analysis.
type PossibleCondition struct {
	Condition   string  `json:"condition"`
	Probability float64 `json:"probability,omitempty"`
}

// SymptomAnalysis combines the authoritative risk assessment with advisory AI output.
type SymptomAnalysis struct {
	Assessment         RiskAssessment      `json:"assessment"`
	Analysis           string              `json:"analysis,omitempty"`
	PossibleConditions []PossibleCondition `json:"possible_conditions,omitempty"`
	AISuggestedLevel   RiskLevel           `json:"ai_suggested_level,omitempty"`
	ModelUsed          string              `json:"model_used,omitempty"`
	ProviderUsed       ProviderSlot        `json:"provider_used,omitempty"`
	Disclaimer         string              `json:"disclaimer"`
}

// PredictedCondition is a condition the model named in a risk prediction.
type PredictedCondition struct {
	Condition string    `json:"condition"`
	Risk      RiskLevel `json:"risk"`
	Timeframe string    `json:"timeframe"`
}

// RiskFactor is derived from caller-supplied data, never from model output.
type RiskFactor struct {
	Factor string    `json:"factor"`
	Impact RiskLevel `json:"impact"`
}

// HealthPrediction is the result of a predictive health check.
type HealthPrediction struct {
	Predictions        []PredictedCondition `json:"predictions"`
	RiskFactors        []RiskFactor         `json:"risk_factors"`
	PreventiveMeasures []string             `json:"preventive_measures"`
	Timeline           string               `json:"timeline"`
	Analysis           string               `json:"analysis"`
	ModelUsed          string               `json:"model_used,omitempty"`
	ProviderUsed       ProviderSlot         `json:"provider_used,omitempty"`
	Disclaimer         string               `json:"disclaimer"`
}

// Meal is one meal of a daily nutrition plan.
type Meal struct {
	Meal         string  `json:"meal"`
	Food         string  `json:"food"`
	Calories     float64 `json:"calories,omitempty"`
	Alternatives string  `json:"alternatives,omitempty"`
}

// MealDay is the meal plan for one day of the week.
type MealDay struct {
	Day   string `json:"day"`
	Meals []Meal `json:"meals"`
}

// Macronutrients are daily targets in grams.
type Macronutrients struct {
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

type NutritionPlan struct {
	DailyCalories  float64        `json:"daily_calories"`
	Macronutrients Macronutrients `json:"macronutrients"`
	DailyPlans     []MealDay      `json:"daily_plans"`
}

type SupplementRecommendation struct {
	Supplement string `json:"supplement"`
	Dosage     string `json:"dosage"`
	Reason     string `json:"reason"`
}

type SupplementPlan struct {
	Recommendations []SupplementRecommendation `json:"recommendations"`
}

// WorkoutDay is the exercise plan for one day of the week.
type WorkoutDay struct {
	Day             string   `json:"day"`
	Activity        string   `json:"activity"`
	DurationMinutes int      `json:"duration_minutes"`
	Exercises       []string `json:"exercises"`
}

type ExercisePlan struct {
	WeeklySchedule    []WorkoutDay `json:"weekly_schedule"`
	ProgressionAdvice string       `json:"progression_advice,omitempty"`
}

// FitnessPlan is a seven-day nutrition, supplement and exercise plan.
type FitnessPlan struct {
	Nutrition    NutritionPlan  `json:"nutrition_plan"`
	Supplements  SupplementPlan `json:"supplement_plan"`
	Exercise     ExercisePlan   `json:"exercise_plan"`
	Disclaimer   string         `json:"disclaimer"`
	ModelUsed    string         `json:"model_used,omitempty"`
	ProviderUsed ProviderSlot   `json:"provider_used,omitempty"`
}

// FamilyMember is one person in a family health profile.
type FamilyMember struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	Relationship    string   `json:"relationship"`
	Age             int      `json:"age,omitempty"`
	Gender          string   `json:"gender,omitempty"`
	ChronicDiseases []string `json:"chronic_diseases,omitempty"`
}

// FamilyInsight is one card of a family insights response.
type FamilyInsight struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    RiskLevel `json:"priority"`
}

// FamilyRisk is the rule-based risk level of a family's combined conditions.
type FamilyRisk struct {
	RiskLevel      RiskLevel `json:"risk_level"`
	RiskFactors    []string  `json:"risk_factors"`
	Recommendation string    `json:"recommendation"`
}

type FamilyInsights struct {
	Insights        []FamilyInsight `json:"insights"`
	Summary         string          `json:"summary"`
	Recommendations []string        `json:"recommendations"`
	RiskAssessment  FamilyRisk      `json:"risk_assessment"`
	ModelUsed       string          `json:"model_used,omitempty"`
	ProviderUsed    ProviderSlot    `json:"provider_used,omitempty"`
}

// FamilyMetrics are the counts shown at the top of a family report.
// AverageAge is nil when no member has an age.
type FamilyMetrics struct {
	TotalMembers          int      `json:"total_members"`
	TotalRecords          int      `json:"total_records"`
	TotalEvents           int      `json:"total_events"`
	MembersWithConditions int      `json:"members_with_conditions"`
	UniqueConditions      int      `json:"unique_conditions"`
	AverageAge            *float64 `json:"average_age"`
}

type MemberSummary struct {
	Name         string   `json:"name"`
	Relationship string   `json:"relationship"`
	Conditions   []string `json:"conditions"`
}

type Tally struct {
	Total     int     `json:"total"`
	PerMember float64 `json:"per_member"`
}

type FamilyReportData struct {
	GeneratedAt   time.Time       `json:"report_date"`
	Members       []MemberSummary `json:"members"`
	Statistics    FamilyMetrics   `json:"statistics"`
	HealthRecords Tally           `json:"health_records"`
	MedicalEvents Tally           `json:"medical_events"`
}

// FamilyReport is a shareable family health report. AISummary is empty when
// the analysis was not requested or no provider answered.
type FamilyReport struct {
	ReportData FamilyReportData `json:"report_data"`
	AISummary  string           `json:"ai_summary,omitempty"`
	KeyMetrics FamilyMetrics    `json:"key_metrics"`
	ModelUsed  string           `json:"model_used,omitempty"`
}
