package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sahara/internal/domain"
	"sahara/internal/provider"
)

// PlanDisclaimer accompanies every generated fitness plan.
const PlanDisclaimer = "This is an AI-generated plan. Consult with a qualified healthcare provider and fitness professional before making any changes to your diet or exercise routine."

const (
	planSystemPrompt   = "You are an expert AI Nutritionist and Fitness Coach that provides responses in JSON format."
	defaultLocalFoods  = "Standard Bangladeshi foods like rice, lentils (dal), fish, chicken, seasonal vegetables, and fruits."
	insightDescLen     = 500
	maxRecommendations = 5
)

var defaultFamilyRecommendations = []string{
	"Maintain regular health check-ups for all family members",
	"Keep medical records organized and up-to-date",
	"Monitor chronic conditions as prescribed",
	"Promote healthy lifestyle habits across the family",
}

// familyRiskTerms are matched against members' conditions. Any high term
// makes the family high risk; medium terms only count when no high term matched.
var familyRiskTerms = map[domain.RiskLevel][]struct {
	name  string
	terms []string
}{
	domain.RiskHigh: {
		{"Diabetes", []string{"diabetes", "ডায়াবেটিস"}},
		{"Heart Disease", []string{"heart disease", "হৃদরোগ"}},
		{"Cancer", []string{"cancer", "ক্যান্সার"}},
		{"Stroke", []string{"stroke", "স্ট্রোক"}},
		{"Hypertension", []string{"hypertension", "উচ্চ রক্তচাপ"}},
	},
	domain.RiskMedium: {
		{"Asthma", []string{"asthma", "হাঁপানি"}},
		{"Arthritis", []string{"arthritis", "আর্থ্রাইটিস"}},
		{"Allergies", []string{"allerg", "অ্যালার্জি"}},
		{"Obesity", []string{"obesity", "স্থূলতা"}},
	},
}

// FocusAreas are the accepted family insight focus areas.
var FocusAreas = map[string]bool{"general": true, "diet": true, "exercise": true, "prevention": true}

// PlanInput is the DTO for a nutrition and fitness plan.
type PlanInput struct {
	Age                 int
	Gender              string
	HeightCM            float64
	WeightKG            float64
	ActivityLevel       string
	Goal                string
	DietaryPreferences  []string
	AvailableLocalFoods string
	Equipment           string
	WorkoutMinutes      int
	Language            string
}

// FamilyInsightsInput is the DTO for family-wide insights. FocusAreas
// defaults to general.
type FamilyInsightsInput struct {
	Members    []domain.FamilyMember
	FocusAreas []string
	Language   string
}

// FamilyReportInput is the DTO for a family health report.
type FamilyReportInput struct {
	Members           []domain.FamilyMember
	TotalRecords      int
	TotalEvents       int
	IncludeAIAnalysis bool
	Language          string
}

// WellnessService defines the fitness coaching and family health contract.
type WellnessService interface {
	Plan(ctx context.Context, input *PlanInput) (*domain.FitnessPlan, error)
	FamilyInsights(ctx context.Context, input *FamilyInsightsInput) (*domain.FamilyInsights, error)
	FamilyReport(ctx context.Context, input *FamilyReportInput) (*domain.FamilyReport, error)
}

type wellnessService struct {
	completer Completer
	validator *jsonValidator
	now       func() time.Time
	log       zerolog.Logger
}

// NewWellnessService creates a new WellnessService implementation.
func NewWellnessService(completer Completer, logger zerolog.Logger) (WellnessService, error) {
	v, err := newJSONValidator(planSchemaURL, planSchema)
	if err != nil {
		return nil, err
	}
	return &wellnessService{
		completer: completer,
		validator: v,
		now:       time.Now,
		log:       logger.With().Str("component", "service.wellness").Logger(),
	}, nil
}

func (s *wellnessService) Plan(ctx context.Context, input *PlanInput) (*domain.FitnessPlan, error) {
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}
	lang, err := parseLanguage(input.Language, domain.LanguageEnglish)
	if err != nil {
		return nil, err
	}

	resp, err := s.completer.Complete(ctx, provider.CompletionInput{
		Message:  planPrompt(input),
		Language: lang,
		System:   planSystemPrompt,
		Options:  provider.Options{Temperature: provider.Temperature(0.7), MaxTokens: 2048, JSONOutput: true},
	})
	if err != nil {
		return nil, err
	}

	var plan domain.FitnessPlan
	if err := s.validator.decode(resp.Text, &plan); err != nil {
		s.log.Warn().Err(err).Str("model", resp.Model).Msg("fitness plan did not match schema")
		return nil, fmt.Errorf("%w: %v", domain.ErrAIResponseInvalid, err)
	}
	plan.Disclaimer = PlanDisclaimer
	plan.ModelUsed = resp.Model
	plan.ProviderUsed = resp.ProviderUsed

	s.log.Info().
		Int("meal_days", len(plan.Nutrition.DailyPlans)).
		Int("workout_days", len(plan.Exercise.WeeklySchedule)).
		Str("goal", input.Goal).
		Msg("fitness plan generated")
	return &plan, nil
}

func (s *wellnessService) FamilyInsights(ctx context.Context, input *FamilyInsightsInput) (*domain.FamilyInsights, error) {
	if len(input.Members) == 0 {
		return nil, domain.InvalidInputf("at least one family member is required")
	}
	if err := validateMembers(input.Members); err != nil {
		return nil, err
	}
	focus := cleanList(input.FocusAreas)
	if len(focus) == 0 {
		focus = []string{"general"}
	}
	for i, f := range focus {
		focus[i] = strings.ToLower(f)
		if !FocusAreas[focus[i]] {
			return nil, domain.InvalidInputf("unknown focus area %q", f)
		}
	}
	lang, err := parseLanguage(input.Language, domain.LanguageEnglish)
	if err != nil {
		return nil, err
	}

	conditions := familyConditions(input.Members)
	resp, err := s.completer.Complete(ctx, provider.CompletionInput{
		Message:     insightPrompt(input.Members, conditions, focus),
		Language:    lang,
		MedicalMode: true,
	})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(resp.Text)
	insights := []domain.FamilyInsight{{
		Type:        "general",
		Title:       "Family Health Overview",
		Description: provider.Truncate(text, insightDescLen),
		Priority:    domain.RiskHigh,
	}}
	for _, c := range conditions {
		insights = append(insights, domain.FamilyInsight{
			Type:        "condition",
			Title:       c + " Management",
			Description: "Family members with " + c + " should monitor regularly and follow treatment plans.",
			Priority:    domain.RiskMedium,
		})
	}

	recs := listItems(text)
	if len(recs) == 0 {
		recs = defaultFamilyRecommendations
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}

	summary, _, _ := strings.Cut(text, "\n\n")
	return &domain.FamilyInsights{
		Insights:        insights,
		Summary:         strings.TrimSpace(summary),
		Recommendations: recs,
		RiskAssessment:  AssessFamilyRisk(conditions),
		ModelUsed:       resp.Model,
		ProviderUsed:    resp.ProviderUsed,
	}, nil
}

func (s *wellnessService) FamilyReport(ctx context.Context, input *FamilyReportInput) (*domain.FamilyReport, error) {
	if input.TotalRecords < 0 || input.TotalEvents < 0 {
		return nil, domain.InvalidInputf("record and event totals must not be negative")
	}
	if err := validateMembers(input.Members); err != nil {
		return nil, err
	}
	lang, err := parseLanguage(input.Language, domain.LanguageEnglish)
	if err != nil {
		return nil, err
	}

	metrics := FamilyMetrics(input.Members, input.TotalRecords, input.TotalEvents)
	members := make([]domain.MemberSummary, 0, len(input.Members))
	for _, m := range input.Members {
		members = append(members, domain.MemberSummary{
			Name:         strings.TrimSpace(m.Name),
			Relationship: strings.TrimSpace(m.Relationship),
			Conditions:   cleanList(m.ChronicDiseases),
		})
	}
	divisor := float64(max(len(input.Members), 1))
	report := &domain.FamilyReport{
		ReportData: domain.FamilyReportData{
			GeneratedAt:   s.now().UTC(),
			Members:       members,
			Statistics:    metrics,
			HealthRecords: domain.Tally{Total: input.TotalRecords, PerMember: float64(input.TotalRecords) / divisor},
			MedicalEvents: domain.Tally{Total: input.TotalEvents, PerMember: float64(input.TotalEvents) / divisor},
		},
		KeyMetrics: metrics,
	}
	if !input.IncludeAIAnalysis || len(input.Members) == 0 {
		return report, nil
	}

	resp, err := s.completer.Complete(ctx, provider.CompletionInput{
		Message:     reportPrompt(input.Members, metrics),
		Language:    lang,
		MedicalMode: true,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		// The report stands without the summary.
		s.log.Warn().Err(err).Msg("family report summary unavailable")
		return report, nil
	}
	report.AISummary = strings.TrimSpace(resp.Text)
	report.ModelUsed = resp.Model
	return report, nil
}

// FamilyMetrics counts members, conditions and ages. Conditions are unique
// case-insensitively.
func FamilyMetrics(members []domain.FamilyMember, records, events int) domain.FamilyMetrics {
	m := domain.FamilyMetrics{
		TotalMembers:     len(members),
		TotalRecords:     records,
		TotalEvents:      events,
		UniqueConditions: len(familyConditions(members)),
	}
	ageSum, aged := 0, 0
	for _, member := range members {
		if len(cleanList(member.ChronicDiseases)) > 0 {
			m.MembersWithConditions++
		}
		if member.Age > 0 {
			ageSum += member.Age
			aged++
		}
	}
	if aged > 0 {
		avg := float64(ageSum) / float64(aged)
		m.AverageAge = &avg
	}
	return m
}

// AssessFamilyRisk rates the family's combined conditions.
func AssessFamilyRisk(conditions []string) domain.FamilyRisk {
	lower := strings.ToLower(strings.Join(conditions, "\n"))
	risk := domain.FamilyRisk{RiskLevel: domain.RiskLow, RiskFactors: []string{}}
	for _, level := range []domain.RiskLevel{domain.RiskHigh, domain.RiskMedium} {
		for _, c := range familyRiskTerms[level] {
			for _, term := range c.terms {
				if strings.Contains(lower, term) {
					risk.RiskFactors = append(risk.RiskFactors, c.name)
					risk.RiskLevel = level
					break
				}
			}
		}
		if risk.RiskLevel != domain.RiskLow {
			break
		}
	}
	risk.Recommendation = "Maintain healthy lifestyle"
	if risk.RiskLevel != domain.RiskLow {
		risk.Recommendation = "Regular monitoring and preventive care recommended"
	}
	return risk
}

// familyConditions lists every member's conditions once, in first-seen order.
func familyConditions(members []domain.FamilyMember) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range members {
		for _, c := range cleanList(m.ChronicDiseases) {
			key := strings.ToLower(c)
			if !seen[key] {
				seen[key] = true
				out = append(out, c)
			}
		}
	}
	return out
}

func validateMembers(members []domain.FamilyMember) error {
	for i, m := range members {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Relationship) == "" {
			return domain.InvalidInputf("family member %d needs a name and relationship", i+1)
		}
		if m.Age < 0 || m.Age > 150 {
			return domain.InvalidInputf("family member %d: age must be between 0 and 150", i+1)
		}
	}
	return nil
}

func validatePlanInput(in *PlanInput) error {
	switch {
	case in.Age < 1 || in.Age > 120:
		return domain.InvalidInputf("age must be between 1 and 120")
	case in.HeightCM < 50 || in.HeightCM > 300:
		return domain.InvalidInputf("height_cm must be between 50 and 300")
	case in.WeightKG < 20 || in.WeightKG > 500:
		return domain.InvalidInputf("weight_kg must be between 20 and 500")
	case in.WorkoutMinutes < 10 || in.WorkoutMinutes > 180:
		return domain.InvalidInputf("workout_time_minutes must be between 10 and 180")
	}
	for _, f := range []struct{ name, value string }{
		{"gender", in.Gender},
		{"activity_level", in.ActivityLevel},
		{"goal", in.Goal},
		{"equipment", in.Equipment},
	} {
		if strings.TrimSpace(f.value) == "" {
			return domain.InvalidInputf("%s is required", f.name)
		}
	}
	return nil
}

func planPrompt(in *PlanInput) string {
	prefs := "None"
	if p := cleanList(in.DietaryPreferences); len(p) > 0 {
		prefs = strings.Join(p, ", ")
	}
	foods := strings.TrimSpace(in.AvailableLocalFoods)
	if foods == "" {
		foods = defaultLocalFoods
	}

	var sb strings.Builder
	sb.WriteString("Act as an expert AI Nutritionist and Fitness Coach specializing in Bangladeshi cuisine and locally available foods. ")
	sb.WriteString("Based on the user's data, create a comprehensive, personalized, and safe 7-day plan.\n\nThe user's details are:\n")
	sb.WriteString(bulletList(map[string]string{
		"Age":                     strconv.Itoa(in.Age),
		"Gender":                  strings.TrimSpace(in.Gender),
		"Height":                  strconv.FormatFloat(in.HeightCM, 'f', -1, 64) + " cm",
		"Weight":                  strconv.FormatFloat(in.WeightKG, 'f', -1, 64) + " kg",
		"Activity Level":          strings.TrimSpace(in.ActivityLevel),
		"Primary Goal":            strings.TrimSpace(in.Goal),
		"Dietary Preferences":     prefs,
		"Locally Available Foods": foods,
		"Equipment":               strings.TrimSpace(in.Equipment),
		"Workout Time":            strconv.Itoa(in.WorkoutMinutes) + " minutes per day",
	}))
	sb.WriteString(`

Respond with a single JSON object and nothing else, with these keys:
- "nutrition_plan": {"daily_calories": number, "macronutrients": {"protein_g": number, "carbs_g": number, "fat_g": number}, "daily_plans": a list of 7 {"day": string, "meals": a list of 3-4 {"meal": string, "food": string with portion sizes, "calories": number, "alternatives": string}}}
- "supplement_plan": {"recommendations": a list of {"supplement": string, "dosage": string, "reason": string}; empty when no supplement is needed}
- "exercise_plan": {"weekly_schedule": a list of 7 {"day": string, "activity": string, "duration_minutes": integer, "exercises": list of strings}, "progression_advice": string}
Only recommend common, safe supplements. Keep every workout within the user's available time and equipment.`)
	return sb.String()
}

// insightPrompt describes members by relationship, age and conditions.
// Names are not sent to the provider.
func insightPrompt(members []domain.FamilyMember, conditions, focus []string) string {
	listed := "None"
	if len(conditions) > 0 {
		listed = strings.Join(conditions, ", ")
	}
	var sb strings.Builder
	sb.WriteString("As a family health advisor, analyze this family's health profile:\n\n")
	sb.WriteString("Family Members: " + strconv.Itoa(len(members)) + "\n")
	sb.WriteString(memberLines(members))
	sb.WriteString("\nChronic Conditions in Family: " + listed)
	sb.WriteString("\n\nFocus Areas: " + strings.Join(focus, ", "))
	sb.WriteString(`

Start with a one-paragraph summary, then provide as a numbered list:
1. Key health insights for the family
2. Personalized recommendations for managing existing conditions
3. Preventive care suggestions
4. Lifestyle modifications that benefit the whole family
5. Warning signs to watch for

Keep recommendations practical, family-friendly, and culturally sensitive.`)
	return sb.String()
}

func reportPrompt(members []domain.FamilyMember, m domain.FamilyMetrics) string {
	var sb strings.Builder
	sb.WriteString("Generate a professional health report summary for this family:\n\nFamily Overview:\n")
	sb.WriteString(memberLines(members))
	sb.WriteString("\nStatistics:\n")
	sb.WriteString(fmt.Sprintf("- Total Members: %d\n", m.TotalMembers))
	sb.WriteString(fmt.Sprintf("- Members with Conditions: %d\n", m.MembersWithConditions))
	sb.WriteString(fmt.Sprintf("- Unique Conditions: %d", m.UniqueConditions))
	sb.WriteString(`

Provide a concise, professional summary (2-3 paragraphs) suitable for sharing with healthcare providers and family health planning.
Include key health patterns and overall family health status.`)
	return sb.String()
}

func memberLines(members []domain.FamilyMember) string {
	var sb strings.Builder
	for _, m := range members {
		sb.WriteString("- " + strings.TrimSpace(m.Relationship))
		if m.Age > 0 {
			sb.WriteString(", " + strconv.Itoa(m.Age))
		}
		if g := strings.TrimSpace(m.Gender); g != "" {
			sb.WriteString(", " + g)
		}
		conds := "no chronic conditions"
		if c := cleanList(m.ChronicDiseases); len(c) > 0 {
			conds = strings.Join(c, ", ")
		}
		sb.WriteString(": " + conds + "\n")
	}
	return sb.String()
}
