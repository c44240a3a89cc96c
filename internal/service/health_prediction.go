package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"sahara/internal/domain"
	"sahara/internal/provider"
)

// PredictionTimeline is the horizon every prediction is framed in.
const PredictionTimeline = "5-10 years"

const (
	maxPredictions        = 5
	maxPreventiveMeasures = 5
)

// PredictInput is the DTO for a predictive health check. Metric and
// lifestyle values are whatever JSON the client sent.
type PredictInput struct {
	HealthMetrics    map[string]any
	MedicalHistory   []string
	LifestyleFactors map[string]any
	FamilyHistory    []string
	Language         string
}

// predictionConditions are matched in the model's answer, in English and Bangla.
var predictionConditions = []struct {
	name  string
	terms []string
}{
	{"Diabetes", []string{"diabetes", "ডায়াবেটিস"}},
	{"Heart Disease", []string{"heart disease", "হৃদরোগ"}},
	{"Hypertension", []string{"hypertension", "উচ্চ রক্তচাপ"}},
	{"Stroke", []string{"stroke", "স্ট্রোক"}},
	{"Obesity", []string{"obesity", "স্থূলতা"}},
	{"Cancer", []string{"cancer", "ক্যান্সার"}},
	{"Arthritis", []string{"arthritis", "আর্থ্রাইটিস"}},
}

var generalPreventiveMeasures = []string{
	"Maintain a healthy, balanced diet",
	"Exercise regularly (150 minutes per week)",
	"Get regular health checkups",
	"Manage stress through relaxation techniques",
	"Get adequate sleep (7-8 hours)",
	"Stay hydrated",
	"Avoid smoking and excessive alcohol",
	"Monitor your health metrics regularly",
}

// factorMeasures maps a risk factor to the measure that addresses it.
var factorMeasures = map[string]string{
	"High BMI (Obesity)":  "Aim for gradual weight loss through diet and activity",
	"Overweight":          "Aim for gradual weight loss through diet and activity",
	"High Blood Pressure": "Reduce salt intake and check your blood pressure regularly",
	"High Blood Sugar":    "Limit sugar and refined carbohydrates and test your blood sugar regularly",
	"Smoking":             "Stop smoking and ask a doctor about cessation support",
	"Sedentary Lifestyle": "Exercise regularly (150 minutes per week)",
}

func (s *healthService) Predict(ctx context.Context, input *PredictInput) (*domain.HealthPrediction, error) {
	if len(input.HealthMetrics) == 0 {
		return nil, domain.InvalidInputf("at least one health metric is required")
	}
	lang, err := parseLanguage(input.Language, domain.LanguageEnglish)
	if err != nil {
		return nil, err
	}

	factors := RiskFactors(input)
	resp, err := s.completer.Complete(ctx, provider.CompletionInput{
		Message:     predictionPrompt(input),
		Language:    lang,
		MedicalMode: true,
	})
	if err != nil {
		return nil, err
	}

	predictions := ParsePredictions(resp.Text)
	s.log.Info().
		Int("risk_factors", len(factors)).
		Int("predictions", len(predictions)).
		Str("model", resp.Model).
		Msg("health risks predicted")
	return &domain.HealthPrediction{
		Predictions:        predictions,
		RiskFactors:        factors,
		PreventiveMeasures: preventiveMeasures(factors),
		Timeline:           PredictionTimeline,
		Analysis:           strings.TrimSpace(resp.Text),
		ModelUsed:          resp.Model,
		ProviderUsed:       resp.ProviderUsed,
		Disclaimer:         Disclaimer,
	}, nil
}

// ParsePredictions lists the known conditions the model's answer mentions,
// in table order, at most five.
func ParsePredictions(text string) []domain.PredictedCondition {
	lower := strings.ToLower(text)
	out := []domain.PredictedCondition{}
	for _, c := range predictionConditions {
		for _, term := range c.terms {
			if strings.Contains(lower, term) {
				out = append(out, domain.PredictedCondition{
					Condition: c.name,
					Risk:      domain.RiskMedium,
					Timeframe: PredictionTimeline,
				})
				break
			}
		}
		if len(out) == maxPredictions {
			break
		}
	}
	return out
}

// RiskFactors derives risk factors from the caller's own data. Values that
// cannot be read as numbers are skipped.
func RiskFactors(input *PredictInput) []domain.RiskFactor {
	out := []domain.RiskFactor{}
	add := func(factor string, impact domain.RiskLevel) {
		out = append(out, domain.RiskFactor{Factor: factor, Impact: impact})
	}

	if bmi, ok := metricFloat(input.HealthMetrics["bmi"]); ok {
		switch {
		case bmi > 30:
			add("High BMI (Obesity)", domain.RiskHigh)
		case bmi > 25:
			add("Overweight", domain.RiskMedium)
		}
	}
	if bp := formatValue(input.HealthMetrics["blood_pressure"]); strings.Contains(bp, "/") {
		sys, _, _ := strings.Cut(bp, "/")
		if systolic, err := strconv.Atoi(strings.TrimSpace(sys)); err == nil && systolic > 140 {
			add("High Blood Pressure", domain.RiskHigh)
		}
	}
	// Fasting blood sugar in mg/dL.
	if sugar, ok := metricFloat(input.HealthMetrics["blood_sugar"]); ok && sugar >= 126 {
		add("High Blood Sugar", domain.RiskHigh)
	}

	for _, c := range cleanList(input.MedicalHistory) {
		add("History of "+c, domain.RiskMedium)
	}
	for _, c := range cleanList(input.FamilyHistory) {
		add("Family history of "+c, domain.RiskMedium)
	}

	if truthy(input.LifestyleFactors["smoking"]) {
		add("Smoking", domain.RiskHigh)
	}
	exercise := strings.ToLower(formatValue(input.LifestyleFactors["exercise"]))
	if strings.Contains(exercise, "sedentary") || strings.Contains(exercise, "none") {
		add("Sedentary Lifestyle", domain.RiskMedium)
	}
	return out
}

// preventiveMeasures puts measures for the found risk factors first and
// fills up with general advice.
func preventiveMeasures(factors []domain.RiskFactor) []string {
	seen := map[string]bool{}
	var out []string
	push := func(m string) {
		if !seen[m] && len(out) < maxPreventiveMeasures {
			seen[m] = true
			out = append(out, m)
		}
	}
	for _, f := range factors {
		if m, ok := factorMeasures[f.Factor]; ok {
			push(m)
		}
	}
	for _, m := range generalPreventiveMeasures {
		push(m)
	}
	return out
}

func predictionPrompt(input *PredictInput) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following health data and predict potential health risks:\n\n")
	sb.WriteString("Health Metrics:\n" + bulletList(formatMap(input.HealthMetrics)))
	if h := cleanList(input.MedicalHistory); len(h) > 0 {
		sb.WriteString("\n\nMedical History: " + strings.Join(h, ", "))
	}
	if h := cleanList(input.FamilyHistory); len(h) > 0 {
		sb.WriteString("\n\nFamily History: " + strings.Join(h, ", "))
	}
	if len(input.LifestyleFactors) > 0 {
		sb.WriteString("\n\nLifestyle Factors:\n" + bulletList(formatMap(input.LifestyleFactors)))
	}
	sb.WriteString(`

Please provide:
1. Potential health risks
2. Risk factors identified
3. Preventive measures and recommendations
4. Timeline for potential conditions

Include appropriate disclaimers about limitations of AI predictions.`)
	return sb.String()
}

func formatMap(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = formatValue(v)
	}
	return out
}

// formatValue renders a decoded JSON value for a prompt line.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// metricFloat accepts a JSON number or a numeric string such as "28.5".
func metricFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "no", "false", "never", "none", "0":
			return false
		}
		return true
	default:
		return false
	}
}
