// Package heuristics holds the rule tables that bound AI output for symptom
// analysis. Tables are built once at startup and never mutated.
package heuristics

import (
	"strings"

	"sahara/internal/domain"
)

// DurationBucket assigns points to symptoms lasting at most MaxDays.
type DurationBucket struct {
	MaxDays int
	Points  int
}

// Tables is the read-only rule set shared by all requests.
type Tables struct {
	emergencyKeywords []string
	severityPoints    map[domain.Severity]int
	durationBuckets   []DurationBucket
	longDuration      int
	manySymptoms      int
	categories        map[domain.Language][]domain.HealthCategory
	emergencyDisplay  map[domain.Language][]string
	recommendations   map[domain.RiskLevel][]string
	general           []string
}

// DefaultTables returns the built-in English and Bangla rule set.
func DefaultTables() *Tables {
	return NewTables(defaultEmergencyKeywords)
}

// NewTables returns the default tables with a custom emergency keyword list.
func NewTables(emergencyKeywords []string) *Tables {
	kw := make([]string, 0, len(emergencyKeywords))
	for _, k := range emergencyKeywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			kw = append(kw, k)
		}
	}
	return &Tables{
		emergencyKeywords: kw,
		severityPoints: map[domain.Severity]int{
			domain.SeverityUnspecified: 0,
			domain.SeverityMild:        0,
			domain.SeverityModerate:    1,
			domain.SeveritySevere:      3,
		},
		durationBuckets: []DurationBucket{
			{MaxDays: 3, Points: 0},
			{MaxDays: 14, Points: 1},
		},
		longDuration: 2,
		manySymptoms: 3,
		categories:   defaultCategories,
		emergencyDisplay: map[domain.Language][]string{
			domain.LanguageEnglish: {
				"Chest pain or pressure",
				"Difficulty breathing",
				"Sudden dizziness or fainting",
				"Severe headache",
				"Slurred speech or weakness",
				"Severe abdominal pain",
				"Excessive bleeding",
				"Seizures",
			},
			domain.LanguageBangla: {
				"বুকে ব্যথা বা চাপ",
				"শ্বাসকষ্ট",
				"হঠাৎ মাথা ঘোরা বা অজ্ঞান হয়ে যাওয়া",
				"তীব্র মাথাব্যথা",
				"অস্পষ্ট কথা বা দুর্বলতা",
				"তীব্র পেট ব্যথা",
				"অতিরিক্ত রক্তপাত",
				"খিঁচুনি",
			},
		},
		recommendations: map[domain.RiskLevel][]string{
			domain.RiskEmergency: {
				"Call emergency services or go to the nearest emergency department now",
				"Do not wait for symptoms to improve on their own",
			},
			domain.RiskHigh: {
				"Seek immediate medical attention",
				"Do not delay consulting a healthcare professional",
			},
			domain.RiskMedium: {
				"Consult a doctor soon",
				"Monitor symptoms closely",
			},
			domain.RiskLow: {
				"Rest and stay hydrated",
				"Monitor symptoms for changes",
			},
		},
		general: []string{
			"Maintain a healthy diet",
			"Get adequate sleep",
			"Track your symptoms",
		},
	}
}

var defaultEmergencyKeywords = []string{
	"chest pain",
	"chest pressure",
	"difficulty breathing",
	"shortness of breath",
	"can't breathe",
	"severe bleeding",
	"excessive bleeding",
	"coughing blood",
	"vomiting blood",
	"loss of consciousness",
	"unconscious",
	"fainting",
	"seizure",
	"stroke",
	"slurred speech",
	"face drooping",
	"suicidal",
	"বুকে ব্যথা",
	"শ্বাসকষ্ট",
	"অজ্ঞান",
	"খিঁচুনি",
	"অতিরিক্ত রক্তপাত",
}

var defaultCategories = map[domain.Language][]domain.HealthCategory{
	domain.LanguageEnglish: {
		{ID: "nutrition", Name: "Nutrition", Icon: "restaurant"},
		{ID: "exercise", Name: "Exercise", Icon: "fitness_center"},
		{ID: "mental", Name: "Mental Health", Icon: "psychology"},
		{ID: "sleep", Name: "Sleep", Icon: "bedtime"},
		{ID: "hydration", Name: "Hydration", Icon: "water_drop"},
		{ID: "general", Name: "General", Icon: "health_and_safety"},
	},
	domain.LanguageBangla: {
		{ID: "nutrition", Name: "পুষ্টি", Icon: "restaurant"},
		{ID: "exercise", Name: "ব্যায়াম", Icon: "fitness_center"},
		{ID: "mental", Name: "মানসিক স্বাস্থ্য", Icon: "psychology"},
		{ID: "sleep", Name: "ঘুম", Icon: "bedtime"},
		{ID: "hydration", Name: "পানি পান", Icon: "water_drop"},
		{ID: "general", Name: "সাধারণ", Icon: "health_and_safety"},
	},
}

// EmergencyKeywords returns a copy of the configured keyword list.
func (t *Tables) EmergencyKeywords() []string {
	return append([]string(nil), t.emergencyKeywords...)
}

// Categories returns the tips categories for lang, falling back to English.
func (t *Tables) Categories(lang domain.Language) []domain.HealthCategory {
	if c, ok := t.categories[lang]; ok {
		return append([]domain.HealthCategory(nil), c...)
	}
	return append([]domain.HealthCategory(nil), t.categories[domain.LanguageEnglish]...)
}

// HasCategory reports whether id names a known tips category.
func (t *Tables) HasCategory(id string) bool {
	for _, c := range t.categories[domain.LanguageEnglish] {
		if c.ID == id {
			return true
		}
	}
	return false
}

// EmergencySymptoms returns the user-facing emergency symptom list for lang.
func (t *Tables) EmergencySymptoms(lang domain.Language) []string {
	if s, ok := t.emergencyDisplay[lang]; ok {
		return append([]string(nil), s...)
	}
	return append([]string(nil), t.emergencyDisplay[domain.LanguageEnglish]...)
}

func (t *Tables) recommendationsFor(level domain.RiskLevel) []string {
	out := append([]string(nil), t.recommendations[level]...)
	if level != domain.RiskEmergency {
		out = append(out, t.general...)
	}
	return out
}
