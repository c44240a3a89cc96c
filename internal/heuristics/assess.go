package heuristics

import (
	"sort"
	"strings"

	"sahara/internal/domain"
)

// Assessor scores symptom sets against a Tables instance.
type Assessor struct {
	tables *Tables
}

// NewAssessor returns an Assessor over t. A nil t uses DefaultTables.
func NewAssessor(t *Tables) *Assessor {
	if t == nil {
		t = DefaultTables()
	}
	return &Assessor{tables: t}
}

// Tables returns the rule set the assessor was built with.
func (a *Assessor) Tables() *Tables {
	return a.tables
}

// MatchEmergency returns the sorted, de-duplicated emergency keywords
// contained in any of the symptoms.
func (a *Assessor) MatchEmergency(symptoms []string) []string {
	seen := make(map[string]bool)
	for _, s := range symptoms {
		s = strings.ToLower(s)
		for _, kw := range a.tables.emergencyKeywords {
			if strings.Contains(s, kw) {
				seen[kw] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for kw := range seen {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// AssessRisk classifies a symptom set. An emergency keyword match always
// wins; otherwise severity, duration and symptom count are scored.
func (a *Assessor) AssessRisk(symptoms []string, severity domain.Severity, durationDays int) domain.RiskAssessment {
	if matched := a.MatchEmergency(symptoms); len(matched) > 0 {
		return a.assessment(domain.RiskEmergency, matched, domain.RiskSourceKeyword)
	}

	score := a.tables.severityPoints[severity]
	score += a.durationPoints(durationDays)
	if countNonEmpty(symptoms) > a.tables.manySymptoms {
		score++
	}

	level := domain.RiskLow
	switch {
	case score >= 3:
		level = domain.RiskHigh
	case score >= 1:
		level = domain.RiskMedium
	}
	return a.assessment(level, []string{}, domain.RiskSourceHeuristic)
}

// Reconcile bounds an AI-suggested level by the heuristic prior. A keyword
// emergency is final. The AI may not raise to emergency and may not move
// more than one step from the prior. An empty or unknown level keeps the prior.
func (a *Assessor) Reconcile(prior domain.RiskAssessment, aiLevel domain.RiskLevel) domain.RiskAssessment {
	if prior.Source == domain.RiskSourceKeyword || prior.RiskLevel == domain.RiskEmergency {
		return prior
	}
	ai := aiLevel.Ordinal()
	if ai < 0 {
		return prior
	}
	if aiLevel == domain.RiskEmergency {
		ai = domain.RiskHigh.Ordinal()
	}
	p := prior.RiskLevel.Ordinal()
	switch {
	case ai > p+1:
		ai = p + 1
	case ai < p-1:
		ai = p - 1
	}
	level := domain.RiskLevels[ai]
	if level == prior.RiskLevel {
		return prior
	}
	return a.assessment(level, prior.MatchedSymptoms, domain.RiskSourceAI)
}

// ParseRiskLevel normalizes a free-form level. Unknown input returns "".
func ParseRiskLevel(s string) domain.RiskLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return domain.RiskLow
	case "medium", "moderate":
		return domain.RiskMedium
	case "high", "severe":
		return domain.RiskHigh
	case "emergency", "critical":
		return domain.RiskEmergency
	}
	return ""
}

func (a *Assessor) assessment(level domain.RiskLevel, matched []string, src domain.RiskSource) domain.RiskAssessment {
	recs := a.tables.recommendationsFor(level)
	var first string
	if len(recs) > 0 {
		first = recs[0]
	}
	return domain.RiskAssessment{
		RiskLevel:        level,
		MatchedSymptoms:  matched,
		Recommendation:   first,
		Recommendations:  recs,
		UrgentCareNeeded: level.Ordinal() >= domain.RiskHigh.Ordinal(),
		Source:           src,
	}
}

func (a *Assessor) durationPoints(days int) int {
	for _, b := range a.tables.durationBuckets {
		if days <= b.MaxDays {
			return b.Points
		}
	}
	return a.tables.longDuration
}

func countNonEmpty(ss []string) int {
	n := 0
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}
