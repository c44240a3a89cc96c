package heuristics

import (
	"regexp"
	"strconv"
	"strings"
)

var durationRe = regexp.MustCompile(`(?i)(\d+)\s*(days?|weeks?|wks?|months?|years?|yrs?|mo|d|w|দিন|সপ্তাহ|মাস)(?:[^a-z]|$)`)

var durationFactors = map[string]int{
	"day": 1, "days": 1, "d": 1, "দিন": 1,
	"week": 7, "weeks": 7, "wk": 7, "wks": 7, "w": 7, "সপ্তাহ": 7,
	"month": 30, "months": 30, "mo": 30, "মাস": 30,
	"year": 365, "years": 365, "yr": 365, "yrs": 365,
}

// ParseDurationDays converts a free-text duration such as "3 days" or
// "2 weeks" to days. A bare number is read as days. The second return is
// false when s carries no recognizable duration.
func ParseDurationDays(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n, true
	}
	m := durationRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n * durationFactors[strings.ToLower(m[2])], true
}
