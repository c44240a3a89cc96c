package structuring

import (
	"regexp"
	"sort"
	"strings"
)

// Vocabulary is the word list the prescription rules are compiled from.
// It is copied into the Engine at construction and never mutated.
type Vocabulary struct {
	// Units that may follow a number in a dosage, singular and plural.
	Units []string
	// FrequencyPhrases are literal phrases such as "twice daily".
	FrequencyPhrases []string
	// FrequencyAbbreviations are upper-case sig codes such as "BD".
	FrequencyAbbreviations []string
	// DurationUnits may follow a number in a duration.
	DurationUnits []string
}

// DefaultVocabulary returns the built-in English prescription vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Units: []string{
			"mg", "mcg", "g", "ml", "iu",
			"unit", "units",
			"tablet", "tablets", "tab", "tabs",
			"capsule", "capsules", "cap", "caps",
			"drop", "drops", "puff", "puffs",
			"tsp", "tbsp",
		},
		FrequencyPhrases: []string{
			"once daily", "twice daily", "thrice daily",
			"once a day", "twice a day", "thrice a day",
			"once per day", "twice per day", "thrice per day",
			"at bedtime", "at night", "in the morning",
			"before meals", "after meals", "as needed",
		},
		FrequencyAbbreviations: []string{
			"OD", "BD", "BID", "TDS", "TID", "QID", "QDS", "HS", "SOS", "PRN",
		},
		DurationUnits: []string{
			"day", "days", "week", "weeks", "month", "months",
		},
	}
}

func (v Vocabulary) clone() Vocabulary {
	return Vocabulary{
		Units:                  append([]string(nil), v.Units...),
		FrequencyPhrases:       append([]string(nil), v.FrequencyPhrases...),
		FrequencyAbbreviations: append([]string(nil), v.FrequencyAbbreviations...),
		DurationUnits:          append([]string(nil), v.DurationUnits...),
	}
}

// alternation quotes words and joins them longest first, so the leftmost-first
// regexp engine prefers "tablets" over "tab".
func alternation(words []string) string {
	ws := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		q := regexp.QuoteMeta(w)
		ws = append(ws, strings.ReplaceAll(q, " ", `\s+`))
	}
	sort.SliceStable(ws, func(i, j int) bool { return len(ws[i]) > len(ws[j]) })
	return strings.Join(ws, "|")
}

// patterns holds every regular expression compiled from a Vocabulary.
type patterns struct {
	dosage      *regexp.Regexp
	frequencies []*regexp.Regexp
	duration    *regexp.Regexp
}

func compile(v Vocabulary) *patterns {
	p := &patterns{
		dosage: regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:` + alternation(v.Units) + `)\b`),
		frequencies: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b\d+\s*(?:x|times?)\s*(?:a\s+day|daily|per\s+day)\b`),
			regexp.MustCompile(`(?i)\bevery\s+\d+\s*(?:hours?|hrs?|h)\b`),
			regexp.MustCompile(`\b\d\s*-\s*\d\s*-\s*\d\b`),
		},
		duration: regexp.MustCompile(`(?i)(?:\bfor\s+)?\b(\d+\s*(?:` + alternation(v.DurationUnits) + `))\b`),
	}
	if alt := alternation(v.FrequencyPhrases); alt != "" {
		p.frequencies = append(p.frequencies, regexp.MustCompile(`(?i)\b(?:`+alt+`)\b`))
	}
	if alt := alternation(v.FrequencyAbbreviations); alt != "" {
		p.frequencies = append(p.frequencies, regexp.MustCompile(`\b(?:`+alt+`)\b`))
	}
	return p
}
