package structuring

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"sahara/internal/domain"
)

var (
	labSplitRe     = regexp.MustCompile(`:|\t|\s{2,}`)
	bracketRangeRe = regexp.MustCompile(`[(\[]\s*((?:[<>]=?\s*\d+(?:\.\d+)?)|(?:\d+(?:\.\d+)?\s*-\s*\d+(?:\.\d+)?))\s*[)\]]`)
	bareRangeRe    = regexp.MustCompile(`\b\d+(?:\.\d+)?\s*-\s*\d+(?:\.\d+)?\b`)
	bareLimitRe    = regexp.MustCompile(`(?:^|\s)[<>]=?\s*\d+(?:\.\d+)?\b`)
	rangeBoundsRe  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)$`)
	rangeLimitRe   = regexp.MustCompile(`^([<>])=?\s*(\d+(?:\.\d+)?)$`)
	labMetaLabelRe = regexp.MustCompile(`(?i)^(?:date|age|sex|gender|ref\.?\s*by|referred\s+by|sample|specimen|lab\s*no\.?|report\s*id|bill\s*no\.?|collected|reported)\b`)
	labHeaderRowRe = regexp.MustCompile(`(?i)^(?:test(?:\s+name)?|investigation|parameter)s?$`)
)

func (e *Engine) structureLabReport(lines []string) *domain.LabReportRecord {
	rec := &domain.LabReportRecord{Results: []domain.LabResult{}}

	for _, line := range lines {
		if m := patientLabelRe.FindStringSubmatch(line); m != nil {
			setOnce(&rec.Patient, firstColumn(m[1]))
			continue
		}
		if m := dateLabelRe.FindStringSubmatch(line); m != nil {
			if d := findDate([]string{m[1]}); d != "" {
				setOnce(&rec.Date, d)
			} else {
				setOnce(&rec.Date, firstColumn(m[1]))
			}
			continue
		}
		if labMetaLabelRe.MatchString(line) {
			continue
		}
		if res, ok := parseLabLine(line); ok {
			rec.Results = append(rec.Results, res)
		}
	}
	return rec
}

// splitLabLine separates a test name from the rest of the line on the first
// colon, tab or column gap. Lines without a delimiter fall back to the text
// before the first numeric token.
func splitLabLine(line string) (name, rest string, ok bool) {
	if loc := labSplitRe.FindStringIndex(line); loc != nil {
		return strings.TrimSpace(line[:loc[0]]), strings.TrimSpace(line[loc[1]:]), true
	}
	inField := false
	for i, r := range line {
		if unicode.IsSpace(r) {
			inField = false
			continue
		}
		if inField {
			continue
		}
		inField = true
		if i > 0 && startsNumeric(line[i:]) {
			return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i:]), true
		}
	}
	return "", "", false
}

func startsNumeric(s string) bool {
	if s != "" && (s[0] == '<' || s[0] == '>') {
		s = s[1:]
	}
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func parseLabLine(line string) (domain.LabResult, bool) {
	name, rest, ok := splitLabLine(line)
	if !ok || name == "" || rest == "" || labHeaderRowRe.MatchString(name) {
		return domain.LabResult{}, false
	}

	res := domain.LabResult{TestName: name, Flag: domain.LabFlagUnknown}

	// Ranges are cut out with a space left behind, so the remaining tokens
	// stay substrings of the line.
	text := rest
	if m := bracketRangeRe.FindStringSubmatchIndex(rest); m != nil {
		res.ReferenceRange = rest[m[2]:m[3]]
		text = strings.TrimSpace(rest[:m[0]])
		rest = rest[:m[0]] + " " + rest[m[1]:]
	}

	// A line that opens with a bare range carries the range, not a value.
	if res.ReferenceRange == "" {
		trimmed := strings.TrimSpace(rest)
		if m := bareRangeRe.FindStringIndex(trimmed); m != nil && m[0] == 0 {
			res.ReferenceRange = trimmed[:m[1]]
			rest = " " + trimmed[m[1]:]
			if f := strings.Fields(rest); len(f) == 0 || !isNumber(f[0]) {
				res.Unit = firstUnit(f)
				return res, true
			}
		}
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return domain.LabResult{}, false
	}
	if !isNumber(fields[0]) {
		// Qualitative results such as "Pale yellow" keep the whole text.
		res.Value = text
		if res.Value == "" {
			res.Value = fields[0]
		}
		return res, true
	}

	res.Value = fields[0]
	after := rest[strings.Index(rest, res.Value)+len(res.Value):]
	if res.ReferenceRange == "" {
		for _, re := range []*regexp.Regexp{bareRangeRe, bareLimitRe} {
			if m := re.FindStringIndex(after); m != nil {
				res.ReferenceRange = strings.TrimSpace(after[m[0]:m[1]])
				after = after[:m[0]] + " " + after[m[1]:]
				break
			}
		}
	}

	marker := ""
	for _, f := range strings.Fields(after) {
		switch {
		case isFlagMarker(f):
			if marker == "" {
				marker = f
			}
		case res.Unit == "" && isUnit(f):
			res.Unit = f
		}
	}

	res.Flag = labFlag(res.Value, res.ReferenceRange, marker)
	return res, true
}

// isUnit rejects numbers and separator debris such as "-" or ":".
func isUnit(s string) bool {
	return !isNumber(s) && strings.Trim(s, "-–—:=.,") != ""
}

func firstUnit(fields []string) string {
	for _, f := range fields {
		if !isFlagMarker(f) && isUnit(f) {
			return f
		}
	}
	return ""
}

func isFlagMarker(s string) bool {
	switch s {
	case "H", "L", "*H", "*L", "(H)", "(L)":
		return true
	}
	switch strings.ToLower(s) {
	case "high", "low":
		return true
	}
	return false
}

func markerFlag(marker string) domain.LabFlag {
	m := strings.ToLower(strings.Trim(marker, "*()"))
	switch m {
	case "h", "high":
		return domain.LabFlagHigh
	case "l", "low":
		return domain.LabFlagLow
	}
	return domain.LabFlagUnknown
}

func isNumber(s string) bool {
	_, ok := parseNumber(s)
	return ok
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return v, err == nil
}

// labFlag compares value to the reference range. Explicit markers are used
// only when no range could be parsed.
func labFlag(value, refRange, marker string) domain.LabFlag {
	v, numeric := parseNumber(value)
	if numeric && refRange != "" {
		if m := rangeBoundsRe.FindStringSubmatch(refRange); m != nil {
			lo, _ := strconv.ParseFloat(m[1], 64)
			hi, _ := strconv.ParseFloat(m[2], 64)
			switch {
			case v < lo:
				return domain.LabFlagLow
			case v > hi:
				return domain.LabFlagHigh
			default:
				return domain.LabFlagNormal
			}
		}
		if m := rangeLimitRe.FindStringSubmatch(refRange); m != nil {
			limit, _ := strconv.ParseFloat(m[2], 64)
			if m[1] == "<" {
				if v < limit {
					return domain.LabFlagNormal
				}
				return domain.LabFlagHigh
			}
			if v > limit {
				return domain.LabFlagNormal
			}
			return domain.LabFlagLow
		}
	}
	if marker != "" {
		return markerFlag(marker)
	}
	return domain.LabFlagUnknown
}
