package structuring

import (
	"regexp"
	"strings"

	"sahara/internal/domain"
)

var (
	listMarkerRe     = regexp.MustCompile(`^(?:[-*•]|\d{1,2}[.)])\s*`)
	doctorTitleRe    = regexp.MustCompile(`\b(?:Dr\.?|DR\.?)\s+[A-Z][A-Za-z.]*(?:\s+[A-Z][A-Za-z.]*)*`)
	doctorLabelRe    = regexp.MustCompile(`(?i)^(?:doctor|physician|consultant)\s*[:\-]\s*(.+)$`)
	patientLabelRe   = regexp.MustCompile(`(?i)^(?:patient(?:\s+name)?|name)\s*[:\-]\s*(.+)$`)
	diagnosisLabelRe = regexp.MustCompile(`(?i)^(?:diagnosis|dx|impression)\s*[:\-]\s*(.+)$`)
	dateLabelRe      = regexp.MustCompile(`(?i)^date\s*[:\-]\s*(.+)$`)
	columnGapRe      = regexp.MustCompile(`\s{2,}|\t`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`),
		regexp.MustCompile(`\b\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?,?\s+\d{4}\b`),
		regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`),
	}
)

func (e *Engine) structurePrescription(lines []string) *domain.PrescriptionRecord {
	rec := &domain.PrescriptionRecord{Items: []domain.PrescriptionItem{}}

	for _, line := range lines {
		if e.prescriptionHeader(line, rec) {
			continue
		}
		if item, ok := e.prescriptionItem(line); ok {
			rec.Items = append(rec.Items, item)
		}
	}
	if rec.Date == "" {
		rec.Date = findDate(lines)
	}
	return rec
}

// prescriptionHeader fills header fields from a labelled line and reports
// whether the line carried only header data.
func (e *Engine) prescriptionHeader(line string, rec *domain.PrescriptionRecord) bool {
	if m := patientLabelRe.FindStringSubmatch(line); m != nil {
		setOnce(&rec.Patient, firstColumn(m[1]))
		return true
	}
	if m := diagnosisLabelRe.FindStringSubmatch(line); m != nil {
		setOnce(&rec.Diagnosis, strings.TrimSpace(m[1]))
		return true
	}
	if m := doctorLabelRe.FindStringSubmatch(line); m != nil {
		setOnce(&rec.Doctor, firstColumn(m[1]))
		return true
	}
	if m := dateLabelRe.FindStringSubmatch(line); m != nil {
		if d := findDate([]string{m[1]}); d != "" {
			setOnce(&rec.Date, d)
		} else {
			setOnce(&rec.Date, firstColumn(m[1]))
		}
		return true
	}
	if m := doctorTitleRe.FindString(line); m != "" {
		setOnce(&rec.Doctor, strings.TrimSpace(m))
		return !e.isCandidate(line)
	}
	return false
}

func (e *Engine) isCandidate(line string) bool {
	if e.rx.dosage.MatchString(line) {
		return true
	}
	for _, re := range e.rx.frequencies {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// prescriptionItem extracts a drug entry from a line that mentions a dosage
// or a frequency. The drug name is whatever precedes the first such token.
func (e *Engine) prescriptionItem(line string) (domain.PrescriptionItem, bool) {
	var item domain.PrescriptionItem
	first := -1
	mark := func(start int) {
		if first < 0 || start < first {
			first = start
		}
	}

	if loc := e.rx.dosage.FindStringIndex(line); loc != nil {
		item.Dosage = line[loc[0]:loc[1]]
		mark(loc[0])
	}
	freqStart := -1
	for _, re := range e.rx.frequencies {
		if loc := re.FindStringIndex(line); loc != nil && (freqStart < 0 || loc[0] < freqStart) {
			freqStart = loc[0]
			item.Frequency = line[loc[0]:loc[1]]
		}
	}
	if freqStart >= 0 {
		mark(freqStart)
	}
	if item.Dosage == "" && item.Frequency == "" {
		return item, false
	}
	if m := e.rx.duration.FindStringSubmatchIndex(line); m != nil {
		item.Duration = line[m[2]:m[3]]
		mark(m[0])
	}

	name := line[:first]
	name = listMarkerRe.ReplaceAllString(strings.TrimSpace(name), "")
	item.DrugName = strings.TrimRight(strings.TrimSpace(name), " -:,")
	return item, true
}

func findDate(lines []string) string {
	for _, line := range lines {
		for _, re := range datePatterns {
			if m := re.FindString(line); m != "" {
				return m
			}
		}
	}
	return ""
}

// firstColumn keeps the text before a column gap, so "John  Age: 40" yields "John".
func firstColumn(s string) string {
	s = strings.TrimSpace(s)
	if loc := columnGapRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.TrimSpace(s)
}

func setOnce(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
