// Package export renders structured medical records as CSV or XLSX files.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"sahara/internal/domain"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx", case-insensitively. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", domain.InvalidInputf("unsupported export format %q", s)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

var (
	prescriptionColumns = []string{"Doctor", "Patient", "Date", "Diagnosis", "Drug Name", "Dosage", "Frequency", "Duration"}
	labReportColumns    = []string{"Patient", "Date", "Test Name", "Value", "Unit", "Reference Range", "Flag"}
	genericColumns      = []string{"Label", "Value"}
)

// Table is a record flattened into a header row plus data rows.
type Table struct {
	Sheet   string
	Columns []string
	Rows    [][]string
}

// Tabulate flattens rec. Record-level fields (doctor, patient, date) are
// repeated on every row so each row stands on its own in a spreadsheet.
// A prescription or lab report with metadata but no entries yields a single
// row carrying only the metadata.
func Tabulate(rec *domain.StructuredMedicalRecord) (*Table, error) {
	if rec == nil {
		return nil, domain.InvalidInputf("record is required")
	}

	switch rec.Kind {
	case domain.DocumentKindPrescription:
		t := &Table{Sheet: "Prescription", Columns: prescriptionColumns}
		p := rec.Prescription
		if p == nil {
			return t, nil
		}
		meta := []string{p.Doctor, p.Patient, p.Date, p.Diagnosis}
		for _, it := range p.Items {
			t.Rows = append(t.Rows, concat(meta, it.DrugName, it.Dosage, it.Frequency, it.Duration))
		}
		if len(p.Items) == 0 && !blank(meta) {
			t.Rows = append(t.Rows, concat(meta, "", "", "", ""))
		}
		return t, nil

	case domain.DocumentKindLabReport:
		t := &Table{Sheet: "Lab Report", Columns: labReportColumns}
		l := rec.LabReport
		if l == nil {
			return t, nil
		}
		meta := []string{l.Patient, l.Date}
		for _, r := range l.Results {
			t.Rows = append(t.Rows, concat(meta, r.TestName, r.Value, r.Unit, r.ReferenceRange, string(r.Flag)))
		}
		if len(l.Results) == 0 && !blank(meta) {
			t.Rows = append(t.Rows, concat(meta, "", "", "", "", ""))
		}
		return t, nil

	case domain.DocumentKindGeneric:
		t := &Table{Sheet: "Document", Columns: genericColumns}
		if rec.Generic != nil {
			for _, e := range rec.Generic.Entries {
				t.Rows = append(t.Rows, []string{e.Label, e.Value})
			}
		}
		return t, nil
	}
	return nil, domain.InvalidInputf("unknown document kind %q", rec.Kind)
}

// Write renders t in format f.
func Write(w io.Writer, f Format, t *Table) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return WriteCSV(w, t)
	}
}

func concat(meta []string, vals ...string) []string {
	row := make([]string, 0, len(meta)+len(vals))
	row = append(row, meta...)
	return append(row, vals...)
}

func blank(vals []string) bool {
	for _, v := range vals {
		if v != "" {
			return false
		}
	}
	return true
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces characters outside [a-zA-Z0-9_-] with _,
// collapses consecutive underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a Content-Disposition filename of the form
// {kind}_{YYYY-MM-DD}.{format}.
func BuildFilename(kind domain.DocumentKind, f Format, now time.Time) string {
	name := SanitizeFilename(string(kind))
	if name == "" {
		name = "document"
	}
	return fmt.Sprintf("%s_%s.%s", name, now.Format("2006-01-02"), f)
}
