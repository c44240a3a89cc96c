package structuring

import (
	"strings"

	"sahara/internal/domain"
)

// maxLabelLen keeps sentences that happen to contain a colon from becoming labels.
const maxLabelLen = 48

func structureGeneric(lines []string) *domain.GenericRecord {
	rec := &domain.GenericRecord{Entries: []domain.GenericEntry{}}
	for _, line := range lines {
		rec.Entries = append(rec.Entries, genericEntry(line))
	}
	return rec
}

func genericEntry(line string) domain.GenericEntry {
	i := strings.IndexByte(line, ':')
	if i <= 0 || i > maxLabelLen {
		return domain.GenericEntry{Value: line}
	}
	label := strings.TrimSpace(line[:i])
	value := strings.TrimSpace(line[i+1:])
	if label == "" || value == "" || strings.HasPrefix(value, "//") {
		return domain.GenericEntry{Value: line}
	}
	return domain.GenericEntry{Label: label, Value: value}
}
