package domain

// DocumentKind selects the structuring rules applied to recognized text.
type DocumentKind string

const (
	DocumentKindPrescription DocumentKind = "prescription"
	DocumentKindLabReport    DocumentKind = "lab_report"
	DocumentKindGeneric      DocumentKind = "generic"
)

// ValidDocumentKinds is the set of kinds the structuring engine accepts.
var ValidDocumentKinds = map[DocumentKind]bool{
	DocumentKindPrescription: true,
	DocumentKindLabReport:    true,
	DocumentKindGeneric:      true,
}

// DocumentStatus describes a successful document outcome. None of these are errors.
type DocumentStatus string

const (
	DocumentStatusOK              DocumentStatus = "ok"
	DocumentStatusNoTextDetected  DocumentStatus = "no_text_detected"
	DocumentStatusExtractionEmpty DocumentStatus = "extraction_empty"
)

// LabFlag compares a lab value against its reference range.
type LabFlag string

const (
	LabFlagNormal  LabFlag = "normal"
	LabFlagHigh    LabFlag = "high"
	LabFlagLow     LabFlag = "low"
	LabFlagUnknown LabFlag = "unknown"
)

// Language is a supported conversation/document language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageBangla  Language = "bn"
)

// LanguageAuto asks the caller layer to detect the language from the message.
const LanguageAuto = "auto"

// SupportedLanguages lists the languages prompts and tables exist for.
var SupportedLanguages = map[Language]bool{
	LanguageEnglish: true,
	LanguageBangla:  true,
}

// Role is the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ProviderSlot identifies which configured AI provider produced a response.
type ProviderSlot string

const (
	ProviderPrimary  ProviderSlot = "primary"
	ProviderFallback ProviderSlot = "fallback"
)

// RiskLevel is the ordinal risk classification of a symptom set.
type RiskLevel string

const (
	RiskLow       RiskLevel = "low"
	RiskMedium    RiskLevel = "medium"
	RiskHigh      RiskLevel = "high"
	RiskEmergency RiskLevel = "emergency"
)

var riskOrdinals = map[RiskLevel]int{
	RiskLow:       0,
	RiskMedium:    1,
	RiskHigh:      2,
	RiskEmergency: 3,
}

// RiskLevels in ascending order.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskEmergency}

// Ordinal returns the position of r in RiskLevels, or -1 when r is not a known level.
func (r RiskLevel) Ordinal() int {
	if o, ok := riskOrdinals[r]; ok {
		return o
	}
	return -1
}

// RiskSource records which rule decided the final risk level.
type RiskSource string

const (
	RiskSourceKeyword   RiskSource = "keyword"
	RiskSourceHeuristic RiskSource = "heuristic"
	RiskSourceAI        RiskSource = "ai"
)

// Severity is the self-reported symptom severity.
type Severity string

const (
	SeverityUnspecified Severity = ""
	SeverityMild        Severity = "mild"
	SeverityModerate    Severity = "moderate"
	SeveritySevere      Severity = "severe"
)

// ValidSeverities is the set of accepted severity values.
var ValidSeverities = map[Severity]bool{
	SeverityUnspecified: true,
	SeverityMild:        true,
	SeverityModerate:    true,
	SeveritySevere:      true,
}
