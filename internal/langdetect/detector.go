// Package langdetect classifies short texts by script using character counts.
package langdetect

import (
	"strings"
	"unicode"

	"sahara/internal/domain"
)

// DefaultThreshold is the share of target-script letters above which a text
// is classified as the target language.
const DefaultThreshold = 0.3

// Config parameterizes a Detector. Zero values fall back to English default,
// Bengali target and DefaultThreshold.
type Config struct {
	Default   domain.Language
	Target    domain.Language
	Script    *unicode.RangeTable
	Threshold float64
}

// Detector is immutable and safe for concurrent use.
type Detector struct {
	def       domain.Language
	target    domain.Language
	script    *unicode.RangeTable
	threshold float64
}

// New creates a Detector from cfg.
func New(cfg Config) *Detector {
	d := &Detector{
		def:       cfg.Default,
		target:    cfg.Target,
		script:    cfg.Script,
		threshold: cfg.Threshold,
	}
	if !domain.SupportedLanguages[d.def] {
		d.def = domain.LanguageEnglish
	}
	if d.target == "" {
		d.target = domain.LanguageBangla
	}
	if d.script == nil {
		d.script = unicode.Bengali
	}
	if d.threshold <= 0 || d.threshold >= 1 {
		d.threshold = DefaultThreshold
	}
	return d
}

// Default returns the language used for empty or ambiguous input.
func (d *Detector) Default() domain.Language {
	return d.def
}

// Detect returns the target language when more than the threshold share of
// alphabetic characters belong to the target script, else the default.
func (d *Detector) Detect(text string) domain.Language {
	var alpha, target int
	for _, r := range text {
		inScript := unicode.Is(d.script, r)
		if !inScript && !unicode.IsLetter(r) {
			continue
		}
		// Bengali vowel signs are marks, not letters; they still count.
		if inScript && !unicode.IsLetter(r) && !unicode.IsMark(r) {
			continue
		}
		alpha++
		if inScript {
			target++
		}
	}
	if alpha == 0 {
		return d.def
	}
	if float64(target)/float64(alpha) > d.threshold {
		return d.target
	}
	return d.def
}

// Resolve returns the requested language when it is supported and detects it
// from text when the request is empty, "auto" or unknown.
func (d *Detector) Resolve(requested, text string) domain.Language {
	lang := domain.Language(strings.ToLower(strings.TrimSpace(requested)))
	if domain.SupportedLanguages[lang] {
		return lang
	}
	return d.Detect(text)
}
