package langdetect_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sahara/internal/domain"
	"sahara/internal/langdetect"
)

func newDetector() *langdetect.Detector {
	return langdetect.New(langdetect.Config{})
}

// mixed builds a string with exactly bn Bengali letters and en Latin letters.
func mixed(bn, en int) string {
	return strings.Repeat("ক", bn) + " " + strings.Repeat("a", en)
}

func TestDetect_EmptyReturnsDefault(t *testing.T) {
	d := newDetector()

	assert.Equal(t, domain.LanguageEnglish, d.Detect(""))
	assert.Equal(t, domain.LanguageEnglish, d.Detect("   \n\t "))
}

func TestDetect_ConfiguredDefault(t *testing.T) {
	d := langdetect.New(langdetect.Config{Default: domain.LanguageBangla})

	assert.Equal(t, domain.LanguageBangla, d.Detect(""))
	assert.Equal(t, domain.LanguageBangla, d.Detect("12345 !!"))
}

func TestDetect_SixtyPercentBengali(t *testing.T) {
	d := newDetector()

	assert.Equal(t, domain.LanguageBangla, d.Detect(mixed(6, 4)))
}

func TestDetect_FivePercentBengali(t *testing.T) {
	d := newDetector()

	assert.Equal(t, domain.LanguageEnglish, d.Detect(mixed(1, 19)))
}

func TestDetect_ThresholdIsExclusive(t *testing.T) {
	d := newDetector()

	assert.Equal(t, domain.LanguageEnglish, d.Detect(mixed(3, 7)))
	assert.Equal(t, domain.LanguageBangla, d.Detect(mixed(4, 6)))
}

func TestDetect_CustomThreshold(t *testing.T) {
	d := langdetect.New(langdetect.Config{Threshold: 0.5})

	assert.Equal(t, domain.LanguageEnglish, d.Detect(mixed(4, 6)))
	assert.Equal(t, domain.LanguageBangla, d.Detect(mixed(6, 4)))
}

func TestDetect_IgnoresDigitsAndPunctuation(t *testing.T) {
	d := newDetector()

	assert.Equal(t, domain.LanguageBangla, d.Detect("আমার ১০২ জ্বর, 3 days!"))
}

func TestDetect_RealSentences(t *testing.T) {
	d := newDetector()

	assert.Equal(t, domain.LanguageBangla, d.Detect("আমার মাথা ব্যথা করছে"))
	assert.Equal(t, domain.LanguageEnglish, d.Detect("What are the symptoms of diabetes?"))
}

func TestDetect_Idempotent(t *testing.T) {
	d := newDetector()
	text := "Paracetamol খাওয়ার পর কি করব?"

	first := d.Detect(text)
	assert.Equal(t, first, d.Detect(text))
}

func TestResolve(t *testing.T) {
	d := newDetector()

	assert.Equal(t, domain.LanguageBangla, d.Resolve("bn", "hello"))
	assert.Equal(t, domain.LanguageEnglish, d.Resolve("EN", "আমার"))
	assert.Equal(t, domain.LanguageBangla, d.Resolve("auto", "আমার জ্বর"))
	assert.Equal(t, domain.LanguageBangla, d.Resolve("", "আমার জ্বর"))
	assert.Equal(t, domain.LanguageEnglish, d.Resolve("fr", "bonjour"))
}
