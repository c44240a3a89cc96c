// Package ocr holds the helpers shared by OCR engine adapters: image
// sniffing, size limits and text normalization.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/unicode/norm"

	"sahara/internal/domain"
)

// supportedFormats maps accepted MIME types to the short format name.
var supportedFormats = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/bmp":  "bmp",
	"image/tiff": "tiff",
}

// DetectImage sniffs the image format and, for formats the standard decoders
// understand, its pixel dimensions. Non-image payloads fail with
// domain.ErrUnsupportedImage.
func DetectImage(data []byte) (domain.ImageMeta, string, error) {
	if len(data) == 0 {
		return domain.ImageMeta{}, "", fmt.Errorf("%w: empty image", domain.ErrUnsupportedImage)
	}
	mt := mimetype.Detect(data)
	mime := mt.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	format, ok := supportedFormats[mime]
	if !ok {
		return domain.ImageMeta{}, "", fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, mime)
	}

	meta := domain.ImageMeta{Format: format, SizeBytes: len(data)}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		meta.Width = cfg.Width
		meta.Height = cfg.Height
	}
	return meta, mime, nil
}

// CheckSize rejects images larger than maxMB megabytes. maxMB <= 0 disables the check.
func CheckSize(data []byte, maxMB int64) error {
	if maxMB > 0 && int64(len(data)) > maxMB*1024*1024 {
		return domain.InvalidInputf("image is %d bytes, limit is %d MB", len(data), maxMB)
	}
	return nil
}

// NormalizeText converts recognized text to NFC, unifies line endings and
// trims trailing spaces on each line. Bengali vowel signs come back from
// some engines in decomposed form.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Clamp01 limits a confidence to [0,1].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// TesseractLanguages maps a language hint to Tesseract traineddata names.
func TesseractLanguages(hint domain.Language) []string {
	switch hint {
	case domain.LanguageBangla:
		return []string{"ben", "eng"}
	case domain.LanguageEnglish:
		return []string{"eng"}
	}
	return []string{"eng", "ben"}
}

// VisionLanguageHints maps a language hint to Cloud Vision language hints.
func VisionLanguageHints(hint domain.Language) []string {
	switch hint {
	case domain.LanguageBangla:
		return []string{"bn", "en"}
	case domain.LanguageEnglish:
		return []string{"en"}
	}
	return []string{"en", "bn"}
}
