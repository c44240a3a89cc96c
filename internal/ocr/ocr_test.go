package ocr_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahara/internal/domain"
	"sahara/internal/ocr"
	"sahara/internal/port"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDetectImage_PNG(t *testing.T) {
	meta, mime, err := ocr.DetectImage(pngBytes(t, 40, 20))

	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, "png", meta.Format)
	assert.Equal(t, 40, meta.Width)
	assert.Equal(t, 20, meta.Height)
	assert.Greater(t, meta.SizeBytes, 0)
}

func TestDetectImage_Rejects(t *testing.T) {
	_, _, err := ocr.DetectImage(nil)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedImage))

	_, _, err = ocr.DetectImage([]byte("%PDF-1.4 not an image"))
	assert.True(t, errors.Is(err, domain.ErrUnsupportedImage))

	_, _, err = ocr.DetectImage([]byte("plain text"))
	assert.True(t, errors.Is(err, domain.ErrUnsupportedImage))
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, ocr.CheckSize(make([]byte, 10), 0))
	assert.NoError(t, ocr.CheckSize(make([]byte, 1024*1024), 1))
	err := ocr.CheckSize(make([]byte, 1024*1024+1), 1)
	assert.True(t, errors.Is(err, domain.ErrInputInvalid))
}

func TestNormalizeText(t *testing.T) {
	decomposed := "\u0995\u09c7\u09be"
	got := ocr.NormalizeText("  Line one   \r\n" + decomposed + "\t\rlast  ")

	assert.Equal(t, "Line one\n\u0995\u09cb\nlast", got)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, ocr.Clamp01(-0.2))
	assert.Equal(t, 1.0, ocr.Clamp01(1.3))
	assert.Equal(t, 0.5, ocr.Clamp01(0.5))
}

func TestLanguageHints(t *testing.T) {
	assert.Equal(t, []string{"ben", "eng"}, ocr.TesseractLanguages(domain.LanguageBangla))
	assert.Equal(t, []string{"eng", "ben"}, ocr.TesseractLanguages(""))
	assert.Equal(t, []string{"en"}, ocr.VisionLanguageHints(domain.LanguageEnglish))
}

func TestUnavailable(t *testing.T) {
	u := &ocr.Unavailable{Engine: "vision", Err: errors.New("api key is required")}

	doc, err := u.Recognize(context.Background(), port.OCRInput{Image: []byte("x")})

	assert.Nil(t, doc)
	assert.ErrorContains(t, err, "vision not configured: api key is required")
	assert.Equal(t, "vision", u.Name())
}
