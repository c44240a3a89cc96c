//go:build tesseract

package tesseract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"sahara/internal/domain"
	"sahara/internal/ocr/tesseract"
	"sahara/internal/port"
)

func TestProvider_Name(t *testing.T) {
	assert.Equal(t, "tesseract", tesseract.NewProvider().Name())
}

func TestProvider_Recognize_RejectsNonImage(t *testing.T) {
	_, err := tesseract.NewProvider().Recognize(context.Background(), port.OCRInput{Image: []byte("plain text")})
	assert.True(t, errors.Is(err, domain.ErrUnsupportedImage))
}
