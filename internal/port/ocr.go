package port

import (
	"context"

	"sahara/internal/domain"
)

// OCRInput is an encoded image plus an optional language hint.
type OCRInput struct {
	Image        []byte
	ContentType  string
	LanguageHint domain.Language
}

// OCRProvider recognizes text in an image. An image without text is not an
// error: the returned document simply has empty RawText.
type OCRProvider interface {
	Recognize(ctx context.Context, input OCRInput) (*domain.RecognizedDocument, error)
	Name() string
}
