package ocr

import (
	"context"
	"fmt"

	"sahara/internal/domain"
	"sahara/internal/port"
)

// Unavailable is an OCRProvider that always fails with the error that
// prevented the configured engine from being built.
type Unavailable struct {
	Engine string
	Err    error
}

func (u *Unavailable) Recognize(_ context.Context, _ port.OCRInput) (*domain.RecognizedDocument, error) {
	return nil, fmt.Errorf("%s not configured: %w", u.Engine, u.Err)
}

func (u *Unavailable) Name() string {
	return u.Engine
}
