//go:build tesseract

package main

import (
	"fmt"

	"sahara/internal/config"
	"sahara/internal/ocr/tesseract"
	"sahara/internal/ocr/vision"
	"sahara/internal/port"
)

// newOCRProvider builds the configured OCR engine.
func newOCRProvider(cfg *config.OCRConfig) (port.OCRProvider, error) {
	switch cfg.Provider {
	case "vision", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("vision: api key is required")
		}
		return vision.NewProvider(cfg), nil
	case "tesseract":
		return tesseract.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unknown OCR provider: %s", cfg.Provider)
	}
}
