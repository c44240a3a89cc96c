//go:build !tesseract

package main

import (
	"fmt"

	"sahara/internal/config"
	"sahara/internal/ocr/vision"
	"sahara/internal/port"
)

// newOCRProvider builds the configured OCR engine. Tesseract needs a cgo
// build with the tesseract tag.
func newOCRProvider(cfg *config.OCRConfig) (port.OCRProvider, error) {
	switch cfg.Provider {
	case "vision", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("vision: api key is required")
		}
		return vision.NewProvider(cfg), nil
	case "tesseract":
		return nil, fmt.Errorf("tesseract: binary built without the tesseract build tag")
	default:
		return nil, fmt.Errorf("unknown OCR provider: %s", cfg.Provider)
	}
}
