//go:build tesseract

// Package tesseract implements port.OCRProvider on a local Tesseract install
// through gosseract. It needs libtesseract and the eng/ben traineddata, so it
// is only compiled with the tesseract build tag.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"sahara/internal/domain"
	"sahara/internal/ocr"
	"sahara/internal/port"
)

const engineName = "tesseract"

// Provider implements port.OCRProvider.
type Provider struct {
	segMode gosseract.PageSegMode
}

// NewProvider creates a Tesseract provider using automatic page segmentation.
func NewProvider() *Provider {
	return &Provider{segMode: gosseract.PSM_AUTO}
}

// Name identifies the engine in results and logs.
func (p *Provider) Name() string { return engineName }

type result struct {
	doc *domain.RecognizedDocument
	err error
}

// Recognize runs Tesseract in its own goroutine so a cancelled context
// returns promptly. The cgo call itself cannot be interrupted and finishes
// in the background.
func (p *Provider) Recognize(ctx context.Context, input port.OCRInput) (*domain.RecognizedDocument, error) {
	meta, _, err := ocr.DetectImage(input.Image)
	if err != nil {
		return nil, err
	}

	done := make(chan result, 1)
	go func() {
		doc, err := p.recognize(input)
		done <- result{doc: doc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		r.doc.Image = meta
		r.doc.Language = input.LanguageHint
		return r.doc, nil
	}
}

func (p *Provider) recognize(input port.OCRInput) (*domain.RecognizedDocument, error) {
	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if err := client.SetLanguage(ocr.TesseractLanguages(input.LanguageHint)...); err != nil {
		return nil, fmt.Errorf("setting tesseract languages: %w", err)
	}
	if err := client.SetPageSegMode(p.segMode); err != nil {
		return nil, fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(input.Image); err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("running tesseract: %w", err)
	}

	doc := &domain.RecognizedDocument{
		RawText: ocr.NormalizeText(text),
		Blocks:  []domain.TextBlock{},
		Engine:  engineName,
	}
	if doc.RawText == "" {
		return doc, nil
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("reading block boxes: %w", err)
	}
	for _, b := range boxes {
		blockText := ocr.NormalizeText(b.Word)
		if blockText == "" {
			continue
		}
		doc.Blocks = append(doc.Blocks, domain.TextBlock{
			Text: blockText,
			Bounds: domain.BoundingBox{
				X:      b.Box.Min.X,
				Y:      b.Box.Min.Y,
				Width:  b.Box.Dx(),
				Height: b.Box.Dy(),
			},
			// Tesseract reports confidence as a percentage.
			Confidence: ocr.Clamp01(b.Confidence / 100),
		})
	}
	return doc, nil
}
