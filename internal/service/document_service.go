package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sahara/internal/config"
	"sahara/internal/domain"
	"sahara/internal/export"
	"sahara/internal/langdetect"
	"sahara/internal/ocr"
	"sahara/internal/port"
	"sahara/internal/structuring"
)

// ImageInput identifies the scan to process: raw bytes, a base64 string
// (optionally a data: URL) or a key in the configured bucket, checked in
// that order.
type ImageInput struct {
	Data        []byte
	Base64      string
	Key         string
	ContentType string
}

// OCRInput is the DTO for plain text recognition.
type OCRInput struct {
	Image    ImageInput
	Language string
}

// OCRResult is the outcome of plain text recognition.
type OCRResult struct {
	Status     domain.DocumentStatus `json:"status"`
	Text       string                `json:"text"`
	Confidence float64               `json:"confidence"`
	WordCount  int                   `json:"word_count"`
	Language   domain.Language       `json:"language"`
	Engine     string                `json:"engine"`
	Image      domain.ImageMeta      `json:"image"`
	Blocks     []domain.TextBlock    `json:"blocks"`
}

// MedicalDocumentInput is the DTO for OCR followed by structuring.
type MedicalDocumentInput struct {
	Image    ImageInput
	Kind     domain.DocumentKind
	Language string
}

// StructureInput is the DTO for structuring text that was recognized elsewhere.
type StructureInput struct {
	RawText  string
	Kind     domain.DocumentKind
	Language string
}

// ExportInput is the DTO for exporting a structured record as a file.
type ExportInput struct {
	RawText string
	Kind    domain.DocumentKind
	Format  export.Format
}

// ExportOutput is a rendered export file.
type ExportOutput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DocumentService defines the medical document pipeline contract.
type DocumentService interface {
	ProcessOCR(ctx context.Context, input *OCRInput) (*OCRResult, error)
	ProcessMedicalDocument(ctx context.Context, input *MedicalDocumentInput) (*domain.DocumentResult, error)
	StructureText(ctx context.Context, input *StructureInput) (*domain.DocumentResult, error)
	Export(ctx context.Context, input *ExportInput) (*ExportOutput, error)
}

type documentService struct {
	ocr      port.OCRProvider
	images   port.ImageSource // nil when no bucket is configured
	engine   *structuring.Engine
	detector *langdetect.Detector
	timeout  time.Duration
	maxMB    int64
	now      func() time.Time
	log      zerolog.Logger
}

// NewDocumentService creates a new DocumentService implementation. images may be nil.
func NewDocumentService(
	ocrProvider port.OCRProvider,
	images port.ImageSource,
	engine *structuring.Engine,
	detector *langdetect.Detector,
	cfg *config.OCRConfig,
	logger zerolog.Logger,
) DocumentService {
	return &documentService{
		ocr:      ocrProvider,
		images:   images,
		engine:   engine,
		detector: detector,
		timeout:  cfg.Timeout(),
		maxMB:    cfg.MaxImageMB,
		now:      time.Now,
		log:      logger.With().Str("component", "service.document").Logger(),
	}
}

func (s *documentService) ProcessOCR(ctx context.Context, input *OCRInput) (*OCRResult, error) {
	doc, err := s.recognize(ctx, input.Image, input.Language)
	if err != nil {
		return nil, err
	}

	result := &OCRResult{
		Status:     domain.DocumentStatusOK,
		Text:       doc.RawText,
		Confidence: doc.MeanConfidence(),
		WordCount:  len(strings.Fields(doc.RawText)),
		Language:   s.documentLanguage(doc, input.Language),
		Engine:     doc.Engine,
		Image:      doc.Image,
		Blocks:     doc.Blocks,
	}
	if !doc.HasText() {
		result.Status = domain.DocumentStatusNoTextDetected
	}

	s.log.Info().
		Str("engine", doc.Engine).
		Str("status", string(result.Status)).
		Int("words", result.WordCount).
		Float64("confidence", result.Confidence).
		Msg("ocr completed")
	return result, nil
}

func (s *documentService) ProcessMedicalDocument(ctx context.Context, input *MedicalDocumentInput) (*domain.DocumentResult, error) {
	kind, err := resolveKind(input.Kind)
	if err != nil {
		return nil, err
	}

	doc, err := s.recognize(ctx, input.Image, input.Language)
	if err != nil {
		return nil, err
	}

	if !doc.HasText() {
		s.log.Info().Str("engine", doc.Engine).Str("kind", string(kind)).Msg("no text detected")
		return &domain.DocumentResult{
			Status:   domain.DocumentStatusNoTextDetected,
			Kind:     kind,
			Language: s.documentLanguage(doc, input.Language),
			Engine:   doc.Engine,
		}, nil
	}

	result, err := s.structure(doc.RawText, kind, s.documentLanguage(doc, input.Language))
	if err != nil {
		return nil, err
	}
	result.Confidence = doc.MeanConfidence()
	result.Engine = doc.Engine
	return result, nil
}

func (s *documentService) StructureText(_ context.Context, input *StructureInput) (*domain.DocumentResult, error) {
	kind, err := resolveKind(input.Kind)
	if err != nil {
		return nil, err
	}
	raw := ocr.NormalizeText(input.RawText)
	if raw == "" {
		return nil, domain.InvalidInputf("raw_text is required")
	}
	lang := s.detector.Resolve(input.Language, raw)
	return s.structure(raw, kind, lang)
}

func (s *documentService) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	result, err := s.StructureText(ctx, &StructureInput{RawText: input.RawText, Kind: input.Kind})
	if err != nil {
		return nil, err
	}
	table, err := export.Tabulate(result.Record)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, input.Format, table); err != nil {
		return nil, fmt.Errorf("rendering %s export: %w", input.Format, err)
	}
	return &ExportOutput{
		Filename:    export.BuildFilename(result.Kind, input.Format, s.now()),
		ContentType: input.Format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func (s *documentService) structure(raw string, kind domain.DocumentKind, lang domain.Language) (*domain.DocumentResult, error) {
	rec, err := s.engine.Structure(raw, kind)
	if err != nil {
		return nil, err
	}

	status := domain.DocumentStatusOK
	if rec.IsEmpty() {
		status = domain.DocumentStatusExtractionEmpty
	}

	s.log.Info().
		Str("kind", string(kind)).
		Str("status", string(status)).
		Str("heuristic_version", rec.HeuristicVersion).
		Int("values", len(rec.Values())).
		Msg("document structured")

	return &domain.DocumentResult{
		Status:    status,
		Kind:      kind,
		Record:    rec,
		RawText:   raw,
		WordCount: len(strings.Fields(raw)),
		Language:  lang,
	}, nil
}

// recognize loads the image, enforces size and format limits, and runs OCR
// under the configured timeout. Engine failures become OCRUnavailableError.
func (s *documentService) recognize(ctx context.Context, img ImageInput, language string) (*domain.RecognizedDocument, error) {
	data, err := s.loadImage(ctx, img)
	if err != nil {
		return nil, err
	}
	if err := ocr.CheckSize(data, s.maxMB); err != nil {
		return nil, err
	}
	if _, _, err := ocr.DetectImage(data); err != nil {
		return nil, err
	}

	ocrCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	doc, err := s.ocr.Recognize(ocrCtx, port.OCRInput{
		Image:        data,
		ContentType:  img.ContentType,
		LanguageHint: languageHint(language),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedImage) || errors.Is(err, domain.ErrInputInvalid) {
			return nil, err
		}
		s.log.Warn().Err(err).Str("engine", s.ocr.Name()).Dur("elapsed", time.Since(start)).Msg("ocr failed")
		return nil, &domain.OCRUnavailableError{Engine: s.ocr.Name(), Err: err}
	}
	return doc, nil
}

func (s *documentService) loadImage(ctx context.Context, img ImageInput) ([]byte, error) {
	switch {
	case len(img.Data) > 0:
		return img.Data, nil
	case strings.TrimSpace(img.Base64) != "":
		return decodeBase64Image(img.Base64)
	case strings.TrimSpace(img.Key) != "":
		if s.images == nil {
			return nil, domain.InvalidInputf("image_key is not supported: no image bucket is configured")
		}
		return s.images.Fetch(ctx, img.Key)
	}
	return nil, domain.InvalidInputf("one of image_base64 or image_key is required")
}

// documentLanguage prefers what the text itself says over the caller's hint.
func (s *documentService) documentLanguage(doc *domain.RecognizedDocument, requested string) domain.Language {
	if doc.HasText() {
		return s.detector.Detect(doc.RawText)
	}
	return s.detector.Resolve(requested, "")
}

func decodeBase64Image(v string) ([]byte, error) {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "data:") {
		i := strings.Index(v, ",")
		if i < 0 {
			return nil, domain.InvalidInputf("malformed data URL")
		}
		v = v[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(v); err != nil {
			return nil, domain.InvalidInputf("image_base64 is not valid base64")
		}
	}
	if len(data) == 0 {
		return nil, domain.InvalidInputf("image_base64 is empty")
	}
	return data, nil
}

func resolveKind(kind domain.DocumentKind) (domain.DocumentKind, error) {
	if kind == "" {
		return domain.DocumentKindPrescription, nil
	}
	k := domain.DocumentKind(strings.ToLower(strings.TrimSpace(string(kind))))
	if !domain.ValidDocumentKinds[k] {
		return "", domain.InvalidInputf("unsupported document_type %q", kind)
	}
	return k, nil
}

func languageHint(requested string) domain.Language {
	lang := domain.Language(strings.ToLower(strings.TrimSpace(requested)))
	if domain.SupportedLanguages[lang] {
		return lang
	}
	return ""
}
