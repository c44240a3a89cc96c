// Package vision implements port.OCRProvider using the Google Cloud Vision
// images:annotate REST endpoint.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sahara/internal/config"
	"sahara/internal/domain"
	"sahara/internal/ocr"
	"sahara/internal/port"
)

const (
	apiURL     = "https://vision.googleapis.com/v1/images:annotate"
	engineName = "google-vision"
)

// Provider implements port.OCRProvider.
type Provider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewProvider creates a Vision provider from the OCR config.
func NewProvider(cfg *config.OCRConfig) *Provider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	return newProvider(cfg, endpoint)
}

// NewProviderWithEndpoint creates a provider pointing at a custom API endpoint (for testing).
func NewProviderWithEndpoint(cfg *config.OCRConfig, endpoint string) *Provider {
	return newProvider(cfg, endpoint)
}

func newProvider(cfg *config.OCRConfig, endpoint string) *Provider {
	return &Provider{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: cfg.Timeout() + 5*time.Second},
	}
}

// Name identifies the engine in results and logs.
func (p *Provider) Name() string { return engineName }

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image struct {
		Content string `json:"content"`
	} `json:"image"`
	Features     []feature `json:"features"`
	ImageContext struct {
		LanguageHints []string `json:"languageHints,omitempty"`
	} `json:"imageContext"`
}

type feature struct {
	Type string `json:"type"`
}

func (p *Provider) Recognize(ctx context.Context, input port.OCRInput) (*domain.RecognizedDocument, error) {
	meta, _, err := ocr.DetectImage(input.Image)
	if err != nil {
		return nil, err
	}

	var ir imageRequest
	ir.Image.Content = base64.StdEncoding.EncodeToString(input.Image)
	ir.Features = []feature{{Type: "DOCUMENT_TEXT_DETECTION"}}
	ir.ImageContext.LanguageHints = ocr.VisionLanguageHints(input.LanguageHint)

	bodyBytes, err := json.Marshal(annotateRequest{Requests: []imageRequest{ir}})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling vision API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 300))
	}

	doc, err := parseResponse(respBody)
	if err != nil {
		return nil, err
	}
	doc.Image = meta
	doc.Language = input.LanguageHint
	return doc, nil
}

type vertex struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type boundingPoly struct {
	Vertices []vertex `json:"vertices"`
}

type symbol struct {
	Text     string `json:"text"`
	Property *struct {
		DetectedBreak *struct {
			Type string `json:"type"`
		} `json:"detectedBreak"`
	} `json:"property"`
}

type paragraph struct {
	Words []struct {
		Symbols []symbol `json:"symbols"`
	} `json:"words"`
}

type block struct {
	BoundingBox boundingPoly `json:"boundingBox"`
	Confidence  float64      `json:"confidence"`
	Paragraphs  []paragraph  `json:"paragraphs"`
}

// annotateResponse models the subset of the Vision response we read.
type annotateResponse struct {
	Responses []struct {
		FullTextAnnotation *struct {
			Text  string `json:"text"`
			Pages []struct {
				Blocks []block `json:"blocks"`
			} `json:"pages"`
		} `json:"fullTextAnnotation"`
		TextAnnotations []struct {
			Description  string       `json:"description"`
			BoundingPoly boundingPoly `json:"boundingPoly"`
		} `json:"textAnnotations"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

func parseResponse(body []byte) (*domain.RecognizedDocument, error) {
	var resp annotateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil, fmt.Errorf("vision API returned no responses")
	}
	r := resp.Responses[0]
	if r.Error != nil && r.Error.Message != "" {
		return nil, fmt.Errorf("vision API error (code %d): %s", r.Error.Code, r.Error.Message)
	}

	doc := &domain.RecognizedDocument{Engine: engineName, Blocks: []domain.TextBlock{}}

	if fta := r.FullTextAnnotation; fta != nil {
		doc.RawText = ocr.NormalizeText(fta.Text)
		for _, page := range fta.Pages {
			for _, b := range page.Blocks {
				text := ocr.NormalizeText(blockText(b.Paragraphs))
				if text == "" {
					continue
				}
				doc.Blocks = append(doc.Blocks, domain.TextBlock{
					Text:       text,
					Bounds:     toBox(b.BoundingBox),
					Confidence: ocr.Clamp01(b.Confidence),
				})
			}
		}
		return doc, nil
	}

	// TEXT_DETECTION-style payloads carry the full text in the first annotation
	// and no confidence.
	if len(r.TextAnnotations) > 0 {
		first := r.TextAnnotations[0]
		doc.RawText = ocr.NormalizeText(first.Description)
		if doc.RawText != "" {
			doc.Blocks = append(doc.Blocks, domain.TextBlock{
				Text:   doc.RawText,
				Bounds: toBox(first.BoundingPoly),
			})
		}
	}
	return doc, nil
}

func blockText(paragraphs []paragraph) string {
	var sb strings.Builder
	for _, para := range paragraphs {
		for _, w := range para.Words {
			for _, s := range w.Symbols {
				sb.WriteString(s.Text)
				if s.Property == nil || s.Property.DetectedBreak == nil {
					continue
				}
				switch s.Property.DetectedBreak.Type {
				case "SPACE", "SURE_SPACE":
					sb.WriteByte(' ')
				case "EOL_SURE_SPACE", "LINE_BREAK":
					sb.WriteByte('\n')
				}
			}
		}
	}
	return sb.String()
}

func toBox(p boundingPoly) domain.BoundingBox {
	if len(p.Vertices) == 0 {
		return domain.BoundingBox{}
	}
	minX, minY := p.Vertices[0].X, p.Vertices[0].Y
	maxX, maxY := minX, minY
	for _, v := range p.Vertices[1:] {
		minX = min(minX, v.X)
		minY = min(minY, v.Y)
		maxX = max(maxX, v.X)
		maxY = max(maxY, v.Y)
	}
	return domain.BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
