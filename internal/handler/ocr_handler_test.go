package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sahara/internal/domain"
	"sahara/internal/handler"
	"sahara/internal/service"
	"sahara/mocks"
)

func newOCRRouter(maxMB int64) (*gin.Engine, *mocks.MockDocumentService) {
	svc := new(mocks.MockDocumentService)
	h := handler.NewOCRHandler(svc, maxMB)
	r := gin.New()
	r.POST("/ocr/process", h.Process)
	r.POST("/ocr/medical-document", h.MedicalDocument)
	r.POST("/ocr/process-file", h.ProcessFile)
	return r, svc
}

func TestOCRProcess_Success(t *testing.T) {
	r, svc := newOCRRouter(10)

	svc.On("ProcessOCR", mock.Anything, mock.MatchedBy(func(in *service.OCRInput) bool {
		return in.Image.Base64 == "aGVsbG8=" && in.Language == "bn"
	})).Return(&service.OCRResult{
		Status:     domain.DocumentStatusOK,
		Text:       "নাপা ৫০০",
		Confidence: 0.9,
		WordCount:  2,
		Language:   domain.LanguageBangla,
		Engine:     "vision",
	}, nil)

	w := doJSON(t, r, http.MethodPost, "/ocr/process", map[string]string{
		"image_base64": "aGVsbG8=",
		"language":     "bn",
	})

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"word_count":2`)
	svc.AssertExpectations(t)
}

func TestOCRProcess_InvalidLanguage(t *testing.T) {
	r, svc := newOCRRouter(10)

	w := doJSON(t, r, http.MethodPost, "/ocr/process", map[string]string{
		"image_base64": "aGVsbG8=",
		"language":     "fr",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decode(t, w).Error.Code)
	svc.AssertNotCalled(t, "ProcessOCR", mock.Anything, mock.Anything)
}

func TestOCRProcess_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing image", domain.InvalidInputf("one of image_base64 or image_key is required"), http.StatusBadRequest, "INVALID_INPUT"},
		{"unsupported", domain.ErrUnsupportedImage, http.StatusUnsupportedMediaType, "UNSUPPORTED_IMAGE"},
		{"key missing", domain.ErrImageNotFound, http.StatusNotFound, "IMAGE_NOT_FOUND"},
		{"ocr failed", &domain.OCRUnavailableError{Engine: "vision", Err: assert.AnError}, http.StatusBadGateway, "OCR_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := newOCRRouter(10)
			svc.On("ProcessOCR", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := doJSON(t, r, http.MethodPost, "/ocr/process", map[string]string{"image_key": "uploads/a.png"})

			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestOCRMedicalDocument_Success(t *testing.T) {
	r, svc := newOCRRouter(10)

	svc.On("ProcessMedicalDocument", mock.Anything, mock.MatchedBy(func(in *service.MedicalDocumentInput) bool {
		return in.Kind == domain.DocumentKindLabReport && in.Image.Key == "uploads/lab.png"
	})).Return(&domain.DocumentResult{
		Status: domain.DocumentStatusOK,
		Kind:   domain.DocumentKindLabReport,
		Record: &domain.StructuredMedicalRecord{
			Kind: domain.DocumentKindLabReport,
			LabReport: &domain.LabReportRecord{Results: []domain.LabResult{
				{TestName: "Hemoglobin", Value: "10.2", Unit: "g/dL", Flag: domain.LabFlagLow},
			}},
		},
	}, nil)

	w := doJSON(t, r, http.MethodPost, "/ocr/medical-document", map[string]string{
		"image_key":     "uploads/lab.png",
		"document_type": "lab_report",
	})

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Contains(t, string(env.Data), `"flag":"low"`)
	assert.Contains(t, string(env.Data), `"document_type":"lab_report"`)
}

func TestOCRMedicalDocument_UnknownKind(t *testing.T) {
	r, svc := newOCRRouter(10)

	w := doJSON(t, r, http.MethodPost, "/ocr/medical-document", map[string]string{
		"image_key":     "uploads/a.png",
		"document_type": "invoice",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ProcessMedicalDocument", mock.Anything, mock.Anything)
}

func multipartRequest(t *testing.T, fields map[string]string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("file", "scan.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/ocr/process-file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestOCRProcessFile_PlainOCR(t *testing.T) {
	r, svc := newOCRRouter(10)
	png := []byte("\x89PNG\r\n\x1a\nrest")

	svc.On("ProcessOCR", mock.Anything, mock.MatchedBy(func(in *service.OCRInput) bool {
		return bytes.Equal(in.Image.Data, png) && in.Language == "en"
	})).Return(&service.OCRResult{Status: domain.DocumentStatusOK, Text: "Napa"}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, map[string]string{"language": "en"}, png))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestOCRProcessFile_WithDocumentType(t *testing.T) {
	r, svc := newOCRRouter(10)

	svc.On("ProcessMedicalDocument", mock.Anything, mock.MatchedBy(func(in *service.MedicalDocumentInput) bool {
		return in.Kind == domain.DocumentKindPrescription
	})).Return(&domain.DocumentResult{Status: domain.DocumentStatusNoTextDetected, Kind: domain.DocumentKindPrescription}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, map[string]string{"document_type": "prescription"}, []byte("img")))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "no_text_detected")
}

func TestOCRProcessFile_MissingFile(t *testing.T) {
	r, _ := newOCRRouter(10)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, map[string]string{"language": "en"}, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decode(t, w).Error.Code)
}

func TestOCRProcessFile_TooLarge(t *testing.T) {
	r, svc := newOCRRouter(1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, nil, bytes.Repeat([]byte{'x'}, 2<<20)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "ProcessOCR", mock.Anything, mock.Anything)
}
