package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"sahara/internal/domain"
	"sahara/internal/service"
)

// OCRHandler handles text recognition endpoints.
type OCRHandler struct {
	documentService service.DocumentService
	maxUploadBytes  int64
}

// NewOCRHandler creates a new OCRHandler. maxUploadMB caps multipart uploads.
func NewOCRHandler(documentService service.DocumentService, maxUploadMB int64) *OCRHandler {
	return &OCRHandler{documentService: documentService, maxUploadBytes: maxUploadMB << 20}
}

// Process handles POST /api/v1/ocr/process
// @Summary Recognize text in an image
// @Description Run OCR on a base64 image or a stored scan and return the raw text with confidence
// @Tags ocr
// @Accept json
// @Produce json
// @Param request body OCRRequest true "Image and language hint"
// @Success 200 {object} Response{data=service.OCRResult} "Recognized text"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Image key not found"
// @Failure 415 {object} ErrorResponseBody "Unsupported image format"
// @Failure 502 {object} ErrorResponseBody "OCR provider failed"
// @Router /ocr/process [post]
func (h *OCRHandler) Process(c *gin.Context) {
	var req OCRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be JSON with image_base64 or image_key")
		return
	}

	result, err := h.documentService.ProcessOCR(c.Request.Context(), &service.OCRInput{
		Image:    imageInput(req.ImageRequest),
		Language: req.Language,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// MedicalDocument handles POST /api/v1/ocr/medical-document
// @Summary Recognize and structure a medical document
// @Description Run OCR on a prescription, lab report or other document and extract structured fields
// @Tags ocr
// @Accept json
// @Produce json
// @Param request body MedicalDocumentRequest true "Image, document type and language hint"
// @Success 200 {object} Response{data=domain.DocumentResult} "Structured document"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Image key not found"
// @Failure 415 {object} ErrorResponseBody "Unsupported image format"
// @Failure 502 {object} ErrorResponseBody "OCR provider failed"
// @Router /ocr/medical-document [post]
func (h *OCRHandler) MedicalDocument(c *gin.Context) {
	var req MedicalDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "document_type must be one of prescription, lab_report, generic")
		return
	}

	result, err := h.documentService.ProcessMedicalDocument(c.Request.Context(), &service.MedicalDocumentInput{
		Image:    imageInput(req.ImageRequest),
		Kind:     req.DocumentType,
		Language: req.Language,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// ProcessFile handles POST /api/v1/ocr/process-file
// @Summary Recognize text in an uploaded image
// @Description Multipart variant of /ocr/process; optional document_type also structures the text
// @Tags ocr
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Param language formData string false "Language hint (en, bn, auto)"
// @Param document_type formData string false "Structure as prescription, lab_report or generic"
// @Success 200 {object} Response "OCR result, or a structured document when document_type is set"
// @Failure 400 {object} ErrorResponseBody "Missing file"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 415 {object} ErrorResponseBody "Unsupported image format"
// @Failure 502 {object} ErrorResponseBody "OCR provider failed"
// @Router /ocr/process-file [post]
func (h *OCRHandler) ProcessFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read uploaded file")
		return
	}

	img := service.ImageInput{Data: data, ContentType: header.Header.Get("Content-Type")}
	language := c.PostForm("language")
	if kind := c.PostForm("document_type"); kind != "" {
		result, err := h.documentService.ProcessMedicalDocument(c.Request.Context(), &service.MedicalDocumentInput{
			Image:    img,
			Kind:     domain.DocumentKind(kind),
			Language: language,
		})
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, result)
		return
	}

	result, err := h.documentService.ProcessOCR(c.Request.Context(), &service.OCRInput{Image: img, Language: language})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

func imageInput(r ImageRequest) service.ImageInput {
	return service.ImageInput{Base64: r.Image, Key: r.Key, ContentType: r.ContentType}
}
