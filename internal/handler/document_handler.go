package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sahara/internal/export"
	"sahara/internal/service"
)

// DocumentHandler handles structuring of already-recognized text.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Structure handles POST /api/v1/documents/structure
// @Summary Structure recognized text
// @Description Extract prescription, lab report or generic fields from raw text without running OCR
// @Tags documents
// @Accept json
// @Produce json
// @Param request body StructureRequest true "Raw text and document type"
// @Success 200 {object} Response{data=domain.DocumentResult} "Structured document"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Router /documents/structure [post]
func (h *DocumentHandler) Structure(c *gin.Context) {
	var req StructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "raw_text is required; document_type must be one of prescription, lab_report, generic")
		return
	}

	result, err := h.documentService.StructureText(c.Request.Context(), &service.StructureInput{
		RawText:  req.RawText,
		Kind:     req.DocumentType,
		Language: req.Language,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Export handles POST /api/v1/documents/export
// @Summary Export a structured document
// @Description Structure raw text and download it as CSV or XLSX
// @Tags documents
// @Accept json
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "Export format (csv, xlsx)" default(csv)
// @Param request body ExportRequest true "Raw text and document type"
// @Success 200 {file} binary "Export file"
// @Failure 400 {object} ErrorResponseBody "Invalid request or format"
// @Router /documents/export [post]
func (h *DocumentHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "raw_text is required; document_type must be one of prescription, lab_report, generic")
		return
	}

	out, err := h.documentService.Export(c.Request.Context(), &service.ExportInput{
		RawText: req.RawText,
		Kind:    req.DocumentType,
		Format:  format,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}
