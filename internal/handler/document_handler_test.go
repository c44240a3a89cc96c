package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sahara/internal/domain"
	"sahara/internal/export"
	"sahara/internal/handler"
	"sahara/internal/service"
	"sahara/mocks"
)

func newDocumentRouter() (*gin.Engine, *mocks.MockDocumentService) {
	svc := new(mocks.MockDocumentService)
	h := handler.NewDocumentHandler(svc)
	r := gin.New()
	r.POST("/documents/structure", h.Structure)
	r.POST("/documents/export", h.Export)
	return r, svc
}

func TestStructure_Success(t *testing.T) {
	r, svc := newDocumentRouter()

	svc.On("StructureText", mock.Anything, &service.StructureInput{
		RawText: "Tab Napa 500mg 1+0+1",
		Kind:    domain.DocumentKindPrescription,
	}).Return(&domain.DocumentResult{
		Status: domain.DocumentStatusOK,
		Kind:   domain.DocumentKindPrescription,
		Record: &domain.StructuredMedicalRecord{
			Kind: domain.DocumentKindPrescription,
			Prescription: &domain.PrescriptionRecord{Items: []domain.PrescriptionItem{
				{DrugName: "Napa", Dosage: "500mg", Frequency: "1+0+1"},
			}},
		},
	}, nil)

	w := doJSON(t, r, http.MethodPost, "/documents/structure", map[string]string{
		"raw_text":      "Tab Napa 500mg 1+0+1",
		"document_type": "prescription",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"drug_name":"Napa"`)
	svc.AssertExpectations(t)
}

func TestStructure_MissingText(t *testing.T) {
	r, svc := newDocumentRouter()

	w := doJSON(t, r, http.MethodPost, "/documents/structure", map[string]string{"document_type": "generic"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "StructureText", mock.Anything, mock.Anything)
}

func TestExport_XLSX(t *testing.T) {
	r, svc := newDocumentRouter()

	svc.On("Export", mock.Anything, &service.ExportInput{
		RawText: "Hemoglobin 10.2 g/dL 13.0-17.0",
		Kind:    domain.DocumentKindLabReport,
		Format:  export.FormatXLSX,
	}).Return(&service.ExportOutput{
		Filename:    "lab_report_2026-10-15.xlsx",
		ContentType: export.FormatXLSX.ContentType(),
		Data:        []byte("PK\x03\x04"),
	}, nil)

	w := doJSON(t, r, http.MethodPost, "/documents/export?format=xlsx", map[string]string{
		"raw_text":      "Hemoglobin 10.2 g/dL 13.0-17.0",
		"document_type": "lab_report",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.FormatXLSX.ContentType(), w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="lab_report_2026-10-15.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK\x03\x04", w.Body.String())
}

func TestExport_UnknownFormat(t *testing.T) {
	r, svc := newDocumentRouter()

	w := doJSON(t, r, http.MethodPost, "/documents/export?format=pdf", map[string]string{"raw_text": "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, w).Error.Code)
	svc.AssertNotCalled(t, "Export", mock.Anything, mock.Anything)
}
