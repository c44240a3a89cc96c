package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sahara/internal/domain"
	"sahara/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Input errors carry their detail to the caller; everything else gets a fixed message.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_IMAGE", "unsupported image format; allowed: jpeg, png, gif, webp, bmp, tiff"
	case errors.Is(err, domain.ErrInputInvalid):
		return http.StatusBadRequest, "INVALID_INPUT", err.Error()
	case errors.Is(err, domain.ErrImageNotFound):
		return http.StatusNotFound, "IMAGE_NOT_FOUND", "image not found"
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, "AI_UNAVAILABLE", "AI service is temporarily unavailable; please try again later"
	case errors.Is(err, domain.ErrOCRUnavailable):
		return http.StatusBadGateway, "OCR_UNAVAILABLE", "OCR service failed to process the image"
	case errors.Is(err, domain.ErrAIResponseInvalid):
		return http.StatusBadGateway, "AI_BAD_RESPONSE", "AI service returned a response that could not be used; please try again"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	l := middleware.GetLogger(c)
	switch {
	case status >= 500:
		l.Error().Err(err).Str("code", code).Msg("request failed")
	default:
		l.Debug().Err(err).Str("code", code).Msg("request rejected")
	}
	RespondError(c, status, code, msg)
}
