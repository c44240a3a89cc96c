package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInputInvalid        = errors.New("invalid input")
	ErrProviderUnavailable = errors.New("all AI providers are unavailable")
	ErrOCRUnavailable      = errors.New("OCR provider is unavailable")
	ErrImageNotFound       = errors.New("image not found")
	ErrUnsupportedImage    = errors.New("unsupported image format")
	ErrAIResponseInvalid   = errors.New("AI response could not be parsed")
)

// ProviderUnavailableError is returned when neither the primary nor the
// secondary AI provider produced a response. Secondary is nil when no
// fallback was configured or the caller cancelled before it was attempted.
type ProviderUnavailableError struct {
	Primary   error
	Secondary error
}

func (e *ProviderUnavailableError) Error() string {
	if e.Secondary == nil {
		return fmt.Sprintf("%v: primary: %v", ErrProviderUnavailable, e.Primary)
	}
	return fmt.Sprintf("%v: primary: %v; secondary: %v", ErrProviderUnavailable, e.Primary, e.Secondary)
}

func (e *ProviderUnavailableError) Is(target error) bool {
	return target == ErrProviderUnavailable
}

// Unwrap exposes both causes to errors.Is / errors.As.
func (e *ProviderUnavailableError) Unwrap() []error {
	var errs []error
	if e.Primary != nil {
		errs = append(errs, e.Primary)
	}
	if e.Secondary != nil {
		errs = append(errs, e.Secondary)
	}
	return errs
}

// OCRUnavailableError wraps a failed or timed-out OCR call.
type OCRUnavailableError struct {
	Engine string
	Err    error
}

func (e *OCRUnavailableError) Error() string {
	return fmt.Sprintf("%v (%s): %v", ErrOCRUnavailable, e.Engine, e.Err)
}

func (e *OCRUnavailableError) Is(target error) bool {
	return target == ErrOCRUnavailable
}

func (e *OCRUnavailableError) Unwrap() error {
	return e.Err
}

// InvalidInputf returns an error wrapping ErrInputInvalid with a detail message.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInputInvalid, fmt.Sprintf(format, args...))
}
