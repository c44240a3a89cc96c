package provider

import (
	"context"
	"fmt"

	"sahara/internal/port"
)

// Unavailable is a CompletionProvider that always fails with the error that
// prevented the real provider from being built. It lets the service start
// without AI credentials while reporting not-ready.
type Unavailable struct {
	Name string
	Err  error
}

func (u *Unavailable) Complete(_ context.Context, _ port.CompletionRequest) (*port.CompletionOutput, error) {
	return nil, fmt.Errorf("%s not configured: %w", u.Name, u.Err)
}
