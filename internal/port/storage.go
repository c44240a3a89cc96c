package port

import "context"

// ImageSource loads previously uploaded scans by object key.
type ImageSource interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}
