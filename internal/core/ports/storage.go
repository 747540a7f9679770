package ports

import "context"

// ImageStore persists listing images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
