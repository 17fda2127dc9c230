package ports

import "context"

// ImageStore abstracts the remote image host backing avatar storage.
type ImageStore interface {
	// Upload stores content under publicID and returns the delivery URL.
	Upload(ctx context.Context, content []byte, publicID string) (string, error)
	// Delete removes the image behind url. It reports false when no image
	// existed, and an error only for an actual deletion failure.
	Delete(ctx context.Context, url string) (bool, error)
}
