package service

import (
	"context"
	"io"
)

// ImageStore persists product images in blob storage and returns a public URL.
type ImageStore interface {
	// Save writes the image under a key derived from the product ID and
	// returns the URL to store on the product.
	Save(ctx context.Context, key, contentType string, body io.Reader) (string, error)

	// Delete removes a previously stored image. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
