package storage

import (
	"context"
	"io"
)

// StorageService defines the interface for blob storage operations.
// Marketplace image uploads and deletions go through it.
type StorageService interface {
	// UploadImage stores the image under the given folder and returns
	// its public URL.
	UploadImage(ctx context.Context, reader io.Reader, destFolder string) (string, error)
	// DeleteImage removes a previously uploaded image by its URL or
	// public ID.
	DeleteImage(ctx context.Context, publicID string) error
}
