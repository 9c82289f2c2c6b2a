package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// CloudinaryStorageService implements StorageService using Cloudinary.
type CloudinaryStorageService struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewStorageService creates a Cloudinary-backed StorageService.
func NewStorageService(cld *cloudinary.Cloudinary, cloudName string) StorageService {
	return &CloudinaryStorageService{cld: cld, cloudName: cloudName}
}

// UploadImage uploads an image into the given folder and returns the
// delivery URL.
func (s *CloudinaryStorageService) UploadImage(ctx context.Context, reader io.Reader, destFolder string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, reader, uploader.UploadParams{
		Folder:   destFolder,
		PublicID: uuid.New().String(),
	})
	if err != nil {
		return "", fmt.Errorf("storage: failed to upload image: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("storage: no URL returned for uploaded image")
	}
	return result.SecureURL, nil
}

// DeleteImage deletes an image given its delivery URL or public ID.
func (s *CloudinaryStorageService) DeleteImage(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: extractPublicID(publicID)})
	if err != nil {
		return fmt.Errorf("storage: failed to delete image: %w", err)
	}
	return nil
}

// extractPublicID recovers the public ID from a Cloudinary delivery URL.
// Non-URL inputs pass through unchanged.
func extractPublicID(urlOrID string) string {
	if !strings.Contains(urlOrID, "/") {
		return urlOrID
	}
	parts := strings.Split(urlOrID, "/upload/")
	if len(parts) != 2 {
		return urlOrID
	}
	p := parts[1]
	// Strip the version segment and the file extension.
	if idx := strings.Index(p, "/"); idx != -1 && strings.HasPrefix(p, "v") {
		p = p[idx+1:]
	}
	return strings.TrimSuffix(p, path.Ext(p))
}
