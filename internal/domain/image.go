package domain

import (
	"context"
	"io"
)

// UploadedImage is the result of a successful object-storage upload.
// swagger:model UploadedImage
type UploadedImage struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// ImageUploader uploads a binary payload to object storage and returns its
// public URL and deletable key.
type ImageUploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (*UploadedImage, error)
}
