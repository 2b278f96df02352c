// Package storage provides an object-storage adapter for user-uploaded
// images, targeting any S3-compatible endpoint (AWS S3, Cloudflare R2).
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"communityhub/internal/domain"
)

// S3Config holds configuration for an S3-compatible bucket.
type S3Config struct {
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicURL is the base URL objects are publicly served from. When set,
	// returned URLs are built on it instead of the upload endpoint.
	PublicURL string
}

type s3Uploader struct {
	logger    *slog.Logger
	uploader  *manager.Uploader
	bucket    string
	publicURL string
}

// NewS3Uploader creates an uploader backed by an S3-compatible bucket.
func NewS3Uploader(logger *slog.Logger, config S3Config) domain.ImageUploader {
	awsCfg := aws.Config{
		Region: "auto",
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			),
		),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
		// R2 and most S3 clones require path-style addressing.
		o.UsePathStyle = true
	})
	return &s3Uploader{
		logger:    logger,
		uploader:  manager.NewUploader(client),
		bucket:    config.Bucket,
		publicURL: strings.TrimRight(config.PublicURL, "/"),
	}
}

func (u *s3Uploader) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (*domain.UploadedImage, error) {
	key := objectKey(folder, filename)

	result, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object %q: %w", key, err)
	}

	url := result.Location
	if u.publicURL != "" {
		url = u.publicURL + "/" + key
	}

	u.logger.Info("object uploaded", "bucket", u.bucket, "key", key)
	return &domain.UploadedImage{URL: url, Key: key}, nil
}

// objectKey builds a collision-free key, keeping the original extension so
// browsers and CDNs can infer the content type from the URL.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	name := uuid.NewString() + ext
	if folder == "" {
		return name
	}
	return strings.Trim(folder, "/") + "/" + name
}
