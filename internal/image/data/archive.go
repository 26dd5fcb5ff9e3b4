package data

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/lk2023060901/image-studio-backend/internal/image/biz"
	"github.com/minio/minio-go/v7"
)

// MinIOArchive implements biz.ImageArchive on a MinIO bucket.
type MinIOArchive struct {
	client *minio.Client
	bucket string
}

func NewMinIOArchive(client *minio.Client, bucket string) biz.ImageArchive {
	return &MinIOArchive{client: client, bucket: bucket}
}

// Put decodes the base64 payload and uploads it as a PNG object.
func (a *MinIOArchive) Put(ctx context.Context, key string, b64 string) error {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return fmt.Errorf("invalid image payload: %w", err)
	}

	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "image/png",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return nil
}
