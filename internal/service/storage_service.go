package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"contract-analyzer/internal/domain"

	storage_go "github.com/supabase-community/storage-go"
)

// objectPrefix is where contract PDFs live inside the bucket. Callers may
// pass keys with or without it.
const objectPrefix = "documents/"

// SupabaseStorage fetches and stores contract PDFs in a Supabase storage
// bucket. It implements domain.ObjectStorage.
type SupabaseStorage struct {
	client *storage_go.Client
	bucket string
	logger domain.Logger
}

// NewStorageService creates the storage client from the project URL and key.
func NewStorageService(baseURL, apiKey, bucket string, logger domain.Logger) *SupabaseStorage {
	return &SupabaseStorage{
		client: storage_go.NewClient(baseURL+"/storage/v1", apiKey, nil),
		bucket: bucket,
		logger: logger,
	}
}

// Download fetches a PDF by object key, auto-prefixing with the documents
// folder when the caller passed a bare key.
func (s *SupabaseStorage) Download(ctx context.Context, objectKey string) ([]byte, error) {
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return nil, fmt.Errorf("object key is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := normalizeObjectKey(objectKey)

	data, err := s.client.DownloadFile(s.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	s.logger.Debug("Downloaded object from storage", "key", key, "bytes", len(data))
	return data, nil
}

// Upload stores a PDF under the given object key.
func (s *SupabaseStorage) Upload(ctx context.Context, objectKey string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := normalizeObjectKey(objectKey)
	contentType := "application/pdf"
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func normalizeObjectKey(key string) string {
	if strings.HasPrefix(key, objectPrefix) {
		return key
	}
	return objectPrefix + key
}
