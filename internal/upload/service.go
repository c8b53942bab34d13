package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// BlobStore is the durable storage collaborator. Satisfied by
// storage.MinIOStorage and by test fakes.
type BlobStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Service validates incoming documents against the intake policy and, only
// on acceptance, hands the buffered bytes to the blob store. Rejections
// never produce a partial write.
type Service struct {
	store   BlobStore
	urlTTL  time.Duration
	maxSize int64
}

func NewService(store BlobStore) *Service {
	return &Service{store: store, urlTTL: 7 * 24 * time.Hour, maxSize: MaxBytes}
}

// Store classifies the upload and persists it, returning a durable document
// URL. declaredSize may be negative when the transport does not know the
// body length up front; the stream is then capped while reading and aborts
// at the byte threshold without writing anything.
func (s *Service) Store(ctx context.Context, fieldName, fileName, mimeType string, r io.Reader, declaredSize int64) (string, error) {
	size := declaredSize
	if size < 0 {
		size = 0 // unknown, enforced while buffering below
	}
	if err := Classify(fieldName, mimeType, size); err != nil {
		return "", err
	}

	// Buffer in memory (documents are capped at 5 MiB). Read one byte past
	// the limit so oversized streams are detected without trusting the
	// declared size.
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if n > s.maxSize {
		return "", ErrPayloadTooLarge
	}

	key := fmt.Sprintf("%s/%s%s", fieldName, uuid.NewString(), path.Ext(fileName))
	if err := s.store.UploadFile(ctx, key, bytes.NewReader(buf.Bytes()), n, mimeType); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	url, err := s.store.GetPresignedURL(ctx, key, s.urlTTL)
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	return url, nil
}
