package service

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/andreivolkov/gatechat/internal/storage"
)

// 10 MB.
const maxUploadSize = 10 << 20

var allowedContentTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"text/plain": ".txt",
}

// UploadService stores attachment files in object storage and hands back
// their public URLs.
type UploadService struct {
	storage *storage.MinIOClient
}

// NewUploadService creates an UploadService.
func NewUploadService(st *storage.MinIOClient) *UploadService {
	return &UploadService{storage: st}
}

// Upload stores a file and returns its URL. The object key is a UUID so
// uploads never collide or leak the original filename.
func (s *UploadService) Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	if size <= 0 || size > maxUploadSize {
		return "", Validation("INVALID_FILE_SIZE", "file must be between 1 byte and 10 MB")
	}

	mediaType := contentType
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	ext, ok := allowedContentTypes[mediaType]
	if !ok {
		return "", Validation("UNSUPPORTED_FILE_TYPE", "file type is not allowed")
	}

	key := uuid.NewString() + ext
	if err := s.storage.Upload(ctx, key, reader, size, mediaType); err != nil {
		return "", Internal("INTERNAL", "internal server error")
	}
	return s.storage.GetURL(key), nil
}
