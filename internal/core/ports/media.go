package ports

import (
	"context"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

// MediaStorage is the media host. Put stores data under key and returns its
// public URL.
type MediaStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// MediaService uploads and deletes media on the media host.
type MediaService interface {
	UploadOne(ctx context.Context, file domain.MediaFile, folder string) (*domain.MediaRef, error)
	UploadMany(ctx context.Context, files []domain.MediaFile, folder string) ([]domain.MediaRef, error)
	Delete(ctx context.Context, publicID string) error
}
