package service

import (
	"context"
	"encoding/base64"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bisafix/marketplace-api/internal/core/domain"
	"github.com/bisafix/marketplace-api/internal/core/ports"
	"github.com/bisafix/marketplace-api/internal/pkg/metrics"
)

type mediaService struct {
	storage ports.MediaStorage
	log     zerolog.Logger
}

// NewMediaService returns a MediaService implementation.
func NewMediaService(storage ports.MediaStorage, log zerolog.Logger) ports.MediaService {
	return &mediaService{storage: storage, log: log}
}

// UploadOne stores file under folder with a random object name. Provider
// errors are logged and replaced by domain.ErrUploadFailed.
func (s *mediaService) UploadOne(ctx context.Context, file domain.MediaFile, folder string) (*domain.MediaRef, error) {
	ref, err := s.put(ctx, file, folder)
	if err != nil {
		return nil, domain.ErrUploadFailed.Wrap(err)
	}
	return ref, nil
}

// UploadMany uploads files concurrently. The result keeps the input order.
// The first failure cancels the rest; objects already stored stay in place.
func (s *mediaService) UploadMany(ctx context.Context, files []domain.MediaFile, folder string) ([]domain.MediaRef, error) {
	refs := make([]domain.MediaRef, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			ref, err := s.put(gctx, file, folder)
			if err != nil {
				return err
			}
			refs[i] = *ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.ErrBatchUploadFailed.Wrap(err)
	}
	return refs, nil
}

func (s *mediaService) put(ctx context.Context, file domain.MediaFile, folder string) (*domain.MediaRef, error) {
	detected := mimetype.Detect(file.Data)
	contentType := file.ContentType
	if contentType == "" {
		contentType = detected.String()
	}
	key := path.Join(folder, uuid.NewString()+detected.Extension())

	start := time.Now()
	url, err := s.storage.Put(ctx, key, file.Data, contentType)
	metrics.MediaUploadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MediaOperationsTotal.WithLabelValues("upload", "error").Inc()
		s.log.Error().Err(err).Str("key", key).Msg("media upload failed")
		return nil, err
	}
	metrics.MediaOperationsTotal.WithLabelValues("upload", "ok").Inc()
	return &domain.MediaRef{URL: url, PublicID: key}, nil
}

// Delete removes the object identified by publicID.
func (s *mediaService) Delete(ctx context.Context, publicID string) error {
	if err := s.storage.Remove(ctx, publicID); err != nil {
		metrics.MediaOperationsTotal.WithLabelValues("delete", "error").Inc()
		s.log.Error().Err(err).Str("key", publicID).Msg("media delete failed")
		return domain.ErrDeleteFailed.Wrap(err)
	}
	metrics.MediaOperationsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

// DecodeDataURI decodes a "data:<mime>;base64,<payload>" string into a MediaFile.
func DecodeDataURI(uri string) (domain.MediaFile, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return domain.MediaFile{}, domain.NewValidation("Invalid data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return domain.MediaFile{}, domain.NewValidation("Invalid data URI")
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return domain.MediaFile{}, domain.NewValidation("Only base64 data URIs are supported")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return domain.MediaFile{}, domain.NewValidation("Invalid data URI")
	}
	return domain.MediaFile{Data: data, ContentType: contentType}, nil
}
