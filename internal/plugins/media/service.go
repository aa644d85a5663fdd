package media

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/stockroom/internal/apperror"
)

// MediaService handles business logic for image uploads.
type MediaService interface {
	Upload(ctx context.Context, input UploadInput) (*Upload, error)
	Destination() string
	MaxSize() int64
}

// mediaService implements MediaService.
type mediaService struct {
	repo    UploadRepository
	store   BlobStore
	maxSize int64 // Maximum file size in bytes.
}

// NewMediaService creates a new media service.
func NewMediaService(repo UploadRepository, store BlobStore, maxSize int64) MediaService {
	return &mediaService{
		repo:    repo,
		store:   store,
		maxSize: maxSize,
	}
}

// Destination reports where the blob store writes files.
func (s *mediaService) Destination() string {
	return s.store.Destination()
}

// MaxSize is the largest accepted image in bytes.
func (s *mediaService) MaxSize() int64 {
	return s.maxSize
}

// Upload validates, stores, and records a new image. The stored name is a
// fresh UUID plus the type's extension; the client's name is kept only as
// metadata.
func (s *mediaService) Upload(ctx context.Context, input UploadInput) (*Upload, error) {
	if !AllowedMimeTypes[input.MimeType] {
		return nil, apperror.NewBadRequest(msgNotAnImage)
	}
	if int64(len(input.FileBytes)) > s.maxSize {
		return nil, apperror.NewBadRequest(msgFileTooLarge)
	}
	if !validateMagicBytes(input.FileBytes, input.MimeType) {
		return nil, apperror.NewBadRequest(msgNotAnImage)
	}

	id := uuid.NewString()
	filename := id + MimeToExtension[input.MimeType]

	location, err := s.store.Put(ctx, filename, input.FileBytes, input.MimeType)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("storing upload: %w", err))
	}

	upload := &Upload{
		ID:           id,
		UploadedBy:   input.UploadedBy,
		Filename:     filename,
		OriginalName: clampOriginalName(input.OriginalName),
		MimeType:     input.MimeType,
		FileSize:     int64(len(input.FileBytes)),
		Location:     location,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}

	if err := s.repo.Create(ctx, upload); err != nil {
		// Don't leave an orphaned file behind a failed insert.
		if delErr := s.store.Delete(ctx, filename); delErr != nil {
			slog.Warn("failed to remove orphaned upload",
				slog.String("filename", filename),
				slog.Any("error", delErr),
			)
		}
		return nil, apperror.NewInternal(fmt.Errorf("saving upload record: %w", err))
	}

	slog.Info("image uploaded",
		slog.String("id", id),
		slog.String("uploaded_by", input.UploadedBy),
		slog.String("mime_type", input.MimeType),
		slog.Int64("size", upload.FileSize),
	)
	return upload, nil
}
