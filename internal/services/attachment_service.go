package services

import (
	"context"
	"fmt"

	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/events"
	"github.com/yukikurage/school-management-api/internal/metrics"
	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/repository"
	"github.com/yukikurage/school-management-api/internal/storage"
	"go.uber.org/zap"
)

// BlobDeletionHook is called when a blob could not be removed from storage.
// The File row is already gone at that point.
type BlobDeletionHook func(ctx context.Context, file models.File, err error)

// LogBlobDeletionFailures returns a hook that logs the failure and counts it.
func LogBlobDeletionFailures(log *zap.Logger, m *metrics.Metrics) BlobDeletionHook {
	return func(_ context.Context, file models.File, err error) {
		log.Warn("failed to delete blob",
			zap.Uint64("file_id", file.ID),
			zap.String("owner", file.FileableType),
			zap.Uint64("owner_id", file.FileableID),
			zap.String("path", file.Path),
			zap.Error(err),
		)
		m.File(metrics.FileBlobDeleteFailed)
	}
}

// AttachmentService resolves and mutates the files owned by a Course, User or Task.
type AttachmentService struct {
	fileRepo  repository.FileRepository
	storage   storage.Storage
	publisher events.Publisher
	metrics   *metrics.Metrics
	onBlobErr BlobDeletionHook
}

// NewAttachmentService creates a new AttachmentService.
// A nil hook discards blob deletion failures.
func NewAttachmentService(
	fileRepo repository.FileRepository,
	store storage.Storage,
	publisher events.Publisher,
	m *metrics.Metrics,
	onBlobErr BlobDeletionHook,
) *AttachmentService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if onBlobErr == nil {
		onBlobErr = func(context.Context, models.File, error) {}
	}
	return &AttachmentService{
		fileRepo:  fileRepo,
		storage:   store,
		publisher: publisher,
		metrics:   m,
		onBlobErr: onBlobErr,
	}
}

// FilesFor returns the files of owner in insertion order.
func (s *AttachmentService) FilesFor(ctx context.Context, owner models.OwnerRef) ([]models.File, error) {
	if err := s.ensureOwner(ctx, owner); err != nil {
		return nil, err
	}
	return s.fileRepo.ListByOwner(ctx, owner)
}

// Attach records a blob the upload layer already stored as a file of owner.
func (s *AttachmentService) Attach(ctx context.Context, owner models.OwnerRef, meta models.FileMetadata) (*models.File, error) {
	if err := s.ensureOwner(ctx, owner); err != nil {
		return nil, err
	}

	file, err := s.attach(ctx, owner, meta)
	if err != nil {
		return nil, err
	}

	s.metrics.File(metrics.FileAttached)
	s.publisher.Publish(ctx, events.FileAttached, file)
	return file, nil
}

// Replace removes every current file of owner, then attaches meta.
// Blob deletion is best-effort and reported through the hook.
// A blob whose path equals meta.Path is kept.
func (s *AttachmentService) Replace(ctx context.Context, owner models.OwnerRef, meta models.FileMetadata) (*models.File, error) {
	if err := s.ensureOwner(ctx, owner); err != nil {
		return nil, err
	}

	current, err := s.fileRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	for i := range current {
		old := current[i]
		if err := s.fileRepo.Delete(ctx, &old); err != nil {
			return nil, fmt.Errorf("failed to remove file %d: %w", old.ID, err)
		}
		if old.Path != meta.Path {
			s.deleteBlob(ctx, old)
		}
	}

	file, err := s.attach(ctx, owner, meta)
	if err != nil {
		return nil, err
	}

	s.metrics.File(metrics.FileReplaced)
	s.publisher.Publish(ctx, events.FileReplaced, file)
	return file, nil
}

// Detach deletes the file row, then its blob.
func (s *AttachmentService) Detach(ctx context.Context, file models.File) error {
	if err := s.fileRepo.Delete(ctx, &file); err != nil {
		return err
	}
	s.deleteBlob(ctx, file)

	s.metrics.File(metrics.FileDetached)
	s.publisher.Publish(ctx, events.FileDetached, file)
	return nil
}

// DetachAll detaches every file of owner. Used before the owner is deleted.
func (s *AttachmentService) DetachAll(ctx context.Context, owner models.OwnerRef) error {
	files, err := s.fileRepo.ListByOwner(ctx, owner)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := s.Detach(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *AttachmentService) attach(ctx context.Context, owner models.OwnerRef, meta models.FileMetadata) (*models.File, error) {
	file := models.NewFile(owner, meta)
	if err := s.fileRepo.Create(ctx, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

func (s *AttachmentService) ensureOwner(ctx context.Context, owner models.OwnerRef) error {
	if !owner.Valid() {
		return apierrors.Validation("Invalid file owner.")
	}

	ok, err := s.fileRepo.OwnerExists(ctx, owner)
	if err != nil {
		return err
	}
	if !ok {
		return apierrors.NotFoundf("%s not found.", owner.Type())
	}
	return nil
}

func (s *AttachmentService) deleteBlob(ctx context.Context, file models.File) {
	if s.storage == nil || file.Path == "" {
		return
	}
	if err := s.storage.Delete(ctx, file.Path); err != nil {
		s.onBlobErr(ctx, file, err)
	}
}
