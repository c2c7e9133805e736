package services

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/repository"
	"github.com/yukikurage/school-management-api/internal/storage"
	"github.com/yukikurage/school-management-api/internal/utils"
)

const octetStream = "application/octet-stream"

// FileService persists uploaded blobs and links them to their owners.
type FileService struct {
	fileRepo    repository.FileRepository
	storage     storage.Storage
	attachments *AttachmentService
	maxSize     int64
	now         func() time.Time
}

// NewFileService creates a new FileService
func NewFileService(
	fileRepo repository.FileRepository,
	store storage.Storage,
	attachments *AttachmentService,
	maxSize int64,
) *FileService {
	return &FileService{
		fileRepo:    fileRepo,
		storage:     store,
		attachments: attachments,
		maxSize:     maxSize,
		now:         time.Now,
	}
}

// List returns every file
func (s *FileService) List(ctx context.Context, page *utils.PaginationParams) ([]models.File, error) {
	return s.fileRepo.List(ctx, page)
}

// Get returns a single file
func (s *FileService) Get(ctx context.Context, id uint64) (*models.File, error) {
	return s.fileRepo.FindByID(ctx, id)
}

// FilesFor returns the files of owner
func (s *FileService) FilesFor(ctx context.Context, owner models.OwnerRef) ([]models.File, error) {
	return s.attachments.FilesFor(ctx, owner)
}

// Delete removes a file and its blob, returning its last state
func (s *FileService) Delete(ctx context.Context, id uint64) (*models.File, error) {
	file, err := s.fileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachments.Detach(ctx, *file); err != nil {
		return nil, err
	}
	return file, nil
}

// Store writes the uploaded part to storage under a fresh key.
// field is the form field name and prefixes the key.
func (s *FileService) Store(ctx context.Context, field string, header *multipart.FileHeader) (models.FileMetadata, error) {
	if header == nil {
		return models.FileMetadata{}, apierrors.Validation("File is required.")
	}
	if s.maxSize > 0 && header.Size > s.maxSize {
		return models.FileMetadata{}, apierrors.TooLargef("File exceeds the %d byte limit.", s.maxSize)
	}

	src, err := header.Open()
	if err != nil {
		return models.FileMetadata{}, apierrors.Validation("Could not read uploaded file.")
	}
	defer src.Close()

	mimeType, err := detectMimeType(src, header)
	if err != nil {
		return models.FileMetadata{}, apierrors.Validation("Could not read uploaded file.")
	}

	key := utils.StorageKey(field, header.Filename, mimeType, s.now())
	if err := s.storage.Save(ctx, key, src, mimeType); err != nil {
		return models.FileMetadata{}, err
	}

	return models.FileMetadata{
		Name:     originalName(header.Filename),
		Path:     key,
		URL:      s.storage.URL(key),
		MimeType: mimeType,
		Size:     header.Size,
	}, nil
}

// Upload stores the part and attaches it to owner.
func (s *FileService) Upload(ctx context.Context, owner models.OwnerRef, field string, header *multipart.FileHeader) (*models.File, error) {
	return s.storeAndLink(ctx, owner, field, header, s.attachments.Attach)
}

// Replace stores the part and makes it the only file of owner.
func (s *FileService) Replace(ctx context.Context, owner models.OwnerRef, field string, header *multipart.FileHeader) (*models.File, error) {
	return s.storeAndLink(ctx, owner, field, header, s.attachments.Replace)
}

type linkFunc func(ctx context.Context, owner models.OwnerRef, meta models.FileMetadata) (*models.File, error)

func (s *FileService) storeAndLink(ctx context.Context, owner models.OwnerRef, field string, header *multipart.FileHeader, link linkFunc) (*models.File, error) {
	if err := s.attachments.ensureOwner(ctx, owner); err != nil {
		return nil, err
	}

	meta, err := s.Store(ctx, field, header)
	if err != nil {
		return nil, err
	}

	file, err := link(ctx, owner, meta)
	if err != nil {
		// The row was never written, so the blob is unreachable
		s.attachments.deleteBlob(ctx, models.NewFile(owner, meta))
		return nil, err
	}
	return file, nil
}

// detectMimeType sniffs the content, then falls back to the part header
// and the file extension. src is rewound afterwards.
func detectMimeType(src multipart.File, header *multipart.FileHeader) (string, error) {
	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	if !detected.Is(octetStream) {
		return detected.String(), nil
	}

	if ct := header.Header.Get("Content-Type"); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil && mediaType != octetStream {
			return mediaType, nil
		}
	}

	if byExt := mime.TypeByExtension(strings.ToLower(path.Ext(header.Filename))); byExt != "" {
		return byExt, nil
	}
	return octetStream, nil
}

// originalName keeps the client's display name. Names that are only a
// directory reference or carry unprintable runes fall back to the sanitized form.
func originalName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == ".." || base == "/" || base == "" ||
		!utf8.ValidString(base) || strings.IndexFunc(base, unicode.IsControl) >= 0 {
		return utils.SanitizeFileName(base)
	}
	return base
}
