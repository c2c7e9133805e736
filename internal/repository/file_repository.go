package repository

import (
	"context"

	"github.com/yukikurage/school-management-api/internal/database"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/utils"
	"gorm.io/gorm"
)

// ErrFileNotFound is returned when no file matches the lookup.
var ErrFileNotFound = apierrors.NotFoundf("File not found.")

// GormFileRepository is a GORM implementation of FileRepository
type GormFileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *gorm.DB) FileRepository {
	return &GormFileRepository{db: db}
}

// List returns all files ordered by id
func (r *GormFileRepository) List(ctx context.Context, page *utils.PaginationParams) ([]models.File, error) {
	files := []models.File{}
	err := r.db.WithContext(ctx).
		Scopes(database.Paginate(page)).
		Order("id ASC").
		Find(&files).Error
	if err != nil {
		return nil, translate("list files", err, ErrFileNotFound)
	}
	return files, nil
}

// FindByID finds a file by ID
func (r *GormFileRepository) FindByID(ctx context.Context, id uint64) (*models.File, error) {
	var file models.File
	if err := r.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return nil, translate("find file", err, ErrFileNotFound)
	}
	return &file, nil
}

// ListByOwner returns the files of owner in insertion order
func (r *GormFileRepository) ListByOwner(ctx context.Context, owner models.OwnerRef) ([]models.File, error) {
	if !owner.Valid() {
		return nil, apierrors.Validation("invalid file owner")
	}

	files := []models.File{}
	err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(owner)).
		Order("id ASC").
		Find(&files).Error
	if err != nil {
		return nil, translate("list owner files", err, ErrFileNotFound)
	}
	return files, nil
}

// Create creates a new file row
func (r *GormFileRepository) Create(ctx context.Context, file *models.File) error {
	if _, err := file.Owner(); err != nil {
		return apierrors.Validation("invalid file owner: %v", err)
	}
	return translate("create file", r.db.WithContext(ctx).Create(file).Error, ErrFileNotFound)
}

// Delete removes a file row
func (r *GormFileRepository) Delete(ctx context.Context, file *models.File) error {
	result := r.db.WithContext(ctx).Delete(&models.File{}, file.ID)
	if result.Error != nil {
		return translate("delete file", result.Error, ErrFileNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}

// OwnerExists reports whether the row owner points at exists
func (r *GormFileRepository) OwnerExists(ctx context.Context, owner models.OwnerRef) (bool, error) {
	model, err := owner.Model()
	if err != nil {
		return false, apierrors.Validation("invalid file owner")
	}

	var count int64
	err = r.db.WithContext(ctx).
		Model(model).
		Where("id = ?", owner.ID()).
		Count(&count).Error
	if err != nil {
		return false, translate("check file owner", err, ErrFileNotFound)
	}
	return count > 0, nil
}
