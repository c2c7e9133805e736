package repository

import (
	"context"

	"github.com/yukikurage/school-management-api/internal/database"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/utils"
	"gorm.io/gorm"
)

// ErrCourseNotFound is returned when no course matches the lookup.
var ErrCourseNotFound = apierrors.NotFoundf("Course not found.")

// GormCourseRepository is a GORM implementation of CourseRepository
type GormCourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &GormCourseRepository{db: db}
}

// List returns courses ordered by id
func (r *GormCourseRepository) List(ctx context.Context, page *utils.PaginationParams) ([]models.Course, error) {
	courses := []models.Course{}
	err := r.db.WithContext(ctx).
		Scopes(database.Paginate(page)).
		Order("id ASC").
		Find(&courses).Error
	if err != nil {
		return nil, translate("list courses", err, ErrCourseNotFound)
	}
	return courses, nil
}

// FindByID finds a course by ID with optional preloading
func (r *GormCourseRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Course, error) {
	var course models.Course
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p, func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
	}

	if err := query.First(&course, id).Error; err != nil {
		return nil, translate("find course", err, ErrCourseNotFound)
	}

	return &course, nil
}

// Create creates a new course
func (r *GormCourseRepository) Create(ctx context.Context, course *models.Course) error {
	return translate("create course", r.db.WithContext(ctx).Omit("Files", "Tasks").Create(course).Error, ErrCourseNotFound)
}

// Update saves every field of course
func (r *GormCourseRepository) Update(ctx context.Context, course *models.Course) error {
	return translate("update course", r.db.WithContext(ctx).Omit("Files", "Tasks").Save(course).Error, ErrCourseNotFound)
}

// Delete removes a course
func (r *GormCourseRepository) Delete(ctx context.Context, course *models.Course) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, course.ID)
	if result.Error != nil {
		return translate("delete course", result.Error, ErrCourseNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}
