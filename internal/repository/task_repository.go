package repository

import (
	"context"

	"github.com/yukikurage/school-management-api/internal/database"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/models"
	"gorm.io/gorm"
)

// ErrTaskNotFound is returned when no task matches the lookup.
var ErrTaskNotFound = apierrors.NotFoundf("Task not found.")

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	query := r.db.WithContext(ctx).Model(&models.Task{})

	// Apply filters
	if filter.CourseID != nil {
		query = query.Where("tasks.course_id = ?", *filter.CourseID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	err := query.
		Scopes(database.Paginate(filter.Page)).
		Order("tasks.id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, translate("list tasks", err, ErrTaskNotFound)
	}

	return tasks, nil
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, translate("find task", err, ErrTaskNotFound)
	}

	return &task, nil
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return translate("create task", r.db.WithContext(ctx).Omit("Files").Create(task).Error, ErrTaskNotFound)
}

// Update saves every field of task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return translate("update task", r.db.WithContext(ctx).Omit("Files").Save(task).Error, ErrTaskNotFound)
}

// Delete removes a task
func (r *GormTaskRepository) Delete(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, task.ID)
	if result.Error != nil {
		return translate("delete task", result.Error, ErrTaskNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DetachCourse clears course_id on every task of the course
func (r *GormTaskRepository) DetachCourse(ctx context.Context, courseID uint64) error {
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("course_id = ?", courseID).
		Update("course_id", nil).Error
	return translate("detach course tasks", err, ErrTaskNotFound)
}
